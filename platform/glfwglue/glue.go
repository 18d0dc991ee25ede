/*
Package glfwglue implements platform.Glue on top of GLFW. It maps window
events onto lifecycle commands the same way sdlglue does. GLFW has no sensor
API; use sensor.Unavailable with this glue.
*/
package glfwglue

import (
	"sync/atomic"
	"time"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/glfwgl"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Options configure the glue.
type Options struct {
	Title         string
	Width, Height int32
	Fullscreen    bool
	// Attribs are applied before the window is created.
	Attribs gfx.Attribs
	// Store may be nil.
	Store platform.StateStore
	Log   *zap.Logger
}

// Glue is the GLFW implementation of platform.Glue.
type Glue struct {
	platform.Base
	log       *zap.Logger
	window    *Window
	attached  bool
	minimized bool
	focused   bool
	finishing bool
	gotEvent  bool
	mouseDown bool

	blocking         int32
	destroyRequested int32
}

// New initializes GLFW and creates the window. Must be called from the main
// thread. Call Close when done.
func New(opts Options) (*Glue, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	g := &Glue{log: log}
	g.InitBase(g, opts.Store, log)
	g.AfterDispatch(g.afterCommand)

	glfwgl.Hints(opts.Attribs)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	width, height := int(opts.Width), int(opts.Height)
	var monitor *glfw.Monitor
	if opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}
	win, err := glfw.CreateWindow(width, height, opts.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	g.window = &Window{w: win}
	g.attached = true

	win.SetFocusCallback(g.onFocus)
	win.SetIconifyCallback(g.onIconify)
	win.SetCloseCallback(g.onClose)
	win.SetFramebufferSizeCallback(g.onFramebufferSize)
	win.SetRefreshCallback(g.onRefresh)
	win.SetMouseButtonCallback(g.onMouseButton)
	win.SetCursorPosCallback(g.onCursorPos)
	win.SetKeyCallback(g.onKey)
	log.Info("created window", zap.Int("width", width),
		zap.Int("height", height), zap.Bool("fullscreen", opts.Fullscreen))

	g.Enqueue(platform.CmdStart)
	g.Enqueue(platform.CmdResume)
	g.Enqueue(platform.CmdInitWindow)
	return g, nil
}

// Close destroys the window and terminates GLFW.
func (g *Glue) Close() {
	if g.window != nil {
		g.window.w.Destroy()
		g.window = nil
	}
	glfw.Terminate()
}

// Window implements platform.Glue.
func (g *Glue) Window() platform.Window {
	if g.window == nil || !g.attached {
		return nil
	}
	return g.window
}

// Looper implements platform.Glue.
func (g *Glue) Looper() platform.Looper {
	return g
}

// Wake implements platform.Looper. It may be called from any goroutine.
func (g *Glue) Wake(ident platform.Ident) {
	g.Base.Wake(ident)
	if atomic.LoadInt32(&g.blocking) == 1 {
		glfw.PostEmptyEvent()
	}
}

// RequestDestroy implements platform.Glue. It may be called from any
// goroutine.
func (g *Glue) RequestDestroy() {
	atomic.StoreInt32(&g.destroyRequested, 1)
	glfw.PostEmptyEvent()
}

// Poll implements platform.Glue.
func (g *Glue) Poll(timeout time.Duration) (platform.Ident, bool) {
	atomic.StoreInt32(&g.blocking, 1)
	if ident, ok := g.Pending(); ok {
		atomic.StoreInt32(&g.blocking, 0)
		return ident, true
	}
	g.gotEvent = false
	switch {
	case timeout < 0:
		glfw.WaitEvents()
	case timeout == 0:
		glfw.PollEvents()
	default:
		glfw.WaitEventsTimeout(timeout.Seconds())
	}
	atomic.StoreInt32(&g.blocking, 0)
	if atomic.CompareAndSwapInt32(&g.destroyRequested, 1, 0) {
		g.log.Info("destroy requested")
		g.finish()
	}
	if ident, ok := g.Pending(); ok {
		return ident, true
	}
	if g.gotEvent {
		return platform.IdentInput, true
	}
	return 0, false
}

func (g *Glue) onFocus(w *glfw.Window, focused bool) {
	if g.finishing || focused == g.focused {
		return
	}
	g.focused = focused
	if focused {
		g.Enqueue(platform.CmdGainedFocus)
	} else {
		g.Enqueue(platform.CmdLostFocus)
	}
}

func (g *Glue) onIconify(w *glfw.Window, iconified bool) {
	if g.finishing || iconified == g.minimized {
		return
	}
	g.minimized = iconified
	if iconified {
		g.Enqueue(platform.CmdPause)
		g.Enqueue(platform.CmdSaveState)
		g.Enqueue(platform.CmdTermWindow)
		g.Enqueue(platform.CmdStop)
	} else {
		g.attached = true
		g.Enqueue(platform.CmdStart)
		g.Enqueue(platform.CmdResume)
		g.Enqueue(platform.CmdInitWindow)
	}
}

func (g *Glue) onClose(w *glfw.Window) {
	// the window stays until Close, the application decides when to stop
	w.SetShouldClose(false)
	g.finish()
}

func (g *Glue) onFramebufferSize(w *glfw.Window, width, height int) {
	if g.attached && width > 0 && height > 0 {
		g.Enqueue(platform.CmdWindowResized)
	}
}

func (g *Glue) onRefresh(w *glfw.Window) {
	if g.attached {
		g.Enqueue(platform.CmdWindowRedrawNeeded)
	}
}

func (g *Glue) finish() {
	if g.finishing {
		return
	}
	g.finishing = true
	if g.focused {
		g.focused = false
		g.Enqueue(platform.CmdLostFocus)
	}
	if !g.minimized {
		g.Enqueue(platform.CmdPause)
		g.Enqueue(platform.CmdSaveState)
		g.Enqueue(platform.CmdTermWindow)
		g.Enqueue(platform.CmdStop)
	}
	g.Enqueue(platform.CmdDestroy)
}

func (g *Glue) afterCommand(cmd platform.Command) {
	if cmd == platform.CmdTermWindow {
		g.attached = false
		g.mouseDown = false
	}
}

func now() time.Duration {
	return time.Duration(glfw.GetTime() * float64(time.Second))
}

// pixels converts cursor coordinates to frame buffer pixels.
func (g *Glue) pixels(x, y float64) (float32, float32) {
	ww, wh := g.window.w.GetSize()
	fw, fh := g.window.w.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return float32(x), float32(y)
	}
	return float32(x * float64(fw) / float64(ww)),
		float32(y * float64(fh) / float64(wh))
}

func (g *Glue) motion(action platform.MotionAction) {
	if !g.attached {
		return
	}
	x, y := g.pixels(g.window.w.GetCursorPos())
	g.gotEvent = true
	g.DispatchInput(&platform.InputEvent{Kind: platform.InputMotion,
		Action: action, Time: now(),
		Pointers: []platform.Pointer{{X: x, Y: y}}})
}

func (g *Glue) onMouseButton(w *glfw.Window, button glfw.MouseButton,
	action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		g.mouseDown = true
		g.motion(platform.ActionDown)
	case glfw.Release:
		if g.mouseDown {
			g.mouseDown = false
			g.motion(platform.ActionUp)
		}
	}
}

func (g *Glue) onCursorPos(w *glfw.Window, x, y float64) {
	if g.mouseDown {
		g.motion(platform.ActionMove)
	}
}

func (g *Glue) onKey(w *glfw.Window, key glfw.Key, scancode int,
	action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	a := platform.ActionDown
	if action == glfw.Release {
		a = platform.ActionUp
	}
	g.gotEvent = true
	ev := &platform.InputEvent{Kind: platform.InputKey, Action: a,
		KeyCode: int32(key), Time: now()}
	if !g.DispatchInput(ev) && a == platform.ActionUp && key == glfw.KeyEscape {
		g.finish()
	}
}

// Window is the GLFW window. It implements platform.Window and
// glfwgl.Window.
type Window struct {
	w *glfw.Window
}

// SetBuffersGeometry implements platform.Window. A zero width or height
// keeps the window's size. The format is ignored, the frame buffer format
// follows the window hints.
func (w *Window) SetBuffersGeometry(width, height, format int32) error {
	if width != 0 && height != 0 {
		w.w.SetSize(int(width), int(height))
	}
	return nil
}

// Size implements platform.Window. It returns the frame buffer size.
func (w *Window) Size() (int32, int32) {
	fw, fh := w.w.GetFramebufferSize()
	return int32(fw), int32(fh)
}

// GLFWWindow implements glfwgl.Window.
func (w *Window) GLFWWindow() *glfw.Window {
	return w.w
}
