/*
Package sdlglue implements platform.Glue on top of SDL2.

The window's life maps onto the command sequence of a native activity: the
glue starts with CmdStart, CmdResume and CmdInitWindow; minimizing the window
pauses the application and terminates the window, restoring it brings the
window back; closing the window or requesting destruction saves the state
and ends with CmdDestroy.

All methods except RequestDestroy and Wake must be called from the main
thread.
*/
package sdlglue

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/sdlgl"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

// Options configure the glue.
type Options struct {
	Title         string
	Width, Height int32
	Fullscreen    bool
	// Attribs are applied before the window is created.
	Attribs gfx.Attribs
	// Store may be nil, the saved state then lives only as long as the
	// process.
	Store platform.StateStore
	Log   *zap.Logger
}

// user event codes
const (
	codeWake int32 = iota
	codeDestroy
)

// Glue is the SDL implementation of platform.Glue.
type Glue struct {
	platform.Base
	log       *zap.Logger
	window    *Window
	attached  bool
	minimized bool
	focused   bool
	finishing bool
	userEvent uint32
	blocking  int32
	onSensor  func(e *sdl.SensorEvent)
	fingers   []fingerPointer
}

type fingerPointer struct {
	id sdl.FingerID
	platform.Pointer
}

// New initializes SDL and creates the window. Call Close when done.
func New(opts Options) (*Glue, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_SENSOR); err != nil {
		return nil, err
	}
	g := &Glue{log: log}
	g.InitBase(g, opts.Store, log)
	g.AfterDispatch(g.afterCommand)

	g.userEvent = sdl.RegisterEvents(1)
	if g.userEvent == ^uint32(0) {
		sdl.Quit()
		return nil, errors.New("unable to register SDL user event")
	}

	if err := sdlgl.SetAttributes(opts.Attribs); err != nil {
		log.Warn("unable to set GL attributes", zap.Error(err))
	}
	var flags uint32 = sdl.WINDOW_OPENGL | sdl.WINDOW_ALLOW_HIGHDPI |
		sdl.WINDOW_RESIZABLE
	if opts.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED, opts.Width, opts.Height, flags)
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	g.window = &Window{w: win}
	g.attached = true
	log.Info("created window", zap.Int32("width", opts.Width),
		zap.Int32("height", opts.Height), zap.Bool("fullscreen", opts.Fullscreen))

	g.Enqueue(platform.CmdStart)
	g.Enqueue(platform.CmdResume)
	g.Enqueue(platform.CmdInitWindow)
	return g, nil
}

// Close destroys the window and shuts SDL down.
func (g *Glue) Close() {
	if g.window != nil {
		if err := g.window.w.Destroy(); err != nil {
			g.log.Warn("unable to destroy window", zap.Error(err))
		}
		g.window = nil
	}
	sdl.Quit()
}

// HandleSensorEvents sets the receiver of SDL sensor events.
func (g *Glue) HandleSensorEvents(fn func(e *sdl.SensorEvent)) {
	g.onSensor = fn
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
		g.push(codeWake)
	}
}

// RequestDestroy implements platform.Glue. It may be called from any
// goroutine.
func (g *Glue) RequestDestroy() {
	g.push(codeDestroy)
}

func (g *Glue) push(code int32) {
	if _, err := sdl.PushEvent(&sdl.UserEvent{Type: g.userEvent, Code: code}); err != nil {
		g.log.Warn("unable to push user event", zap.Error(err))
	}
}

// Poll implements platform.Glue.
func (g *Glue) Poll(timeout time.Duration) (platform.Ident, bool) {
	atomic.StoreInt32(&g.blocking, 1)
	if ident, ok := g.Pending(); ok {
		atomic.StoreInt32(&g.blocking, 0)
		return ident, true
	}
	var event sdl.Event
	switch {
	case timeout < 0:
		event = sdl.WaitEvent()
	case timeout == 0:
		event = sdl.PollEvent()
	default:
		event = sdl.WaitEventTimeout(int(timeout / time.Millisecond))
	}
	atomic.StoreInt32(&g.blocking, 0)
	if event == nil {
		return 0, false
	}
	ident := g.handle(event)
	if pending, ok := g.Pending(); ok {
		return pending, true
	}
	return ident, true
}

func (g *Glue) handle(event sdl.Event) platform.Ident {
	switch e := event.(type) {
	case *sdl.WindowEvent:
		g.handleWindowEvent(e)
	case *sdl.QuitEvent:
		g.finish()
	case *sdl.UserEvent:
		if e.Type == g.userEvent && e.Code == codeDestroy {
			g.log.Info("destroy requested")
			g.finish()
		}
	case *sdl.SensorEvent:
		if g.onSensor != nil {
			g.onSensor(e)
		}
	case *sdl.KeyboardEvent:
		g.handleKey(e)
		return platform.IdentInput
	case *sdl.MouseButtonEvent:
		if e.Which != sdl.TOUCH_MOUSEID && e.Button == sdl.BUTTON_LEFT {
			action := platform.ActionDown
			if e.Type == sdl.MOUSEBUTTONUP {
				action = platform.ActionUp
			}
			g.mouse(action, e.Timestamp, e.X, e.Y)
			return platform.IdentInput
		}
	case *sdl.MouseMotionEvent:
		if e.Which != sdl.TOUCH_MOUSEID && e.State&leftButtonMask != 0 {
			g.mouse(platform.ActionMove, e.Timestamp, e.X, e.Y)
			return platform.IdentInput
		}
	case *sdl.TouchFingerEvent:
		g.handleFinger(e)
		return platform.IdentInput
	default:
		if event.GetType() == sdl.APP_LOWMEMORY {
			g.Enqueue(platform.CmdLowMemory)
		}
	}
	return platform.IdentMain
}

func (g *Glue) handleWindowEvent(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_FOCUS_GAINED:
		if !g.focused && !g.finishing {
			g.focused = true
			g.Enqueue(platform.CmdGainedFocus)
		}
	case sdl.WINDOWEVENT_FOCUS_LOST:
		if g.focused {
			g.focused = false
			g.Enqueue(platform.CmdLostFocus)
		}
	case sdl.WINDOWEVENT_SIZE_CHANGED:
		if g.attached {
			g.Enqueue(platform.CmdWindowResized)
		}
	case sdl.WINDOWEVENT_EXPOSED:
		if g.attached {
			g.Enqueue(platform.CmdWindowRedrawNeeded)
		}
	case sdl.WINDOWEVENT_MINIMIZED:
		if !g.minimized && !g.finishing {
			g.minimized = true
			g.Enqueue(platform.CmdPause)
			g.Enqueue(platform.CmdSaveState)
			g.Enqueue(platform.CmdTermWindow)
			g.Enqueue(platform.CmdStop)
		}
	case sdl.WINDOWEVENT_RESTORED:
		if g.minimized && !g.finishing {
			g.minimized = false
			g.attached = true
			g.Enqueue(platform.CmdStart)
			g.Enqueue(platform.CmdResume)
			g.Enqueue(platform.CmdInitWindow)
		}
	case sdl.WINDOWEVENT_CLOSE:
		g.finish()
	}
}

// finish queues the commands that end the activity.
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
		g.fingers = g.fingers[:0]
	}
}

func (g *Glue) handleKey(e *sdl.KeyboardEvent) {
	action := platform.ActionDown
	if e.Type == sdl.KEYUP {
		action = platform.ActionUp
	}
	ev := &platform.InputEvent{Kind: platform.InputKey, Action: action,
		KeyCode: int32(e.Keysym.Sym), Time: millis(e.Timestamp)}
	if g.DispatchInput(ev) {
		return
	}
	// unhandled back finishes the activity
	if action == platform.ActionUp &&
		(e.Keysym.Sym == sdl.K_ESCAPE || e.Keysym.Sym == sdl.K_AC_BACK) {
		g.finish()
	}
}

const leftButtonMask = 1 << (sdl.BUTTON_LEFT - 1)

// scale converts window coordinates to drawable pixels.
func (g *Glue) scale() (float32, float32) {
	ww, wh := g.window.w.GetSize()
	dw, dh := g.window.w.GLGetDrawableSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float32(dw) / float32(ww), float32(dh) / float32(wh)
}

func (g *Glue) mouse(action platform.MotionAction, timestamp uint32, x, y int32) {
	if !g.attached {
		return
	}
	sx, sy := g.scale()
	g.DispatchInput(&platform.InputEvent{Kind: platform.InputMotion,
		Action: action, Time: millis(timestamp),
		Pointers: []platform.Pointer{{X: float32(x) * sx, Y: float32(y) * sy}}})
}

func (g *Glue) handleFinger(e *sdl.TouchFingerEvent) {
	if !g.attached {
		return
	}
	dw, dh := g.window.w.GLGetDrawableSize()
	p := platform.Pointer{ID: int64(e.FingerID), X: e.X * float32(dw),
		Y: e.Y * float32(dh)}
	index := -1
	for i := range g.fingers {
		if g.fingers[i].id == e.FingerID {
			index = i
			break
		}
	}

	var action platform.MotionAction
	switch e.Type {
	case sdl.FINGERDOWN:
		action = platform.ActionDown
		if index < 0 {
			g.fingers = append(g.fingers, fingerPointer{id: e.FingerID})
			index = len(g.fingers) - 1
		}
	case sdl.FINGERUP:
		action = platform.ActionUp
	default:
		action = platform.ActionMove
	}
	if index < 0 {
		return
	}
	g.fingers[index].Pointer = p

	pointers := make([]platform.Pointer, len(g.fingers))
	for i := range g.fingers {
		pointers[i] = g.fingers[i].Pointer
	}
	if action == platform.ActionUp {
		g.fingers = append(g.fingers[:index], g.fingers[index+1:]...)
	}
	g.DispatchInput(&platform.InputEvent{Kind: platform.InputMotion,
		Action: action, Pointers: pointers, Time: millis(e.Timestamp)})
}

func millis(timestamp uint32) time.Duration {
	return time.Duration(timestamp) * time.Millisecond
}

// Window is the SDL window. It implements platform.Window and sdlgl.Window.
type Window struct {
	w *sdl.Window
}

// SetBuffersGeometry implements platform.Window. A zero width or height
// keeps the window's size. The format is ignored, SDL chose it when the
// window was created.
func (w *Window) SetBuffersGeometry(width, height, format int32) error {
	if width != 0 && height != 0 {
		w.w.SetSize(width, height)
	}
	return nil
}

// Size implements platform.Window. It returns the drawable size in pixels.
func (w *Window) Size() (int32, int32) {
	return w.w.GLGetDrawableSize()
}

// SDLWindow implements sdlgl.Window.
func (w *Window) SDLWindow() *sdl.Window {
	return w.w
}
