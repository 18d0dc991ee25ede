/*
Package glfwgl is a gfx driver for GLFW windows. GLFW creates a window and its
context together, so Hints must be applied before the window is created and
CreateContext only hands out the window's context.
*/
package glfwgl

import (
	"fmt"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/gles"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is implemented by platform windows backed by a GLFW window.
type Window interface {
	GLFWWindow() *glfw.Window
}

// Hints requests a GL ES context with the given frame buffer attributes for
// windows created afterwards.
func Hints(a gfx.Attribs) {
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, gfx.ClientVersion)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	glfw.WindowHint(glfw.RedBits, int(a.RedSize))
	glfw.WindowHint(glfw.GreenBits, int(a.GreenSize))
	glfw.WindowHint(glfw.BlueBits, int(a.BlueSize))
	glfw.WindowHint(glfw.AlphaBits, int(a.AlphaSize))
	glfw.WindowHint(glfw.DepthBits, int(a.DepthSize))
}

// Driver implements gfx.Driver. glfw.Init must have been called.
type Driver struct{}

// Open implements gfx.Driver.
func (Driver) Open() (gfx.Display, error) {
	return &display{}, nil
}

type config struct {
	attribs gfx.Attribs
}

type surface struct {
	window *glfw.Window
}

type context struct {
	window *glfw.Window
}

type display struct {
	current *surface
}

func (d *display) ChooseConfig(a gfx.Attribs) (gfx.Config, error) {
	if a.SurfaceType&gfx.WindowBit == 0 {
		return nil, fmt.Errorf("unsupported surface type %#x", a.SurfaceType)
	}
	return &config{attribs: a}, nil
}

// NativeVisualID returns 0; GLFW windows have no format to negotiate.
func (d *display) NativeVisualID(c gfx.Config) (int32, error) {
	return 0, nil
}

func (d *display) CreateWindowSurface(c gfx.Config,
	win platform.Window) (gfx.Surface, error) {
	w, ok := win.(Window)
	if !ok {
		return nil, fmt.Errorf("not a GLFW window: %T", win)
	}
	d.current = &surface{window: w.GLFWWindow()}
	return d.current, nil
}

func (d *display) CreateContext(c gfx.Config, clientVersion int) (gfx.Context, error) {
	if d.current == nil {
		return nil, fmt.Errorf("no window surface")
	}
	if clientVersion != gfx.ClientVersion {
		return nil, fmt.Errorf("window was created for GL ES %d, not %d",
			gfx.ClientVersion, clientVersion)
	}
	return &context{window: d.current.window}, nil
}

func (d *display) MakeCurrent(s gfx.Surface, ctx gfx.Context) error {
	w := s.(*surface).window
	if ctx.(*context).window != w {
		return fmt.Errorf("context belongs to another window")
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1)
	return gles.Load()
}

func (d *display) ReleaseCurrent() error {
	glfw.DetachCurrentContext()
	return nil
}

func (d *display) SurfaceSize(s gfx.Surface) (int32, int32, error) {
	w, h := s.(*surface).window.GetFramebufferSize()
	return int32(w), int32(h), nil
}

func (d *display) SwapBuffers(s gfx.Surface) error {
	s.(*surface).window.SwapBuffers()
	return nil
}

// DestroyContext does nothing, the context lives as long as its window.
func (d *display) DestroyContext(ctx gfx.Context) error {
	return nil
}

func (d *display) DestroySurface(s gfx.Surface) error {
	if d.current == s {
		d.current = nil
	}
	return nil
}

func (d *display) Terminate() error {
	d.current = nil
	return nil
}

func (d *display) GL() gfx.GL {
	return gles.GL{}
}
