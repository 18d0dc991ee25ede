/*
Package sdlgl is a gfx driver that creates GL ES 2 contexts for SDL windows.

SDL picks the pixel format of a window when it is created, so the attributes
must be set with SetAttributes before the window is created; ChooseConfig sets
them again for the context.
*/
package sdlgl

import (
	"errors"
	"fmt"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/gles"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

// Window is implemented by platform windows backed by an SDL window.
type Window interface {
	SDLWindow() *sdl.Window
}

// ErrNoVideo is returned by Open if the SDL video subsystem is not
// initialized.
var ErrNoVideo = errors.New("SDL video subsystem not initialized")

// SetAttributes requests a GL ES 2 context with the given frame buffer
// attributes for windows created afterwards.
func SetAttributes(a gfx.Attribs) error {
	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_ES},
		{sdl.GL_CONTEXT_MAJOR_VERSION, gfx.ClientVersion},
		{sdl.GL_CONTEXT_MINOR_VERSION, 0},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_RED_SIZE, int(a.RedSize)},
		{sdl.GL_GREEN_SIZE, int(a.GreenSize)},
		{sdl.GL_BLUE_SIZE, int(a.BlueSize)},
		{sdl.GL_ALPHA_SIZE, int(a.AlphaSize)},
		{sdl.GL_DEPTH_SIZE, int(a.DepthSize)},
	}
	for _, item := range attrs {
		if err := sdl.GLSetAttribute(item.attr, item.value); err != nil {
			return err
		}
	}
	return nil
}

// Driver implements gfx.Driver.
type Driver struct {
	// Log may be nil.
	Log *zap.Logger
}

// Open implements gfx.Driver.
func (drv Driver) Open() (gfx.Display, error) {
	if sdl.WasInit(sdl.INIT_VIDEO) == 0 {
		return nil, ErrNoVideo
	}
	log := drv.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &display{log: log}, nil
}

type config struct {
	attribs gfx.Attribs
}

type surface struct {
	window *sdl.Window
}

type context struct {
	gl sdl.GLContext
}

// display tracks the last window surface because SDL creates contexts for a
// window, not for a config.
type display struct {
	log     *zap.Logger
	current *surface
}

func (d *display) ChooseConfig(a gfx.Attribs) (gfx.Config, error) {
	if a.SurfaceType&gfx.WindowBit == 0 {
		return nil, fmt.Errorf("unsupported surface type %#x", a.SurfaceType)
	}
	if err := SetAttributes(a); err != nil {
		return nil, err
	}
	return &config{attribs: a}, nil
}

func (d *display) NativeVisualID(c gfx.Config) (int32, error) {
	if c.(*config).attribs.AlphaSize > 0 {
		return int32(sdl.PIXELFORMAT_RGBA8888), nil
	}
	return int32(sdl.PIXELFORMAT_RGB888), nil
}

func (d *display) CreateWindowSurface(c gfx.Config,
	win platform.Window) (gfx.Surface, error) {
	w, ok := win.(Window)
	if !ok {
		return nil, fmt.Errorf("not an SDL window: %T", win)
	}
	d.current = &surface{window: w.SDLWindow()}
	return d.current, nil
}

func (d *display) CreateContext(c gfx.Config, clientVersion int) (gfx.Context, error) {
	if d.current == nil {
		return nil, errors.New("no window surface")
	}
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, clientVersion); err != nil {
		return nil, err
	}
	ctx, err := d.current.window.GLCreateContext()
	if err != nil {
		return nil, err
	}
	return &context{gl: ctx}, nil
}

func (d *display) MakeCurrent(s gfx.Surface, ctx gfx.Context) error {
	if err := s.(*surface).window.GLMakeCurrent(ctx.(*context).gl); err != nil {
		return err
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		d.log.Warn("could not enable vsync", zap.Error(err))
	}
	return gles.Load()
}

func (d *display) ReleaseCurrent() error {
	if d.current == nil {
		return nil
	}
	var none sdl.GLContext
	return d.current.window.GLMakeCurrent(none)
}

func (d *display) SurfaceSize(s gfx.Surface) (int32, int32, error) {
	w, h := s.(*surface).window.GLGetDrawableSize()
	return w, h, nil
}

func (d *display) SwapBuffers(s gfx.Surface) error {
	s.(*surface).window.GLSwap()
	return nil
}

func (d *display) DestroyContext(ctx gfx.Context) error {
	sdl.GLDeleteContext(ctx.(*context).gl)
	return nil
}

// DestroySurface forgets the surface. The window belongs to the glue.
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
