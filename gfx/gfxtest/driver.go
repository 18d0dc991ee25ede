// Package gfxtest provides an in-memory gfx.Driver that records calls and can
// be told to fail at any acquisition step.
package gfxtest

import (
	"errors"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/platform"
)

// ErrInjected is returned by the step the driver was told to fail at.
var ErrInjected = errors.New("injected failure")

// NativeVisual is the pixel format every config reports.
const NativeVisual int32 = 1

type config struct{ attribs gfx.Attribs }
type surface struct{ win platform.Window }
type context struct{ version int }

// Driver is an in-memory gfx.Driver. Handles of all displays it opened are
// counted so tests can check nothing leaks.
type Driver struct {
	// FailAt makes the given step fail. Empty means no failure.
	FailAt gfx.Step

	Opened, Terminated int
	Surfaces, Contexts int // currently alive
	Swaps              int
	LastAttribs        gfx.Attribs
	LastClientVersion  int
	Current            bool
	GLState            GL
}

// Open implements gfx.Driver.
func (d *Driver) Open() (gfx.Display, error) {
	if d.FailAt == gfx.StepDisplay {
		return nil, ErrInjected
	}
	d.Opened++
	return &display{d: d}, nil
}

// Alive reports whether any display, surface or context is still alive.
func (d *Driver) Alive() bool {
	return d.Opened != d.Terminated || d.Surfaces != 0 || d.Contexts != 0
}

type display struct {
	d *Driver
}

func (dp *display) fail(step gfx.Step) error {
	if dp.d.FailAt == step {
		return ErrInjected
	}
	return nil
}

func (dp *display) ChooseConfig(a gfx.Attribs) (gfx.Config, error) {
	if err := dp.fail(gfx.StepConfig); err != nil {
		return nil, err
	}
	dp.d.LastAttribs = a
	return &config{attribs: a}, nil
}

func (dp *display) NativeVisualID(c gfx.Config) (int32, error) {
	if err := dp.fail(gfx.StepVisual); err != nil {
		return 0, err
	}
	return NativeVisual, nil
}

func (dp *display) CreateWindowSurface(c gfx.Config,
	win platform.Window) (gfx.Surface, error) {
	if err := dp.fail(gfx.StepSurface); err != nil {
		return nil, err
	}
	dp.d.Surfaces++
	return &surface{win: win}, nil
}

func (dp *display) CreateContext(c gfx.Config, clientVersion int) (gfx.Context, error) {
	if err := dp.fail(gfx.StepContext); err != nil {
		return nil, err
	}
	dp.d.Contexts++
	dp.d.LastClientVersion = clientVersion
	return &context{version: clientVersion}, nil
}

func (dp *display) MakeCurrent(s gfx.Surface, ctx gfx.Context) error {
	if err := dp.fail(gfx.StepMakeCurrent); err != nil {
		return err
	}
	dp.d.Current = true
	return nil
}

func (dp *display) ReleaseCurrent() error {
	dp.d.Current = false
	return nil
}

func (dp *display) SurfaceSize(s gfx.Surface) (int32, int32, error) {
	if err := dp.fail(gfx.StepQuerySize); err != nil {
		return 0, 0, err
	}
	w, h := s.(*surface).win.Size()
	return w, h, nil
}

func (dp *display) SwapBuffers(s gfx.Surface) error {
	dp.d.Swaps++
	return nil
}

func (dp *display) DestroyContext(ctx gfx.Context) error {
	dp.d.Contexts--
	return nil
}

func (dp *display) DestroySurface(s gfx.Surface) error {
	dp.d.Surfaces--
	return nil
}

func (dp *display) Terminate() error {
	dp.d.Terminated++
	return nil
}

func (dp *display) GL() gfx.GL {
	return &dp.d.GLState
}

// GL records the calls made to it.
type GL struct {
	Color  [4]float32
	Clears int
	// ClearedWith holds the clear color in effect at each Clear.
	ClearedWith  [][4]float32
	LastViewport [4]int32
}

func (gl *GL) ClearColor(r, g, b, a float32) {
	gl.Color = [4]float32{r, g, b, a}
}

func (gl *GL) Clear() {
	gl.Clears++
	gl.ClearedWith = append(gl.ClearedWith, gl.Color)
}

func (gl *GL) Viewport(x, y, width, height int32) {
	gl.LastViewport = [4]int32{x, y, width, height}
}

func (gl *GL) Version() string {
	return "OpenGL ES 2.0 gfxtest"
}

func (gl *GL) ShadingLanguageVersion() string {
	return "OpenGL ES GLSL ES 1.00"
}
