package gfx

import (
	"github.com/QuestScreen/nativeapp/platform"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Binding is a display, surface and context made current together. A Binding
// returned by Acquire is always complete; Release tears it down entirely.
type Binding struct {
	Display Display
	Surface Surface
	Context Context
	Width   int32
	Height  int32
}

// Acquire opens the default display of drv, creates a surface on win and a
// context for ClientVersion and makes both current. On failure everything
// created so far is torn down again and a *ContextError is returned.
func Acquire(drv Driver, win platform.Window, a Attribs,
	log *zap.Logger) (*Binding, error) {
	b := &Binding{}
	fail := func(step Step, err error) (*Binding, error) {
		if relErr := b.Release(); relErr != nil {
			log.Warn("cleanup after failed acquisition", zap.Error(relErr))
		}
		return nil, &ContextError{Step: step, Err: err}
	}

	var err error
	if b.Display, err = drv.Open(); err != nil {
		return fail(StepDisplay, err)
	}
	config, err := b.Display.ChooseConfig(a)
	if err != nil {
		return fail(StepConfig, err)
	}
	format, err := b.Display.NativeVisualID(config)
	if err != nil {
		return fail(StepVisual, err)
	}
	if err = win.SetBuffersGeometry(0, 0, format); err != nil {
		return fail(StepGeometry, err)
	}
	if b.Surface, err = b.Display.CreateWindowSurface(config, win); err != nil {
		return fail(StepSurface, err)
	}
	if b.Context, err = b.Display.CreateContext(config, ClientVersion); err != nil {
		return fail(StepContext, err)
	}
	if err = b.Display.MakeCurrent(b.Surface, b.Context); err != nil {
		return fail(StepMakeCurrent, err)
	}
	if err = b.QuerySize(); err != nil {
		return fail(StepQuerySize, err)
	}

	gl := b.Display.GL()
	log.Info("rendering context acquired",
		zap.String("glVersion", gl.Version()),
		zap.String("glslVersion", gl.ShadingLanguageVersion()),
		zap.Int32("width", b.Width), zap.Int32("height", b.Height))
	return b, nil
}

// QuerySize updates Width and Height from the surface.
func (b *Binding) QuerySize() error {
	w, h, err := b.Display.SurfaceSize(b.Surface)
	if err != nil {
		return err
	}
	b.Width, b.Height = w, h
	return nil
}

// Present swaps the surface's buffers.
func (b *Binding) Present() error {
	return b.Display.SwapBuffers(b.Surface)
}

// GL returns the GL entry points of the bound context.
func (b *Binding) GL() GL {
	return b.Display.GL()
}

// Release unbinds and destroys context and surface and terminates the display
// connection. All handles are reset even if the driver reports errors. Release
// is idempotent.
func (b *Binding) Release() error {
	if b.Display == nil {
		b.Surface, b.Context = nil, nil
		return nil
	}
	err := b.Display.ReleaseCurrent()
	if b.Context != nil {
		err = multierr.Append(err, b.Display.DestroyContext(b.Context))
	}
	if b.Surface != nil {
		err = multierr.Append(err, b.Display.DestroySurface(b.Surface))
	}
	err = multierr.Append(err, b.Display.Terminate())
	b.Display, b.Surface, b.Context = nil, nil, nil
	b.Width, b.Height = 0, 0
	return err
}
