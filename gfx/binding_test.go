package gfx_test

import (
	"errors"
	"testing"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/gfxtest"
	"github.com/QuestScreen/nativeapp/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAcquireBindsCompleteContext(t *testing.T) {
	drv := &gfxtest.Driver{}
	win := &platformtest.Window{Width: 720, Height: 1280}

	b, err := gfx.Acquire(drv, win, gfx.DefaultAttribs, zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, b.Display)
	assert.NotNil(t, b.Surface)
	assert.NotNil(t, b.Context)
	assert.Equal(t, int32(720), b.Width)
	assert.Equal(t, int32(1280), b.Height)
	assert.True(t, drv.Current)
	assert.Equal(t, gfx.ClientVersion, drv.LastClientVersion)
	assert.Equal(t, gfx.DefaultAttribs, drv.LastAttribs)
	assert.Equal(t, gfxtest.NativeVisual, win.Format)
	assert.Equal(t, 1, win.GeometryCalls)
}

func TestAcquireFailureLeavesNothingBehind(t *testing.T) {
	steps := []gfx.Step{gfx.StepDisplay, gfx.StepConfig, gfx.StepVisual,
		gfx.StepSurface, gfx.StepContext, gfx.StepMakeCurrent, gfx.StepQuerySize}
	for _, step := range steps {
		t.Run(string(step), func(t *testing.T) {
			drv := &gfxtest.Driver{FailAt: step}
			b, err := gfx.Acquire(drv, &platformtest.Window{Width: 1, Height: 1},
				gfx.DefaultAttribs, zap.NewNop())
			assert.Nil(t, b)

			var ce *gfx.ContextError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, step, ce.Step)
			assert.True(t, errors.Is(err, gfxtest.ErrInjected))
			assert.False(t, drv.Alive())
			assert.False(t, drv.Current)
		})
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	drv := &gfxtest.Driver{}
	b, err := gfx.Acquire(drv, &platformtest.Window{Width: 2, Height: 2},
		gfx.DefaultAttribs, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, b.Release())
	assert.Nil(t, b.Display)
	assert.Nil(t, b.Surface)
	assert.Nil(t, b.Context)
	assert.False(t, drv.Alive())

	require.NoError(t, b.Release())
	assert.Equal(t, 1, drv.Terminated)
}

func TestContextErrorMessage(t *testing.T) {
	err := &gfx.ContextError{Step: gfx.StepMakeCurrent}
	assert.Equal(t, "unable to make current", err.Error())

	err.Err = errors.New("bad match")
	assert.Equal(t, "unable to make current: bad match", err.Error())
}
