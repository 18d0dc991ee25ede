package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/QuestScreen/nativeapp/gfx/gfxtest"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/state"
)

func TestDemoCountsLaunchesAcrossRestarts(t *testing.T) {
	first := newDemo([4]float32{0, 1, 0, 1}, zap.NewNop())
	first.OnTouch(platform.ActionDown, 1, 1)
	first.OnTouch(platform.ActionUp, 1, 1)

	var s state.SavedState
	first.SaveState(&s)
	buf, err := s.MarshalBinary()
	require.NoError(t, err)

	var restored state.SavedState
	require.NoError(t, restored.UnmarshalBinary(buf))
	second := newDemo([4]float32{0, 1, 0, 1}, zap.NewNop())
	second.RestoreState(&restored)
	assert.Equal(t, uint32(2), second.launches)
	assert.Equal(t, uint32(1), second.touches)
}

func TestDemoIgnoresForeignState(t *testing.T) {
	var s state.SavedState
	require.NoError(t, s.SetPayload([]byte("abc")))
	d := newDemo([4]float32{}, zap.NewNop())
	d.RestoreState(&s)
	assert.Equal(t, uint32(1), d.launches)
}

func TestDemoTintsByTilt(t *testing.T) {
	d := newDemo([4]float32{0, 1, 0, 1}, zap.NewNop())
	var gl gfxtest.GL

	d.Render(&gl, 10, 10)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, gl.Color)

	d.OnAccelerometer(2*gravity, 0, 0)
	d.Render(&gl, 10, 10)
	assert.Equal(t, [4]float32{1, 1, 0, 1}, gl.Color)
	assert.Zero(t, gl.Clears, "the loop clears, not the renderer")
}
