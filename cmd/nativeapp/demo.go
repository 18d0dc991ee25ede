package main

import (
	"encoding/binary"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/lifecycle"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/sensor"
	"github.com/QuestScreen/nativeapp/state"
)

// standard gravity in m/s²
const gravity = 9.80665

// demo tints the clear color by the device's tilt and keeps a launch and a
// touch counter in the saved state.
type demo struct {
	log      *zap.Logger
	base     [4]float32
	tilt     sensor.Vector
	launches uint32
	touches  uint32
	elapsed  time.Duration
}

func newDemo(base [4]float32, log *zap.Logger) *demo {
	return &demo{log: log, base: base, launches: 1}
}

// color mixes the base color with red for sideways and blue for forward
// tilt.
func (d *demo) color() [4]float32 {
	side := clamp(float32(math.Abs(float64(d.tilt.X))) / gravity)
	forward := clamp(float32(math.Abs(float64(d.tilt.Y))) / gravity)
	c := d.base
	c[0] = c[0]*(1-side) + side
	c[2] = c[2]*(1-forward) + forward
	return c
}

func clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	return v
}

// Render sets the tint as clear color. The loop already cleared this frame,
// so the tint shows from the next frame on.
func (d *demo) Render(gl gfx.GL, width, height int32) {
	c := d.color()
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *demo) Update(delta time.Duration) {
	d.elapsed += delta
}

func (d *demo) OnAccelerometer(x, y, z float32) {
	d.tilt = sensor.Vector{X: x, Y: y, Z: z}
}

func (d *demo) OnTouch(action lifecycle.TouchAction, x, y float32) {
	if action != platform.ActionUp {
		return
	}
	d.touches++
	d.log.Debug("touch", zap.Float32("x", x), zap.Float32("y", y),
		zap.Uint32("touches", d.touches))
}

func (d *demo) SaveState(s *state.SavedState) {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], d.launches)
	binary.LittleEndian.PutUint32(buf[4:], d.touches)
	if err := s.SetPayload(buf[:]); err != nil {
		d.log.Error("unable to save state", zap.Error(err))
	}
	d.log.Debug("saved state", zap.Duration("running", d.elapsed))
}

func (d *demo) RestoreState(s *state.SavedState) {
	p := s.Payload()
	if len(p) != 8 {
		d.log.Warn("ignoring saved state of unknown size", zap.Int("size", len(p)))
		return
	}
	d.launches = binary.LittleEndian.Uint32(p[0:]) + 1
	d.touches = binary.LittleEndian.Uint32(p[4:])
}
