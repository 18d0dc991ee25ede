// Package sensortest provides an in-memory sensor.Manager for tests.
package sensortest

import (
	"errors"
	"time"

	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/sensor"
)

// Accelerometer is the fake default accelerometer.
type Accelerometer struct{}

// Type implements sensor.Sensor.
func (Accelerometer) Type() sensor.Type { return sensor.TypeAccelerometer }

// Name implements sensor.Sensor.
func (Accelerometer) Name() string { return "fake accelerometer" }

// Manager hands out a single queue.
type Manager struct {
	// NoAccelerometer makes DefaultSensor report no sensor.
	NoAccelerometer bool
	Queue           *Queue
}

// DefaultSensor implements sensor.Manager.
func (m *Manager) DefaultSensor(t sensor.Type) sensor.Sensor {
	if m.NoAccelerometer || t != sensor.TypeAccelerometer {
		return nil
	}
	return Accelerometer{}
}

// CreateEventQueue implements sensor.Manager.
func (m *Manager) CreateEventQueue(l platform.Looper,
	ident platform.Ident) (sensor.Queue, error) {
	if m.Queue != nil {
		return nil, errors.New("queue already created")
	}
	m.Queue = &Queue{looper: l, ident: ident}
	return m.Queue, nil
}

// Queue records enable state and holds emitted samples.
type Queue struct {
	looper  platform.Looper
	ident   platform.Ident
	pending []sensor.Event
	now     time.Duration

	Enabled      bool
	Interval     time.Duration
	EnableCalls  int
	DisableCalls int
	// Leaky makes Emit queue samples even while the sensor is disabled.
	Leaky bool
	// FailEnable is returned by Enable, which then leaves the sensor off.
	FailEnable error
	// FailDisable is returned by Disable after turning the sensor off.
	FailDisable error
}

// Enable implements sensor.Queue.
func (q *Queue) Enable(s sensor.Sensor) error {
	q.EnableCalls++
	if q.FailEnable != nil {
		return q.FailEnable
	}
	q.Enabled = true
	return nil
}

// Disable implements sensor.Queue.
func (q *Queue) Disable(s sensor.Sensor) error {
	q.Enabled = false
	q.DisableCalls++
	return q.FailDisable
}

// SetEventRate implements sensor.Queue.
func (q *Queue) SetEventRate(s sensor.Sensor, interval time.Duration) error {
	if !q.Enabled {
		return sensor.ErrNotEnabled
	}
	q.Interval = interval
	return nil
}

// GetEvents implements sensor.Queue.
func (q *Queue) GetEvents(buf []sensor.Event) int {
	n := copy(buf, q.pending)
	q.pending = q.pending[n:]
	return n
}

// Pending returns the number of queued samples.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Emit queues an accelerometer sample and wakes the looper. It reports
// whether the sample was queued.
func (q *Queue) Emit(x, y, z float32) bool {
	if !q.Enabled && !q.Leaky {
		return false
	}
	q.now += q.Interval
	q.pending = append(q.pending, sensor.Event{Type: sensor.TypeAccelerometer,
		Timestamp: q.now, Vector: sensor.Vector{X: x, Y: y, Z: z}})
	q.looper.Wake(q.ident)
	return true
}
