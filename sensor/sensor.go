/*
Package sensor gives access to motion sensors through event queues attached
to the platform looper.
*/
package sensor

import (
	"errors"
	"time"

	"github.com/QuestScreen/nativeapp/platform"
)

// Type identifies a kind of sensor. Values follow the native sensor API.
type Type int

const (
	TypeAccelerometer Type = 1
	TypeMagneticField Type = 2
	TypeGyroscope     Type = 4
)

func (t Type) String() string {
	switch t {
	case TypeAccelerometer:
		return "accelerometer"
	case TypeMagneticField:
		return "magnetic field"
	case TypeGyroscope:
		return "gyroscope"
	}
	return "unknown"
}

// Sensor describes a sensor device.
type Sensor interface {
	Type() Type
	Name() string
}

// Vector is a sample of a three-axis sensor. Accelerometer samples are in
// m/s².
type Vector struct {
	X, Y, Z float32
}

// Event is one sensor sample.
type Event struct {
	Type Type
	// Timestamp is relative to an unspecified, monotonic origin.
	Timestamp time.Duration
	Vector
}

// Manager enumerates sensors and creates event queues.
type Manager interface {
	// DefaultSensor returns the default sensor of the given type, nil if the
	// device has none.
	DefaultSensor(t Type) Sensor
	// CreateEventQueue creates a queue that wakes l with ident when samples
	// are available.
	CreateEventQueue(l platform.Looper, ident platform.Ident) (Queue, error)
}

// Queue delivers samples of the sensors enabled on it.
type Queue interface {
	Enable(s Sensor) error
	Disable(s Sensor) error
	// SetEventRate requests samples at the given interval. It must be called
	// after Enable.
	SetEventRate(s Sensor, interval time.Duration) error
	// GetEvents moves up to len(buf) pending samples into buf and returns
	// their number.
	GetEvents(buf []Event) int
}

// ErrNotEnabled is returned by SetEventRate for sensors not enabled on the
// queue.
var ErrNotEnabled = errors.New("sensor not enabled")

// RateInterval returns the sampling interval for a rate in Hz.
func RateInterval(hz int) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Second / time.Duration(hz)
}

// Unavailable is a Manager for devices without sensors.
var Unavailable Manager = none{}

type none struct{}

func (none) DefaultSensor(Type) Sensor { return nil }

func (none) CreateEventQueue(l platform.Looper, ident platform.Ident) (Queue, error) {
	return nil, errors.New("no sensors available")
}
