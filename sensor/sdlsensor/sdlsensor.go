/*
Package sdlsensor implements sensor.Manager with SDL's sensor API. SDL
delivers samples as events on the main event queue; the glue hands them to
the queue created here, which buffers and throttles them.
*/
package sdlsensor

import (
	"errors"
	"time"

	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/sensor"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

// QueueCapacity is the number of samples a queue holds before it drops the
// oldest ones.
const QueueCapacity = 64

// Source delivers SDL sensor events. Implemented by the SDL glue.
type Source interface {
	HandleSensorEvents(fn func(e *sdl.SensorEvent))
}

// Manager implements sensor.Manager.
type Manager struct {
	source Source
	log    *zap.Logger
}

// New creates a manager whose queues receive their events from src. SDL must
// have been initialized with sdl.INIT_SENSOR.
func New(src Source, log *zap.Logger) *Manager {
	return &Manager{source: src, log: log}
}

func sensorType(t sdl.SensorType) sensor.Type {
	switch t {
	case sdl.SENSOR_ACCEL:
		return sensor.TypeAccelerometer
	case sdl.SENSOR_GYRO:
		return sensor.TypeGyroscope
	}
	return 0
}

type device struct {
	index int
	typ   sensor.Type
	name  string
}

func (d *device) Type() sensor.Type { return d.typ }
func (d *device) Name() string      { return d.name }

// DefaultSensor implements sensor.Manager.
func (m *Manager) DefaultSensor(t sensor.Type) sensor.Sensor {
	n := sdl.NumSensors()
	for i := 0; i < n; i++ {
		if sensorType(sdl.SensorGetDeviceType(i)) == t {
			return &device{index: i, typ: t, name: sdl.SensorGetDeviceName(i)}
		}
	}
	m.log.Debug("no sensor of type", zap.Stringer("type", t),
		zap.Int("sensors", n))
	return nil
}

// CreateEventQueue implements sensor.Manager. Only one queue receives events;
// creating another one replaces it.
func (m *Manager) CreateEventQueue(l platform.Looper,
	ident platform.Ident) (sensor.Queue, error) {
	q := &queue{
		buf:  sensor.NewBuffer(l, ident, QueueCapacity),
		open: make(map[sdl.SensorID]*openSensor),
		log:  m.log,
	}
	m.source.HandleSensorEvents(q.push)
	return q, nil
}

type openSensor struct {
	dev    *device
	handle *sdl.Sensor
}

type queue struct {
	buf  *sensor.Buffer
	open map[sdl.SensorID]*openSensor
	log  *zap.Logger
}

func (q *queue) find(d *device) (sdl.SensorID, *openSensor) {
	for id, o := range q.open {
		if o.dev.index == d.index {
			return id, o
		}
	}
	return 0, nil
}

func (q *queue) Enable(s sensor.Sensor) error {
	d := s.(*device)
	if _, o := q.find(d); o != nil {
		return nil
	}
	handle := sdl.SensorOpen(d.index)
	if handle == nil {
		if err := sdl.GetError(); err != nil {
			return err
		}
		return errors.New("unable to open sensor " + d.name)
	}
	q.open[handle.GetInstanceID()] = &openSensor{dev: d, handle: handle}
	q.buf.Enable(d.typ)
	return nil
}

func (q *queue) Disable(s sensor.Sensor) error {
	d := s.(*device)
	id, o := q.find(d)
	if o == nil {
		return nil
	}
	o.handle.Close()
	delete(q.open, id)
	q.buf.Disable(d.typ)
	if n := q.buf.Dropped(); n > 0 {
		q.log.Debug("sensor samples dropped", zap.Int("total", n))
	}
	return nil
}

// SetEventRate throttles delivery; SDL has no way of setting the rate of
// the hardware.
func (q *queue) SetEventRate(s sensor.Sensor, interval time.Duration) error {
	return q.buf.SetInterval(s.(*device).typ, interval)
}

func (q *queue) GetEvents(buf []sensor.Event) int {
	return q.buf.Read(buf)
}

func (q *queue) push(e *sdl.SensorEvent) {
	o, ok := q.open[sdl.SensorID(e.Which)]
	if !ok {
		return
	}
	q.buf.Push(sensor.Event{
		Type:      o.dev.typ,
		Timestamp: time.Duration(e.Timestamp) * time.Millisecond,
		Vector:    sensor.Vector{X: e.Data[0], Y: e.Data[1], Z: e.Data[2]},
	})
}
