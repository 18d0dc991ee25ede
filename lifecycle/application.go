/*
Package lifecycle implements the application controller: it receives lifecycle
commands and input events from the platform glue, owns the rendering context
and the accelerometer, and runs the poll/draw/update loop.
*/
package lifecycle

import (
	"time"

	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/internal/metrics"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/sensor"
	"github.com/QuestScreen/nativeapp/state"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// TouchAction is the action of a touch reported to a TouchListener.
type TouchAction = platform.MotionAction

// DefaultSensorRate is the accelerometer rate in Hz requested while visible.
const DefaultSensorRate = 60

// DefaultClearColor is the color the screen is cleared with.
var DefaultClearColor = [4]float32{0, 1, 0, 1}

// sensorIdent is the looper ident the sensor queue reports under.
const sensorIdent = platform.IdentUser

// Options configure an Application.
type Options struct {
	Driver gfx.Driver
	// Sensors may be nil if the device has no sensors.
	Sensors sensor.Manager
	// Hooks implements any subset of Renderer, Updater,
	// AccelerometerListener, TouchListener and StateKeeper. May be nil.
	Hooks interface{}
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// SensorRate in Hz, DefaultSensorRate if zero.
	SensorRate int
	// ClearColor defaults to DefaultClearColor.
	ClearColor *[4]float32
	// LogFPS logs the frame rate once a second at debug level.
	LogFPS bool
}

// Application is the lifecycle controller. It is logically a singleton:
// one instance per process, created before the glue delivers its first
// command and living until Run returns.
//
// All methods must be called from the thread running Run.
type Application struct {
	glue   platform.Glue
	handle platform.Handle
	driver gfx.Driver
	hooks  interface{}
	clock  clockwork.Clock
	log    *zap.Logger

	sensors       sensor.Manager
	accelerometer sensor.Sensor
	sensorQueue   sensor.Queue
	sensorEnabled bool
	sensorRate    time.Duration
	events        [8]sensor.Event

	binding       *gfx.Binding
	width, height int32
	visible       bool
	saved         state.SavedState

	clearColor [4]float32
	logFPS     bool
	fpsStart   time.Time
	frameCount int
}

// New creates an application. Init must be called before Run.
func New(opts Options) *Application {
	a := &Application{
		driver:     opts.Driver,
		hooks:      opts.Hooks,
		clock:      opts.Clock,
		log:        opts.Logger,
		sensors:    opts.Sensors,
		clearColor: DefaultClearColor,
		logFPS:     opts.LogFPS,
	}
	if a.clock == nil {
		a.clock = clockwork.NewRealClock()
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.sensors == nil {
		a.sensors = sensor.Unavailable
	}
	rate := opts.SensorRate
	if rate <= 0 {
		rate = DefaultSensorRate
	}
	a.sensorRate = sensor.RateInterval(rate)
	if opts.ClearColor != nil {
		a.clearColor = *opts.ClearColor
	}
	return a
}

// Init registers the application as receiver of g's commands and input
// events, restores the saved state if g has one and sets up the
// accelerometer. A missing accelerometer is not an error; all sensor
// operations become no-ops.
func (a *Application) Init(g platform.Glue) {
	a.glue = g
	a.handle = platform.NewHandle(a)
	g.SetHandlers(a.handle, handleCommand, handleInput)

	if buf := g.SavedState(); len(buf) > 0 {
		if err := a.saved.UnmarshalBinary(buf); err != nil {
			a.log.Warn("discarding saved state", zap.Error(err))
			a.saved.Reset()
		} else {
			a.log.Info("restored saved state",
				zap.Int("payload", len(a.saved.Payload())))
			if keeper, ok := a.hooks.(StateKeeper); ok {
				keeper.RestoreState(&a.saved)
			}
		}
	}

	a.initSensors(g.Looper())
}

func (a *Application) initSensors(l platform.Looper) {
	a.accelerometer = a.sensors.DefaultSensor(sensor.TypeAccelerometer)
	if a.accelerometer == nil {
		a.log.Info("no accelerometer available")
		return
	}
	queue, err := a.sensors.CreateEventQueue(l, sensorIdent)
	if err != nil {
		a.log.Info("no sensor event queue available", zap.Error(err))
		a.accelerometer = nil
		return
	}
	a.sensorQueue = queue
	a.log.Info("using accelerometer", zap.String("name", a.accelerometer.Name()))
}

// AcquireGraphicsContext creates a rendering context for win and makes it
// current. A context that is still held is released first. On failure the
// application holds no context and the *gfx.ContextError is returned.
func (a *Application) AcquireGraphicsContext(win platform.Window) error {
	if a.binding != nil {
		a.ReleaseGraphicsContext()
	}
	b, err := gfx.Acquire(a.driver, win, gfx.DefaultAttribs, a.log.Named("gfx"))
	if err != nil {
		metrics.ContextAcquisitions.WithLabelValues("failure").Inc()
		a.log.Error("unable to acquire graphics context", zap.Error(err))
		return err
	}
	metrics.ContextAcquisitions.WithLabelValues("success").Inc()
	a.binding = b
	a.width, a.height = b.Width, b.Height

	gl := b.GL()
	gl.ClearColor(a.clearColor[0], a.clearColor[1], a.clearColor[2], a.clearColor[3])
	gl.Viewport(0, 0, a.width, a.height)
	return nil
}

// ReleaseGraphicsContext destroys the rendering context. It does nothing if
// no context is held.
func (a *Application) ReleaseGraphicsContext() {
	if a.binding == nil {
		return
	}
	if err := a.binding.Release(); err != nil {
		a.log.Warn("error while releasing graphics context", zap.Error(err))
	}
	a.binding = nil
	metrics.ContextReleases.Inc()
}

// Run is the main loop. It must be called from the thread the glue and the
// rendering context belong to (the main thread, locked with
// runtime.LockOSThread). It returns after the platform requested the
// application to be destroyed; the rendering context has been released by
// then.
//
// While invisible, Run blocks on the glue until an event arrives. While
// visible, it drains pending events without waiting, draws a frame and lets
// the buffer swap throttle the loop to the display's refresh rate.
func (a *Application) Run() {
	defer a.detach()
	prev := a.clock.Now()
	a.fpsStart = prev
	for {
		for {
			timeout := platform.Forever
			if a.visible {
				timeout = 0
			}
			ident, ok := a.glue.Poll(timeout)
			if !ok {
				break
			}
			if ident == sensorIdent {
				a.drainSensorEvents()
			}
			if a.glue.DestroyRequested() {
				a.ReleaseGraphicsContext()
				return
			}
		}

		if a.visible {
			a.OnDraw()
		}

		now := a.clock.Now()
		delta := now.Sub(prev)
		if delta < 0 {
			delta = 0
		}
		prev = now
		a.OnUpdate(delta)
	}
}

func (a *Application) detach() {
	a.glue.SetHandlers(0, nil, nil)
	a.handle.Delete()
}

func (a *Application) drainSensorEvents() {
	if a.sensorQueue == nil {
		return
	}
	for {
		n := a.sensorQueue.GetEvents(a.events[:])
		if n == 0 {
			return
		}
		if !a.visible {
			continue
		}
		for _, ev := range a.events[:n] {
			if ev.Type == sensor.TypeAccelerometer {
				a.OnAccelerometerEvent(ev.X, ev.Y, ev.Z)
			}
		}
	}
}

// OnDraw clears the screen, lets the Renderer hook draw and presents the
// frame. It does nothing if no rendering context is held.
func (a *Application) OnDraw() {
	if a.binding == nil {
		return
	}
	gl := a.binding.GL()
	gl.Clear()
	if r, ok := a.hooks.(Renderer); ok {
		r.Render(gl, a.width, a.height)
	}
	if err := a.binding.Present(); err != nil {
		a.log.Warn("unable to swap buffers", zap.Error(err))
		return
	}
	metrics.FramesDrawn.Inc()
	if a.logFPS {
		a.countFrame()
	}
}

func (a *Application) countFrame() {
	a.frameCount++
	now := a.clock.Now()
	if now.Sub(a.fpsStart) >= time.Second {
		a.log.Debug("frame rate", zap.Int("fps", a.frameCount))
		a.fpsStart = now
		a.frameCount = 0
	}
}

// OnUpdate passes the elapsed time to the Updater hook.
func (a *Application) OnUpdate(delta time.Duration) {
	metrics.UpdateTicks.Inc()
	metrics.FrameDelta.Observe(delta.Seconds())
	if u, ok := a.hooks.(Updater); ok {
		u.Update(delta)
	}
}

// OnAccelerometerEvent passes an accelerometer sample to the
// AccelerometerListener hook.
func (a *Application) OnAccelerometerEvent(x, y, z float32) {
	metrics.SensorSamples.Inc()
	if l, ok := a.hooks.(AccelerometerListener); ok {
		l.OnAccelerometer(x, y, z)
	}
}

// Visible reports whether the application has focus and draws frames.
func (a *Application) Visible() bool {
	return a.visible
}

// HasContext reports whether a rendering context is held.
func (a *Application) HasContext() bool {
	return a.binding != nil
}

// ScreenSize returns the size of the rendering surface, as of the last
// acquisition or resize.
func (a *Application) ScreenSize() (width, height int32) {
	return a.width, a.height
}

// SavedState returns the state that is handed to the platform on save.
func (a *Application) SavedState() *state.SavedState {
	return &a.saved
}
