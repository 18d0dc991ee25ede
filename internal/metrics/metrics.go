// Package metrics holds the Prometheus collectors of the application loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Loop metrics
var (
	// FramesDrawn counts completed draw calls (clear, render hook, swap).
	FramesDrawn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nativeapp_frames_drawn_total",
			Help: "Total frames drawn and presented",
		},
	)

	// UpdateTicks counts invocations of the update hook.
	UpdateTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nativeapp_update_ticks_total",
			Help: "Total update hook invocations",
		},
	)

	// FrameDelta tracks the elapsed time passed to the update hook.
	FrameDelta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nativeapp_frame_delta_seconds",
			Help:    "Elapsed wall-clock time between loop iterations",
			Buckets: []float64{.004, .008, .016, .033, .066, .1, .25, .5, 1},
		},
	)
)

// Lifecycle metrics
var (
	// Commands counts lifecycle commands by name.
	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nativeapp_lifecycle_commands_total",
			Help: "Lifecycle commands received by command",
		},
		[]string{"command"},
	)

	// InputEvents counts input events by whether they were consumed.
	InputEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nativeapp_input_events_total",
			Help: "Input events received by consumed (true/false)",
		},
		[]string{"consumed"},
	)

	// ContextAcquisitions counts graphics context acquisitions by result.
	ContextAcquisitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nativeapp_context_acquisitions_total",
			Help: "Graphics context acquisitions by result (success/failure)",
		},
		[]string{"result"},
	)

	// ContextReleases counts releases of an existing graphics context.
	ContextReleases = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nativeapp_context_releases_total",
			Help: "Graphics contexts released",
		},
	)
)

// Sensor metrics
var (
	// SensorSamples counts accelerometer samples delivered to the hook.
	SensorSamples = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nativeapp_sensor_samples_total",
			Help: "Accelerometer samples delivered",
		},
	)
)

// WriteTextfile writes the current value of all registered collectors to
// path in the Prometheus text format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
