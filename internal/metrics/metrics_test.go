package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		FramesDrawn, UpdateTicks, FrameDelta,
		Commands, InputEvents, ContextAcquisitions, ContextReleases,
		SensorSamples,
	}
	for _, c := range collectors {
		err := prometheus.Register(c)
		assert.Error(t, err, "collector should already be registered")
		_, ok := err.(prometheus.AlreadyRegisteredError)
		assert.True(t, ok)
	}
}

func TestLabelledCounters(t *testing.T) {
	before := testutil.ToFloat64(Commands.WithLabelValues("init_window"))
	Commands.WithLabelValues("init_window").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Commands.WithLabelValues("init_window")))
}

func TestWriteTextfile(t *testing.T) {
	FramesDrawn.Inc()
	Commands.WithLabelValues("gained_focus").Inc()

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "nativeapp_frames_drawn_total")
	assert.Contains(t, string(content),
		`nativeapp_lifecycle_commands_total{command="gained_focus"}`)
}

func TestWriteTextfileFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "metrics.prom")
	assert.Error(t, WriteTextfile(path))
}
