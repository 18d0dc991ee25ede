package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestLoadWritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	again, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(
		"backend: GLFW\nwidth: 1024\nheight: 768\nlogLevel: Warning\n"), 0644))

	c, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, BackendGLFW, c.Backend)
	assert.Equal(t, int32(1024), c.Width)
	assert.Equal(t, int32(768), c.Height)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 60, c.SensorRate)
	assert.Equal(t, [4]float32{0, 1, 0, 1}, c.ClearColor)
	assert.Equal(t, "state.bin", c.StateFile)
}

func TestLoadRejects(t *testing.T) {
	for name, input := range map[string]string{
		"unknown field":   "colour: red\n",
		"zero size":       "width: 0\n",
		"bad backend":     "backend: wayland\n",
		"bad level":       "logLevel: loud\n",
		"short color":     "clearColor: [1, 0, 0]\n",
		"color range":     "clearColor: [1, 0, 2, 1]\n",
		"bad sensor rate": "sensorRate: -5\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, ioutil.WriteFile(path, []byte(input), 0644))
			_, err := Load(path, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c := Config{Backend: BackendGLFW, Width: 300, Height: 200, Fullscreen: true,
		SensorRate: 30, ClearColor: [4]float32{0.25, 0.5, 0.75, 1},
		LogLevel: "debug", Development: true, StateFile: "/tmp/x", LogFPS: true}
	out, err := yaml.Marshal(&c)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, c, back)
}

func TestNameNormalization(t *testing.T) {
	b, err := ParseBackend(" ＳＤＬ ")
	require.NoError(t, err)
	assert.Equal(t, BackendSDL, b)

	l, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "debug", l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", l)

	assert.Equal(t, "backend(7)", Backend(7).String())
}

func TestStatePath(t *testing.T) {
	c := Config{StateFile: "state.bin"}
	assert.Equal(t, filepath.Join("/data", "state.bin"), c.StatePath("/data"))
	c.StateFile = "/var/state.bin"
	assert.Equal(t, "/var/state.bin", c.StatePath("/data"))
	c.StateFile = ""
	assert.Equal(t, "", c.StatePath("/data"))
}
