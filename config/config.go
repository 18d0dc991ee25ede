/*
Package config implements loading and writing the config.yaml file of the
application.
*/
package config

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Backend selects the windowing library.
type Backend int

const (
	// BackendSDL uses SDL2 for window, input, sensors and the GL context.
	BackendSDL Backend = iota
	// BackendGLFW uses GLFW. It has no sensors.
	BackendGLFW
)

var backendNames = [...]string{"sdl", "glfw"}

func (b Backend) String() string {
	if b < 0 || int(b) >= len(backendNames) {
		return fmt.Sprintf("backend(%d)", int(b))
	}
	return backendNames[b]
}

// ParseBackend parses a backend name. Names are matched after normalization,
// so "SDL" and "ｓｄｌ" both select BackendSDL.
func ParseBackend(name string) (Backend, error) {
	n := normalize(name)
	for i := range backendNames {
		if backendNames[i] == n {
			return Backend(i), nil
		}
	}
	return 0, fmt.Errorf("unknown backend: %q", name)
}

var levelNames = []string{"debug", "info", "warn", "error"}

// ParseLevel normalizes a log level name.
func ParseLevel(name string) (string, error) {
	n := normalize(name)
	if n == "" {
		return "info", nil
	}
	if n == "warning" {
		return "warn", nil
	}
	for _, l := range levelNames {
		if l == n {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown log level: %q", name)
}

var folding = transform.Chain(norm.NFKC, cases.Fold())

func normalize(input string) string {
	result, _, err := transform.String(folding, strings.TrimSpace(input))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(input))
	}
	return result
}

// Config is the application configuration.
type Config struct {
	Backend       Backend
	Width, Height int32
	Fullscreen    bool
	// SensorRate is the accelerometer rate in Hz.
	SensorRate int
	ClearColor [4]float32
	LogLevel   string
	// Development enables zap's development mode.
	Development bool
	// StateFile is where the saved state is kept between runs. Relative
	// paths are relative to the data directory.
	StateFile string
	LogFPS    bool
}

type tmpConfig struct {
	Backend       string
	Width, Height int32
	Fullscreen    bool
	SensorRate    int       `yaml:"sensorRate"`
	ClearColor    []float32 `yaml:"clearColor,flow"`
	LogLevel      string    `yaml:"logLevel"`
	Development   bool
	StateFile     string `yaml:"stateFile"`
	LogFPS        bool   `yaml:"logFPS"`
}

// Default returns the configuration written when no config file exists.
func Default() Config {
	return Config{
		Backend: BackendSDL, Width: 480, Height: 800, SensorRate: 60,
		ClearColor: [4]float32{0, 1, 0, 1}, LogLevel: "info",
		StateFile: "state.bin",
	}
}

func (c *Config) MarshalYAML() (interface{}, error) {
	return tmpConfig{
		Backend: c.Backend.String(), Width: c.Width, Height: c.Height,
		Fullscreen: c.Fullscreen, SensorRate: c.SensorRate,
		ClearColor: c.ClearColor[:], LogLevel: c.LogLevel,
		Development: c.Development, StateFile: c.StateFile, LogFPS: c.LogFPS,
	}, nil
}

func defaultTmp() tmpConfig {
	def := Default()
	return tmpConfig{
		Backend: def.Backend.String(), Width: def.Width, Height: def.Height,
		SensorRate: def.SensorRate, ClearColor: def.ClearColor[:],
		LogLevel: def.LogLevel, StateFile: def.StateFile,
	}
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	tmp := defaultTmp()
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	return c.set(&tmp)
}

func (c *Config) set(tmp *tmpConfig) error {
	if tmp.Width <= 0 || tmp.Height <= 0 {
		return fmt.Errorf("invalid size (w=%d, h=%d)", tmp.Width, tmp.Height)
	}
	if tmp.SensorRate <= 0 {
		return fmt.Errorf("invalid sensor rate: %d", tmp.SensorRate)
	}
	if len(tmp.ClearColor) != 4 {
		return fmt.Errorf("clearColor needs 4 components, has %d",
			len(tmp.ClearColor))
	}
	backend, err := ParseBackend(tmp.Backend)
	if err != nil {
		return err
	}
	level, err := ParseLevel(tmp.LogLevel)
	if err != nil {
		return err
	}

	*c = Config{
		Backend: backend, Width: tmp.Width, Height: tmp.Height,
		Fullscreen: tmp.Fullscreen, SensorRate: tmp.SensorRate,
		LogLevel: level, Development: tmp.Development,
		StateFile: tmp.StateFile, LogFPS: tmp.LogFPS,
	}
	for i, v := range tmp.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("clearColor component %d out of range: %g", i, v)
		}
		c.ClearColor[i] = v
	}
	return nil
}

// Load reads the config file at path. If it does not exist, the default
// configuration is returned and written to path.
func Load(path string, log *zap.Logger) (Config, error) {
	input, err := ioutil.ReadFile(path)
	if err == nil {
		// decoded as tmpConfig so that KnownFields applies
		tmp := defaultTmp()
		decoder := yaml.NewDecoder(bytes.NewReader(input))
		decoder.KnownFields(true)
		if err = decoder.Decode(&tmp); err != nil && err != io.EOF {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		var c Config
		if err = c.set(&tmp); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return c, nil
	}
	if !os.IsNotExist(err) {
		return Config{}, err
	}
	c := Default()
	output, err := yaml.Marshal(&c)
	if err != nil {
		panic(err)
	}
	if err = ioutil.WriteFile(path, output, 0644); err != nil {
		log.Warn("unable to write config file", zap.Error(err))
	} else {
		log.Info("wrote default config file", zap.String("path", path))
	}
	return c, nil
}

// DataDir returns the application's data directory, creating it if needed.
func DataDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(usr.HomeDir, ".local", "share", "nativeapp")
	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// StatePath resolves StateFile against dataDir.
func (c *Config) StatePath(dataDir string) string {
	if c.StateFile == "" || filepath.IsAbs(c.StateFile) {
		return c.StateFile
	}
	return filepath.Join(dataDir, c.StateFile)
}
