package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/pborman/getopt"
	"go.uber.org/zap"

	"github.com/QuestScreen/nativeapp/config"
	"github.com/QuestScreen/nativeapp/gfx"
	"github.com/QuestScreen/nativeapp/gfx/glfwgl"
	"github.com/QuestScreen/nativeapp/gfx/sdlgl"
	"github.com/QuestScreen/nativeapp/internal/logging"
	"github.com/QuestScreen/nativeapp/internal/metrics"
	"github.com/QuestScreen/nativeapp/lifecycle"
	"github.com/QuestScreen/nativeapp/platform"
	"github.com/QuestScreen/nativeapp/platform/glfwglue"
	"github.com/QuestScreen/nativeapp/platform/sdlglue"
	"github.com/QuestScreen/nativeapp/sensor"
	"github.com/QuestScreen/nativeapp/sensor/sdlsensor"
)

func init() {
	runtime.LockOSThread()
}

// metricsFile is written to the data directory on shutdown, in the text
// format of the node exporter's textfile collector.
const metricsFile = "metrics.prom"

type glue interface {
	platform.Glue
	Close()
}

type flags struct {
	backend    *string
	fullscreen *bool
	width      *int32
	height     *int32
	configPath *string
	debug      *bool
}

func main() {
	f := flags{
		backend:    getopt.StringLong("backend", 'b', "", "window backend (sdl or glfw)"),
		fullscreen: getopt.BoolLong("fullscreen", 'f', "start in fullscreen"),
		width:      getopt.Int32Long("width", 'w', 0, "width of the window"),
		height:     getopt.Int32Long("height", 'h', 0, "height of the window"),
		configPath: getopt.StringLong("config", 'c', "", "path of the config file"),
		debug:      getopt.BoolLong("debug", 'd', "log at debug level"),
	}
	getopt.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	bootLog, err := logging.New(logging.DefaultConfig())
	if err != nil {
		return err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("unable to create data directory: %w", err)
	}
	path := *f.configPath
	if path == "" {
		path = filepath.Join(dataDir, "config.yaml")
	}
	cfg, err := config.Load(path, bootLog)
	if err != nil {
		return fmt.Errorf("unable to read config: %w", err)
	}
	if err = applyFlags(&cfg, f); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel,
		Development: cfg.Development})
	if err != nil {
		return err
	}
	defer log.Sync()

	var store platform.StateStore
	if statePath := cfg.StatePath(dataDir); statePath != "" {
		store = &platform.FileStore{Path: statePath}
	}

	g, driver, sensors, err := openBackend(&cfg, store, log)
	if err != nil {
		return fmt.Errorf("unable to open %s backend: %w", cfg.Backend, err)
	}
	defer g.Close()

	stopSignals := watchSignals(g, log)
	defer stopSignals()

	d := newDemo(cfg.ClearColor, log.Named("demo"))
	app := lifecycle.New(lifecycle.Options{
		Driver: driver, Sensors: sensors, Hooks: d, Logger: log,
		SensorRate: cfg.SensorRate, ClearColor: &cfg.ClearColor,
		LogFPS: cfg.LogFPS,
	})
	app.Init(g)
	log.Info("starting", zap.Stringer("backend", cfg.Backend),
		zap.Uint32("launch", d.launches))
	app.Run()
	log.Info("stopped")

	metricsPath := filepath.Join(dataDir, metricsFile)
	if err = metrics.WriteTextfile(metricsPath); err != nil {
		log.Warn("unable to write metrics", zap.Error(err))
	} else {
		log.Debug("wrote metrics", zap.String("path", metricsPath))
	}
	return nil
}

// watchSignals requests the glue to destroy the application on SIGINT or
// SIGTERM. The returned func stops watching; it must be called before the
// glue is closed.
func watchSignals(g platform.Glue, log *zap.Logger) func() {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	exited := make(chan struct{})
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer close(exited)
		select {
		case sig := <-signals:
			log.Info("received signal", zap.Stringer("signal", sig))
			g.RequestDestroy()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
		<-exited
	}
}

func applyFlags(cfg *config.Config, f flags) error {
	if *f.backend != "" {
		b, err := config.ParseBackend(*f.backend)
		if err != nil {
			return err
		}
		cfg.Backend = b
	}
	if *f.width != 0 && *f.height != 0 {
		cfg.Width = *f.width
		cfg.Height = *f.height
		cfg.Fullscreen = false
	} else if *f.fullscreen {
		cfg.Fullscreen = true
	}
	if *f.debug {
		cfg.LogLevel = "debug"
	}
	return nil
}

func openBackend(cfg *config.Config, store platform.StateStore,
	log *zap.Logger) (glue, gfx.Driver, sensor.Manager, error) {
	switch cfg.Backend {
	case config.BackendGLFW:
		g, err := glfwglue.New(glfwglue.Options{Title: "nativeapp",
			Width: cfg.Width, Height: cfg.Height, Fullscreen: cfg.Fullscreen,
			Attribs: gfx.DefaultAttribs, Store: store, Log: log.Named("glfw")})
		if err != nil {
			return nil, nil, nil, err
		}
		return g, glfwgl.Driver{}, sensor.Unavailable, nil
	default:
		g, err := sdlglue.New(sdlglue.Options{Title: "nativeapp",
			Width: cfg.Width, Height: cfg.Height, Fullscreen: cfg.Fullscreen,
			Attribs: gfx.DefaultAttribs, Store: store, Log: log.Named("sdl")})
		if err != nil {
			return nil, nil, nil, err
		}
		return g, sdlgl.Driver{Log: log.Named("sdlgl")},
			sdlsensor.New(g, log.Named("sensor")), nil
	}
}
