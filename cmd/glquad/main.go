package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/kjkrol/glquad/internal/config"
	"github.com/kjkrol/glquad/internal/platform"
	"github.com/kjkrol/glquad/internal/renderer"
	"github.com/kjkrol/glquad/pkg/gfx"
)

// GLFW and the GL context must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	variant := flag.String("variant", "", "draw path: indexed or arrays (default indexed)")
	configPath := flag.String("config", "", "optional YAML config file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	os.Exit(run(*variant, *configPath, *logLevel))
}

func run(variant, configPath, logLevel string) int {
	logger, err := newLogger(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	gfx.SetLogger(logger)

	conf, err := config.Load(configPath)
	if err != nil {
		logger.Error("load config", slog.Any("err", err))
		return -1
	}
	settings, err := conf.Resolve(variant)
	if err != nil {
		logger.Error("resolve config", slog.Any("err", err))
		return -1
	}

	window, err := platform.NewWindow(platform.WindowConfig{
		Width:        settings.Width,
		Height:       settings.Height,
		Title:        settings.Title,
		SwapInterval: settings.SwapInterval,
	})
	if err != nil {
		logger.Error("create surface", slog.Any("err", err))
		return -1
	}
	defer window.Close()
	logger.Info("surface created",
		slog.String("title", window.Title()),
		slog.Int("width", settings.Width),
		slog.Int("height", settings.Height),
		slog.String("glfw", platform.Version()),
	)

	dev, err := renderer.NewDevice()
	if err != nil {
		logger.Error("init context", slog.Any("err", err))
		return -1
	}

	pipeline, err := gfx.NewPipeline(dev, gfx.PipelineConfig{
		Variant:    settings.Variant,
		Width:      settings.Width,
		Height:     settings.Height,
		Fill:       settings.FillColor,
		ClearColor: settings.ClearColor,
	})
	if err != nil {
		logger.Error("init pipeline", slog.Any("err", err))
		return -1
	}
	defer pipeline.Close()

	frames := gfx.Run(window, pipeline.Render)
	logger.Info("surface closed", slog.Int("frames", frames))
	return 0
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
