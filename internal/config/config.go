package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kjkrol/glquad/pkg/gfx"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

const (
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultSwapInterval = 1
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config is the on-disk shape of the program settings. Zero values fall
// back to the defaults of the selected variant.
type Config struct {
	Window       Window    `yaml:"window"`
	Variant      string    `yaml:"variant"`
	ClearColor   []float32 `yaml:"clear_color"`
	FillColor    []float32 `yaml:"fill_color"`
	SwapInterval *int      `yaml:"swap_interval"`
}

// Settings are the resolved values the program runs with.
type Settings struct {
	Width        int
	Height       int
	Title        string
	SwapInterval int
	Variant      gfx.Variant
	ClearColor   mgl32.Vec4
	FillColor    mgl32.Vec4
}

// Load reads a YAML config file. An empty path yields the zero Config.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Resolve validates c and fills in defaults. A non-empty variant argument
// overrides the file.
func (c Config) Resolve(variant string) (Settings, error) {
	if variant == "" {
		variant = c.Variant
	}
	if variant == "" {
		variant = gfx.VariantIndexed.String()
	}
	v, err := gfx.ParseVariant(variant)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	s := Settings{
		Width:        orDefault(c.Window.Width, DefaultWidth),
		Height:       orDefault(c.Window.Height, DefaultHeight),
		Title:        c.Window.Title,
		SwapInterval: DefaultSwapInterval,
		Variant:      v,
		ClearColor:   mgl32.Vec4{0, 0, 0, 1},
		FillColor:    v.Fill(),
	}
	if s.Width < 0 || s.Height < 0 {
		return Settings{}, fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Width, s.Height)
	}
	if s.Title == "" {
		s.Title = v.Title()
	}
	if c.SwapInterval != nil {
		if *c.SwapInterval < 0 {
			return Settings{}, fmt.Errorf("%w: swap_interval %d", ErrInvalid, *c.SwapInterval)
		}
		s.SwapInterval = *c.SwapInterval
	}
	if c.ClearColor != nil {
		if s.ClearColor, err = color("clear_color", c.ClearColor); err != nil {
			return Settings{}, err
		}
	}
	if c.FillColor != nil {
		if s.FillColor, err = color("fill_color", c.FillColor); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func color(name string, c []float32) (mgl32.Vec4, error) {
	if len(c) != 4 {
		return mgl32.Vec4{}, fmt.Errorf("%w: %s needs 4 components, got %d", ErrInvalid, name, len(c))
	}
	for i, v := range c {
		// NaN fails the comparison too.
		if mgl32.Clamp(v, 0, 1) != v {
			return mgl32.Vec4{}, fmt.Errorf("%w: %s component %d out of [0,1]: %g", ErrInvalid, name, i, v)
		}
	}
	return mgl32.Vec4{c[0], c[1], c[2], c[3]}, nil
}
