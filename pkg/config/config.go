// Package config holds carousel settings, read from an optional YAML file
// and overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Profile is the camera setup for one device class.
type Profile struct {
	InitialZ float64 `yaml:"initial_z"` // dolly start distance
	TargetZ  float64 `yaml:"target_z"`  // dolly end distance
	Height   float64 `yaml:"height"`    // camera y
	LookY    float64 `yaml:"look_y"`    // y of the look-at point on the axis
	Rate     float64 `yaml:"rate"`      // fraction of the remaining distance covered per frame
}

// Config holds every tunable of the carousel.
type Config struct {
	FPS             int           `yaml:"fps"`
	ReadyTimeout    time.Duration `yaml:"ready_timeout"`
	LoadTimeout     time.Duration `yaml:"load_timeout"`
	LoadConcurrency int           `yaml:"load_concurrency"`
	AssetRoot       string        `yaml:"asset_root"`
	PartsDir        string        `yaml:"parts_dir"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`

	// Breakpoint is the viewport width in pixels below which the mobile
	// profile applies. A terminal column counts as CellWidth pixels.
	Breakpoint int `yaml:"breakpoint"`
	CellWidth  int `yaml:"cell_width"`

	Desktop Profile `yaml:"desktop"`
	Mobile  Profile `yaml:"mobile"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		FPS:             30,
		ReadyTimeout:    10 * time.Second,
		LoadTimeout:     10 * time.Second,
		LoadConcurrency: 4,
		AssetRoot:       ".",
		LogLevel:        "info",
		LogFile:         "carousel.log",
		Breakpoint:      800,
		CellWidth:       8,
		Desktop:         Profile{InitialZ: 8, TargetZ: 3, Height: 20, LookY: -5, Rate: 0.02},
		Mobile:          Profile{InitialZ: 15, TargetZ: 0.5, Height: 1000, LookY: 3, Rate: 0.1},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps %d out of range 1-240", ErrInvalid, c.FPS)
	case c.ReadyTimeout < 0 || c.LoadTimeout < 0:
		return fmt.Errorf("%w: negative timeout", ErrInvalid)
	case c.LoadConcurrency < 0:
		return fmt.Errorf("%w: negative load concurrency", ErrInvalid)
	case c.Breakpoint <= 0 || c.CellWidth <= 0:
		return fmt.Errorf("%w: breakpoint and cell width must be positive", ErrInvalid)
	}
	for name, p := range map[string]Profile{"desktop": c.Desktop, "mobile": c.Mobile} {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: %s profile: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

func (p Profile) validate() error {
	if p.Rate <= 0 || p.Rate > 1 {
		return fmt.Errorf("rate %v out of range (0, 1]", p.Rate)
	}
	if p.TargetZ <= 0 || p.InitialZ < p.TargetZ {
		return fmt.Errorf("need 0 < target_z <= initial_z, got %v and %v", p.TargetZ, p.InitialZ)
	}
	return nil
}

// ProfileFor returns the camera profile for a viewport width in pixels.
func (c Config) ProfileFor(widthPx int) (Profile, bool) {
	if widthPx < c.Breakpoint {
		return c.Mobile, true
	}
	return c.Desktop, false
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
