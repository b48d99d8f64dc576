// Package config loads and validates the simulation's tunable parameters,
// plumbed in through constructor arguments rather than package-level
// globals (see the redesign notes on global mutable state).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/harddisk-md/internal/units"
)

const (
	DefaultBoxSide       = 1.0
	DefaultHz            = 60.0
	DefaultWallSpeed     = 0.0
	DefaultVelocityScale = 0.2
	DefaultBucketWidth   = 0.01
	DefaultHistogramMax  = 1.0
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config is the full set of tunable parameters for one run. Radius, Spacing
// and Friction come from required CLI positional arguments; everything
// else may be overridden by an optional YAML file or left at its default.
type Config struct {
	Radius   float64 `yaml:"radius"`
	Spacing  float64 `yaml:"spacing"`
	Friction float64 `yaml:"friction"`

	BoxSide   float64 `yaml:"box_side"`
	WallSpeed float64 `yaml:"wall_speed"`
	Hz        float64 `yaml:"hz"`
	Seed      int64   `yaml:"seed"`

	VelocityScale  float64 `yaml:"velocity_scale"`
	BucketWidth    float64 `yaml:"bucket_width"`
	HistogramScale float64 `yaml:"histogram_scale"`
	TracerIndex    int     `yaml:"tracer_index"`

	Log LogConfig `yaml:"log"`
}

// LogConfig mirrors internal/logx.Config so it can be set from YAML without
// exposing logx's slog-flavoured types to the config schema.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the engine's textbook defaults; radius and spacing
// are left zero and friction is units.DefaultFriction, since those three
// are always supplied by the caller (the CLI's required positional
// arguments or a preset).
func DefaultConfig() *Config {
	return &Config{
		Friction:       units.DefaultFriction,
		BoxSide:        DefaultBoxSide,
		WallSpeed:      DefaultWallSpeed,
		Hz:             DefaultHz,
		VelocityScale:  DefaultVelocityScale,
		BucketWidth:    DefaultBucketWidth,
		HistogramScale: DefaultHistogramMax,
		TracerIndex:    -1,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads a YAML overrides file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, for exporting the effective run
// configuration alongside a headless run's metrics.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the invariants the collision engine assumes hold:
// positive radius and box side, friction in [0, 1], positive frame rate.
func (c *Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("config: radius must be positive, got %v", c.Radius)
	}
	if c.Spacing <= 0 {
		return fmt.Errorf("config: spacing must be positive, got %v", c.Spacing)
	}
	if c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("config: friction must be in [0, 1], got %v", c.Friction)
	}
	if c.BoxSide <= 2*c.Radius {
		return fmt.Errorf("config: box_side %v too small for radius %v", c.BoxSide, c.Radius)
	}
	if c.Hz <= 0 {
		return fmt.Errorf("config: hz must be positive, got %v", c.Hz)
	}
	return nil
}
