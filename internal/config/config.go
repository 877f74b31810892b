// Package config handles transform settings loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/srmesh/pkg/aberration"
	"github.com/Faultbox/srmesh/pkg/lorentz"
)

// Config holds all srmesh settings.
type Config struct {
	Transform TransformConfig `yaml:"transform"`
	Preview   PreviewConfig   `yaml:"preview"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TransformConfig holds the relativistic transform settings.
type TransformConfig struct {
	ObservationTime float64    `yaml:"observation_time"`
	Velocity        [3]float64 `yaml:"velocity,flow"` // fraction of light speed
	Workers         int        `yaml:"workers"`       // 0 = GOMAXPROCS
	Inverse         string     `yaml:"inverse"`       // analytic | general
	WorldOutput     bool       `yaml:"world_output"`  // re-add object offset
}

// PreviewConfig holds plot output settings.
type PreviewConfig struct {
	Plane        string  `yaml:"plane"` // xy | xz | yz
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Transform: TransformConfig{
			ObservationTime: 0,
			Velocity:        [3]float64{0.5, 0, 0},
			Workers:         0,
			Inverse:         string(lorentz.InverseAnalytic),
			WorldOutput:     false,
		},
		Preview: PreviewConfig{
			Plane:        "xy",
			WidthInches:  8,
			HeightInches: 8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// VelocityVec returns the configured velocity.
func (t TransformConfig) VelocityVec() lorentz.Velocity {
	return lorentz.Velocity{X: t.Velocity[0], Y: t.Velocity[1], Z: t.Velocity[2]}
}

// Aberration converts the settings into a pipeline configuration.
func (t TransformConfig) Aberration() (aberration.Config, error) {
	method, err := lorentz.ParseInverseMethod(t.Inverse)
	if err != nil {
		return aberration.Config{}, err
	}
	return aberration.Config{
		Velocity:        t.VelocityVec(),
		ObservationTime: t.ObservationTime,
		Workers:         t.Workers,
		Inverse:         method,
		WorldOutput:     t.WorldOutput,
	}, nil
}

// Validate checks the settings a transform depends on.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Transform.VelocityVec().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("transform.velocity: %w", err))
	}
	if c.Transform.Workers < 0 {
		errs = append(errs, fmt.Errorf("transform.workers: must be >= 0, got %d", c.Transform.Workers))
	}
	if _, err := lorentz.ParseInverseMethod(c.Transform.Inverse); err != nil {
		errs = append(errs, fmt.Errorf("transform.inverse: %w", err))
	}
	switch c.Preview.Plane {
	case "xy", "xz", "yz":
	default:
		errs = append(errs, fmt.Errorf("preview.plane: unknown plane %q", c.Preview.Plane))
	}
	return errors.Join(errs...)
}
