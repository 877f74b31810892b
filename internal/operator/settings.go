// Package operator runs the relativistic transform against a scene the way
// an editor command would: check the selection, transform the selected mesh
// in place and keep the invocation in a session history.
package operator

import (
	"github.com/Faultbox/srmesh/pkg/aberration"
	"github.com/Faultbox/srmesh/pkg/lorentz"
)

// Settings are the user-facing inputs of one invocation.
type Settings struct {
	ObservationTime float64
	Velocity        lorentz.Velocity

	Workers     int
	Inverse     lorentz.InverseMethod
	WorldOutput bool
}

// DefaultSettings returns t = 0 and a velocity of half the speed of light
// along x.
func DefaultSettings() Settings {
	return Settings{
		ObservationTime: 0,
		Velocity:        lorentz.Velocity{X: 0.5},
		Inverse:         lorentz.InverseAnalytic,
	}
}

// FromPipelineConfig converts pipeline settings back into operator settings.
func FromPipelineConfig(cfg aberration.Config) Settings {
	return Settings{
		ObservationTime: cfg.ObservationTime,
		Velocity:        cfg.Velocity,
		Workers:         cfg.Workers,
		Inverse:         cfg.Inverse,
		WorldOutput:     cfg.WorldOutput,
	}
}

func (s Settings) pipelineConfig() aberration.Config {
	return aberration.Config{
		Velocity:        s.Velocity,
		ObservationTime: s.ObservationTime,
		Workers:         s.Workers,
		Inverse:         s.Inverse,
		WorldOutput:     s.WorldOutput,
	}
}
