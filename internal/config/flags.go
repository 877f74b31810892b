package config

import (
	"flag"

	"github.com/Faultbox/srmesh/pkg/lorentz"
)

// Flags holds command-line overrides registered on a FlagSet.
type Flags struct {
	fs *flag.FlagSet

	Config      string
	Debug       bool
	TObs        float64
	Velocity    string
	Workers     int
	Inverse     string
	WorldOutput bool
	LogFile     string
	Plane       string
}

// RegisterFlags registers the shared transform flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&f.TObs, "tobs", 0, "Observation time")
	fs.StringVar(&f.Velocity, "velocity", "", "Scaled velocity x,y,z (fraction of light speed)")
	fs.IntVar(&f.Workers, "workers", 0, "Goroutines for the vertex loop (0 = GOMAXPROCS)")
	fs.StringVar(&f.Inverse, "inverse", "", "Inverse boost method: analytic or general")
	fs.BoolVar(&f.WorldOutput, "world-output", false, "Add the object offset back to transformed vertices")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&f.Plane, "plane", "", "Preview projection plane: xy, xz or yz")
	return f
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// set reports which flags were given on the command line.
func (f *Flags) set() map[string]bool {
	seen := make(map[string]bool)
	if f.fs != nil {
		f.fs.Visit(func(fl *flag.Flag) { seen[fl.Name] = true })
	}
	return seen
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	seen := f.set()

	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if seen["tobs"] {
		cfg.Transform.ObservationTime = f.TObs
	}
	if f.Velocity != "" {
		v, err := lorentz.ParseVelocity(f.Velocity)
		if err != nil {
			return err
		}
		cfg.Transform.Velocity = v.Components()
	}
	if seen["workers"] {
		cfg.Transform.Workers = f.Workers
	}
	if f.Inverse != "" {
		cfg.Transform.Inverse = f.Inverse
	}
	if seen["world-output"] {
		cfg.Transform.WorldOutput = f.WorldOutput
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Plane != "" {
		cfg.Preview.Plane = f.Plane
	}
	return nil
}
