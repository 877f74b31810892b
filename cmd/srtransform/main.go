// srtransform applies the relativistic aberration transform to scene meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/Faultbox/srmesh/internal/config"
	"github.com/Faultbox/srmesh/internal/logger"
	"github.com/Faultbox/srmesh/internal/operator"
	"github.com/Faultbox/srmesh/internal/preview"
	"github.com/Faultbox/srmesh/pkg/aberration"
	"github.com/Faultbox/srmesh/pkg/lorentz"
	"github.com/Faultbox/srmesh/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "apply":
		err = cmdApply(args)
	case "boost":
		err = cmdBoost(args)
	case "preview":
		err = cmdPreview(args)
	case "init-config":
		err = cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`srtransform - relativistic apparent shape of scene meshes

Usage:
  srtransform <command> [options]

Commands:
  apply [options] <scene.yaml>              Transform the selected mesh
  boost [options]                           Print gamma, the boost and its inverse
  preview [options] <scene.yaml> <out.png>  Plot original vs apparent vertices
  init-config [options]                     Write the effective config to a file
  help                                      Show this help

Common options:
  -config <file>      Config file (default ./srmesh.yaml)
  -tobs <t>           Observation time (default 0)
  -velocity x,y,z     Velocity as a fraction of c (default 0.5,0,0)
  -workers <n>        Goroutines for the vertex loop (0 = GOMAXPROCS)
  -inverse <method>   analytic or general
  -world-output       Add the object offset back to the output
  -debug              Enable debug logging

Examples:
  srtransform boost -velocity 0.6,0,0
  srtransform apply -velocity 0,0.9,0 -o out/scene.yaml scene.yaml
  srtransform preview -plane xz scene.yaml preview.svg
  srtransform init-config -velocity 0,0,0.8 -o srmesh.yaml`)
}

// setup parses args and initializes config and logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.Float64("tobs", cfg.Transform.ObservationTime),
		zap.Float64s("velocity", cfg.Transform.Velocity[:]),
		zap.Int("workers", cfg.Transform.Workers),
		zap.String("inverse", cfg.Transform.Inverse))
	return cfg, nil
}

func cmdApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	out := fs.String("o", "", "Output scene file (default: overwrite input)")
	selectName := fs.String("select", "", "Select this object before transforming")
	repeat := fs.Int("repeat", 0, "Apply the transform this many more times")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: srtransform apply [options] <scene.yaml>")
	}
	scenePath := fs.Arg(0)

	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	if *selectName != "" {
		if err := s.Select(*selectName); err != nil {
			return err
		}
	}

	pc, err := cfg.Transform.Aberration()
	if err != nil {
		return err
	}

	op := operator.New()
	rep, err := op.Execute(s, operator.FromPipelineConfig(pc))
	if err != nil {
		return err
	}
	fmt.Println(rep)
	if rep.Status != operator.StatusFinished {
		return nil
	}

	for i := 0; i < *repeat; i++ {
		rep, err := op.Repeat(s)
		if err != nil {
			return err
		}
		fmt.Println(rep)
	}

	dst := *out
	if dst == "" {
		dst = scenePath
	}
	if err := s.Save(dst); err != nil {
		return fmt.Errorf("saving scene: %w", err)
	}
	logger.Info("scene saved", zap.String("path", dst), zap.Int("invocations", op.History().Len()))
	return nil
}

func cmdBoost(args []string) error {
	fs := flag.NewFlagSet("boost", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}

	b, err := lorentz.Build(cfg.Transform.VelocityVec())
	if err != nil {
		return err
	}
	method, err := lorentz.ParseInverseMethod(cfg.Transform.Inverse)
	if err != nil {
		return err
	}
	inv, err := b.Inverse(method)
	if err != nil {
		return err
	}

	fmt.Printf("velocity: %v\n", b.Velocity)
	fmt.Printf("speed:    %.9g c\n", b.Velocity.Speed())
	fmt.Printf("gamma:    %.9g\n", b.Gamma)
	fmt.Printf("\nL:\n%s\n", b.L)
	fmt.Printf("\nL^-1 (%s):\n%s\n", method, inv)
	return nil
}

func cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	selectName := fs.String("select", "", "Select this object before transforming")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: srtransform preview [options] <scene.yaml> <out.png>")
	}

	s, err := scene.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *selectName != "" {
		if err := s.Select(*selectName); err != nil {
			return err
		}
	}

	obj, err := s.Selection()
	if err != nil {
		var selErr *scene.SelectionError
		if errors.As(err, &selErr) {
			fmt.Printf("%s: %s\n", operator.LevelInfo, selErr.Message())
			return nil
		}
		return err
	}
	cam, err := s.ActiveCamera()
	if err != nil {
		return err
	}

	pc, err := cfg.Transform.Aberration()
	if err != nil {
		return err
	}
	before := obj.SnapshotVertices()
	after := obj.SnapshotVertices()
	if err := aberration.Run(pc, cam.Position(), obj.Position(), after); err != nil {
		return err
	}

	plane, err := preview.ParsePlane(cfg.Preview.Plane)
	if err != nil {
		return err
	}
	opts := preview.Options{
		Title:  fmt.Sprintf("%s at %v c, t = %g", obj.Name, pc.Velocity, pc.ObservationTime),
		Plane:  plane,
		Width:  vg.Length(cfg.Preview.WidthInches) * vg.Inch,
		Height: vg.Length(cfg.Preview.HeightInches) * vg.Inch,
	}
	outPath := fs.Arg(1)
	if err := preview.Render(outPath, before, after, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d vertices)\n", filepath.Clean(outPath), len(before))
	return nil
}

func cmdInitConfig(args []string) error {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default: user config directory)")

	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = config.DefaultPath()
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
