// Package aberration computes the apparent shape of a mesh as seen by an
// observer in uniform relativistic motion relative to the mesh rest frame.
//
// Only geometric aberration is modeled: relativity of simultaneity and the
// finite travel time of light. Each vertex is moved to the point of its
// world-line whose emitted light reaches the observer at the observation time.
package aberration

import (
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/srmesh/pkg/lorentz"
	"github.com/Faultbox/srmesh/pkg/math"
)

// Pipeline errors.
var (
	ErrInvalidObservationTime = errors.New("observation time must be finite")
	ErrNonFiniteInput         = errors.New("non-finite coordinate")
)

// Config holds the settings of one transform invocation.
type Config struct {
	// Velocity of the object relative to the observer, as a fraction of c.
	Velocity lorentz.Velocity
	// ObservationTime is the observer's proper time at which it looks.
	ObservationTime float64
	// Workers bounds the goroutines used for the vertex loop.
	// Zero uses GOMAXPROCS, one runs inline.
	Workers int
	// Inverse selects how the back-transform matrix is obtained.
	Inverse lorentz.InverseMethod
	// WorldOutput adds the object offset back after the inverse transform.
	// When false the result stays relative to the object's local origin.
	WorldOutput bool
}

// Pipeline holds the boost built for one Config.
type Pipeline struct {
	cfg   Config
	boost *lorentz.Boost
	inv   math.Mat4
}

// NewPipeline validates cfg and builds the boost and its inverse.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if gomath.IsNaN(cfg.ObservationTime) || gomath.IsInf(cfg.ObservationTime, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidObservationTime, cfg.ObservationTime)
	}

	boost, err := lorentz.Build(cfg.Velocity)
	if err != nil {
		return nil, fmt.Errorf("building boost: %w", err)
	}

	inv, err := boost.Inverse(cfg.Inverse)
	if err != nil {
		return nil, fmt.Errorf("inverting boost: %w", err)
	}

	return &Pipeline{cfg: cfg, boost: boost, inv: inv}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Boost returns the Lorentz boost for the configured velocity.
func (p *Pipeline) Boost() *lorentz.Boost {
	return p.boost
}

// Inverse returns the matrix used for the back-transform.
func (p *Pipeline) Inverse() math.Mat4 {
	return p.inv
}

// ObserverEvent returns the observation event expressed in the object's
// rest frame. The observer sits at the spatial origin of its own frame.
func (p *Pipeline) ObserverEvent(observer, object r3.Vec) math.Vec4 {
	obs := math.Vec4{p.cfg.ObservationTime, 0, 0, 0}
	a1 := math.Offset(observer)
	a2 := math.Offset(object)
	return p.boost.L.MulVec4(obs.Add(a1).Sub(a2))
}

// EmissionEvent intersects the backward light cone of obs2 with the static
// world-line of a vertex at v. The vertex emits at obs2.t - |v - obs2.x|.
func EmissionEvent(obs2 math.Vec4, v r3.Vec) math.Vec4 {
	delta := r3.Norm(r3.Sub(v, obs2.Spatial()))
	return math.Event(obs2.T()-delta, v)
}

// Apply transforms mesh in place. Nothing is written unless observer, object
// and every vertex are finite.
func (p *Pipeline) Apply(observer, object r3.Vec, mesh []r3.Vec) error {
	if !finite(observer) {
		return fmt.Errorf("%w: observer %v", ErrNonFiniteInput, observer)
	}
	if !finite(object) {
		return fmt.Errorf("%w: object %v", ErrNonFiniteInput, object)
	}
	for i, v := range mesh {
		if !finite(v) {
			return fmt.Errorf("%w: vertex %d %v", ErrNonFiniteInput, i, v)
		}
	}

	obs2 := p.ObserverEvent(observer, object)

	var offset r3.Vec
	if p.cfg.WorldOutput {
		offset = object
	}

	forEachChunk(len(mesh), p.cfg.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			world := p.inv.MulVec4(EmissionEvent(obs2, mesh[i]))
			mesh[i] = r3.Add(world.Spatial(), offset)
		}
	})
	return nil
}

// Run builds a pipeline for cfg and applies it to mesh.
func Run(cfg Config, observer, object r3.Vec, mesh []r3.Vec) error {
	p, err := NewPipeline(cfg)
	if err != nil {
		return err
	}
	return p.Apply(observer, object, mesh)
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return false
		}
	}
	return true
}
