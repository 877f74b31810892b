// Package lorentz builds Lorentz boost matrices for uniform motion at an
// arbitrary velocity, expressed as a fraction of light speed.
package lorentz

import (
	"errors"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Lorentz errors.
var (
	ErrInvalidVelocity = errors.New("invalid velocity: speed must be below light speed")
	ErrSingularMatrix  = errors.New("lorentz matrix is not invertible")
)

// Velocity is a scaled velocity beta = v/c.
type Velocity r3.Vec

// Vec returns the velocity as a plain 3-vector.
func (v Velocity) Vec() r3.Vec {
	return r3.Vec(v)
}

// Dot returns beta·beta.
func (v Velocity) Dot() float64 {
	return r3.Dot(v.Vec(), v.Vec())
}

// Speed returns |beta|.
func (v Velocity) Speed() float64 {
	return gomath.Sqrt(v.Dot())
}

// Neg returns -beta.
func (v Velocity) Neg() Velocity {
	return Velocity(r3.Scale(-1, v.Vec()))
}

// Components returns beta as an indexable array.
func (v Velocity) Components() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Validate checks that every component lies in (-1, 1) and that the
// speed is strictly below light speed.
func (v Velocity) Validate() error {
	for i, c := range v.Components() {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrInvalidVelocity, i, c)
		}
		if c <= -1 || c >= 1 {
			return fmt.Errorf("%w: component %d = %v outside (-1, 1)", ErrInvalidVelocity, i, c)
		}
	}
	if b2 := v.Dot(); b2 >= 1 {
		return fmt.Errorf("%w: |beta| = %v", ErrInvalidVelocity, gomath.Sqrt(b2))
	}
	return nil
}

// String returns the velocity as "x,y,z".
func (v Velocity) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

// ParseVelocity parses "x,y,z". It does not range check; call Validate.
func ParseVelocity(s string) (Velocity, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Velocity{}, fmt.Errorf("velocity %q: expected 3 comma-separated components", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Velocity{}, fmt.Errorf("velocity %q: component %d: %w", s, i, err)
		}
		c[i] = f
	}
	return Velocity{X: c[0], Y: c[1], Z: c[2]}, nil
}

// Gamma returns the Lorentz factor 1/sqrt(1 - beta·beta).
func Gamma(beta Velocity) (float64, error) {
	if err := beta.Validate(); err != nil {
		return 0, err
	}
	return 1 / gomath.Sqrt(1-beta.Dot()), nil
}
