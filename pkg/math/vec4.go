// Package math provides the float64 spacetime types used by the relativistic transform.
// Units are chosen so that the speed of light is 1.
package math

import "gonum.org/v1/gonum/spatial/r3"

// Vec4 is a spacetime event or displacement (t, x, y, z).
type Vec4 [4]float64

// Event returns the event at time t and spatial position p.
func Event(t float64, p r3.Vec) Vec4 {
	return Vec4{t, p.X, p.Y, p.Z}
}

// Offset lifts a spatial frame offset into a 4-vector with zero time component.
func Offset(p r3.Vec) Vec4 {
	return Event(0, p)
}

// T returns the time component.
func (v Vec4) T() float64 {
	return v[0]
}

// Spatial returns the x, y, z components.
func (v Vec4) Spatial() r3.Vec {
	return r3.Vec{X: v[1], Y: v[2], Z: v[3]}
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v[0] + other[0], v[1] + other[1], v[2] + other[2], v[3] + other[3]}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v[0] - other[0], v[1] - other[1], v[2] - other[2], v[3] - other[3]}
}

// Scale returns v * s.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// Interval returns the Minkowski interval t² - x² - y² - z².
// It is invariant under Lorentz boosts.
func (v Vec4) Interval() float64 {
	return v[0]*v[0] - v[1]*v[1] - v[2]*v[2] - v[3]*v[3]
}
