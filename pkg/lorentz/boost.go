package lorentz

import (
	"fmt"

	"github.com/Faultbox/srmesh/pkg/math"
	"gonum.org/v1/gonum/mat"
)

// InverseMethod selects how the inverse boost is obtained.
type InverseMethod string

const (
	// InverseAnalytic uses the boost matrix for -beta.
	InverseAnalytic InverseMethod = "analytic"
	// InverseGeneral inverts the matrix numerically.
	InverseGeneral InverseMethod = "general"
)

// ParseInverseMethod converts a string to an InverseMethod.
// An empty string selects InverseAnalytic.
func ParseInverseMethod(s string) (InverseMethod, error) {
	switch InverseMethod(s) {
	case "", InverseAnalytic:
		return InverseAnalytic, nil
	case InverseGeneral:
		return InverseGeneral, nil
	default:
		return "", fmt.Errorf("unknown inverse method %q (want %q or %q)", s, InverseAnalytic, InverseGeneral)
	}
}

// Boost is the Lorentz transformation into the frame moving with Velocity
// relative to the unprimed frame.
type Boost struct {
	Velocity Velocity
	Gamma    float64
	L        math.Mat4 // unprimed -> moving frame
	Inv      math.Mat4 // moving frame -> unprimed, boost for -Velocity
}

// Build constructs the boost for beta.
//
//	L[0][0] = gamma
//	L[0][i] = L[i][0] = -gamma*beta[i-1]
//	L[i][j] = delta(i,j) + gamma²/(gamma+1)*beta[i-1]*beta[j-1]
func Build(beta Velocity) (*Boost, error) {
	gamma, err := Gamma(beta)
	if err != nil {
		return nil, err
	}
	return &Boost{
		Velocity: beta,
		Gamma:    gamma,
		L:        matrix(beta, gamma),
		Inv:      matrix(beta.Neg(), gamma),
	}, nil
}

func matrix(beta Velocity, gamma float64) math.Mat4 {
	b := beta.Components()
	k := gamma * gamma / (gamma + 1)

	m := math.Identity()
	m.Set(0, 0, gamma)
	for i := 1; i < 4; i++ {
		m.Set(0, i, -gamma*b[i-1])
		m.Set(i, 0, -gamma*b[i-1])
		for j := 1; j < 4; j++ {
			m.Set(i, j, kdelta(i, j)+k*b[i-1]*b[j-1])
		}
	}
	return m
}

func kdelta(a, b int) float64 {
	if a == b {
		return 1
	}
	return 0
}

// Inverse returns the inverse matrix using the given method.
func (b *Boost) Inverse(method InverseMethod) (math.Mat4, error) {
	switch method {
	case "", InverseAnalytic:
		return b.Inv, nil
	case InverseGeneral:
		return Invert(b.L)
	default:
		return math.Mat4{}, fmt.Errorf("unknown inverse method %q", method)
	}
}

// Invert returns the inverse of an arbitrary 4x4 matrix. Singular or
// ill-conditioned input yields ErrSingularMatrix.
func Invert(m math.Mat4) (math.Mat4, error) {
	if !m.IsFinite() {
		return math.Mat4{}, fmt.Errorf("%w: non-finite element", ErrSingularMatrix)
	}

	data := make([]float64, len(m))
	copy(data, m[:])
	a := mat.NewDense(4, 4, data)

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return math.Mat4{}, fmt.Errorf("%w: %v", ErrSingularMatrix, err)
	}

	var out math.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, inv.At(r, c))
		}
	}
	return out, nil
}
