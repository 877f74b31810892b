package math

import (
	"fmt"
	"math"
	"strings"
)

// Mat4 is a 4x4 matrix in row-major order.
// Layout: [m0  m1  m2  m3 ]
//
//	[m4  m5  m6  m7 ]
//	[m8  m9  m10 m11]
//	[m12 m13 m14 m15]
//
// Row and column 0 are the time axis, 1..3 the spatial x, y, z axes.
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromRows builds a matrix from row slices.
func FromRows(rows [4][4]float64) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = rows[r][c]
		}
	}
	return m
}

// At returns the element at row, col.
func (m Mat4) At(row, col int) float64 {
	return m[row*4+col]
}

// Set stores v at row, col.
func (m *Mat4) Set(row, col int, v float64) {
	m[row*4+col] = v
}

// Rows returns the matrix as nested rows.
func (m Mat4) Rows() [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = m[r*4+c]
		}
	}
	return rows
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row*4+col] =
				m[row*4+0]*other[0*4+col] +
					m[row*4+1]*other[1*4+col] +
					m[row*4+2]*other[2*4+col] +
					m[row*4+3]*other[3*4+col]
		}
	}
	return result
}

// MulVec4 multiplies the matrix by a column 4-vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var result Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			result[c*4+r] = m[r*4+c]
		}
	}
	return result
}

// ApproxEqual reports whether every element differs by at most tol.
func (m Mat4) ApproxEqual(other Mat4, tol float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or infinite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String formats the matrix one row per line.
func (m Mat4) String() string {
	var sb strings.Builder
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&sb, "[% .9f % .9f % .9f % .9f]", m[r*4], m[r*4+1], m[r*4+2], m[r*4+3])
		if r < 3 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
