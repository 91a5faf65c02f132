package roto

import (
	"fmt"
	"math"
)

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
// Shapes carry an AT per time and view; the zero value (nil) is treated as
// identity by Transform.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 9)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 3)
	c[0] = m[col]
	c[1] = m[3+col]
	c[2] = m[6+col]
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Scaling transform. Scale a point by (sx,sy) relative to the origin.
func Scaling(sx, sy float64) AT {
	m := Identity()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	if len(m) != 9 {
		return "[identity]"
	}
	s := fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
	return s
}

// IsIdentity is a predicate. A nil transform counts as identity.
func (m AT) IsIdentity() bool {
	if len(m) != 9 {
		return true
	}
	id := Identity()
	for i := range m {
		if !Is0(m[i] - id[i]) {
			return false
		}
	}
	return true
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	p1 := vec1[0] * vec2[0]
	p2 := vec1[1] * vec2[1]
	p3 := vec1[2] * vec2[2]
	return p1 + p2 + p3
}

// Combine 2 affine transformation to a new one. Returns a new transformation
// without changing the argument(s). The result applies m first, then n.
func (m AT) Combine(n AT) AT {
	m, n = m.orIdentity(), n.orIdentity()
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Inverse returns the inverse transform. If m is singular, Inverse returns
// identity and false.
func (m AT) Inverse() (AT, bool) {
	m = m.orIdentity()
	a, b, c := m.get(0, 0), m.get(0, 1), m.get(0, 2)
	d, e, f := m.get(1, 0), m.get(1, 1), m.get(1, 2)
	g, h, i := m.get(2, 0), m.get(2, 1), m.get(2, 2)
	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	det := a*A + b*B + c*C
	if det == 0 || math.IsNaN(det) {
		tracer().Debugf("transform %s is not invertible", m)
		return Identity(), false
	}
	inv := newAT()
	inv.set(0, 0, A/det)
	inv.set(1, 0, B/det)
	inv.set(2, 0, C/det)
	inv.set(0, 1, -(b*i-c*h)/det)
	inv.set(1, 1, (a*i-c*g)/det)
	inv.set(2, 1, -(a*h-b*g)/det)
	inv.set(0, 2, (b*f-c*e)/det)
	inv.set(1, 2, -(a*f-c*d)/det)
	inv.set(2, 2, (a*e-b*d)/det)
	return inv, true
}

func (m AT) orIdentity() AT {
	if len(m) != 9 {
		return Identity()
	}
	return m
}

func (m AT) multiplyVector(v []float64) []float64 {
	c := make([]float64, 3)
	c[0] = dotProd(m.row(0), v)
	c[1] = dotProd(m.row(1), v)
	c[2] = dotProd(m.row(2), v)
	return c
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
// Projective transforms are divided by the homogeneous coordinate.
func (m AT) Transform(p Pair) Pair {
	if len(m) != 9 {
		return p
	}
	c := m.multiplyVector([]float64{p.X(), p.Y(), 1.0})
	if c[2] != 0 && c[2] != 1 {
		return P(c[0]/c[2], c[1]/c[2])
	}
	return P(c[0], c[1])
}
