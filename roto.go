/*
Package roto implements the geometric primitives for animated roto shapes:
points, affine transformations and axis-aligned rectangles.

Shapes themselves live in package spline, curve evaluation in package bezier
and curve fitting of digitized strokes in package fit.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package roto

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto'
func tracer() tracing.Trace {
	return tracing.Select("roto")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Pair Data Type ========================================================

// Pair is a 2D-point or 2D-vector.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(float64(0), float64(0))

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// F is a quick notation for getting float values from a pair.
func (p Pair) F() (float64, float64) {
	return real(p), imag(p)
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	p = P(Zap(p.X()), Zap(p.Y()))
	return p
}

// IsOrigin is a predicate: is this pair origin?
func (p Pair) IsOrigin() bool {
	return p.Equal(Origin)
}

// Equal compares two pairs within ε.
// Control points are compared exactly, use == for that.
func (p Pair) Equal(p2 Pair) bool {
	p2 = p2.Zap()
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Abs is the euclidean length of p.
func (p Pair) Abs() float64 {
	return math.Hypot(p.X(), p.Y())
}

// Abs2 is the squared euclidean length of p.
func (p Pair) Abs2() float64 {
	return p.X()*p.X() + p.Y()*p.Y()
}

// Dist returns the euclidean distance between p and q.
func (p Pair) Dist(q Pair) float64 {
	return (q - p).Abs()
}

// Dot is the scalar product of p and q.
func (p Pair) Dot(q Pair) float64 {
	return p.X()*q.X() + p.Y()*q.Y()
}

// Cross is the z-component of the cross product p × q.
func (p Pair) Cross(q Pair) float64 {
	return p.X()*q.Y() - p.Y()*q.X()
}

// Unit returns p normalized to length 1. The zero vector stays zero.
func (p Pair) Unit() Pair {
	l := p.Abs()
	if l == 0 {
		return p
	}
	return P(p.X()/l, p.Y()/l)
}

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Pair) Lerp(q Pair, t float64) Pair {
	return P(p.X()+(q.X()-p.X())*t, p.Y()+(q.Y()-p.Y())*t)
}

// Mul scales p by a, without zapping.
func (p Pair) Mul(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a).Zap()
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	T := Translation(v)
	return T.Transform(p).Zap()
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	T := Rotation(theta)
	return T.Transform(p).Zap()
}

// IsNaN is a predicate: does one of the coordinates not denote a number?
func (p Pair) IsNaN() bool {
	return math.IsNaN(p.X()) || math.IsNaN(p.Y()) || math.IsInf(p.X(), 0) || math.IsInf(p.Y(), 0)
}
