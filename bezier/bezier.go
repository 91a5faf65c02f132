/*
Package bezier evaluates cubic Bézier splines: point evaluation, de Casteljau
subdivision, flattening into polylines, bounds, orientation and feather
geometry.

All functions in this package are stateless and operate on snapshots of
vertices, sampled at a given time by package spline. They may be called
concurrently from any number of goroutines.

A spline is a sequence of vertices. Vertex i and vertex i+1 span segment i,
using P and Right of vertex i and Left and P of vertex i+1 as the four
control points:

	P0 = v[i].P   P1 = v[i].Right   P2 = v[i+1].Left   P3 = v[i+1].P

Closed splines have an additional segment from the last vertex back to the
first one.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"fmt"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto.bezier'
func tracer() tracing.Trace {
	return tracing.Select("roto.bezier")
}

// Vertex is a spline vertex with its two tangent handles, given as absolute
// positions.
type Vertex struct {
	P     roto.Pair // position
	Left  roto.Pair // incoming tangent handle
	Right roto.Pair // outgoing tangent handle
}

// V creates a vertex with coincident tangent handles, i.e. a corner.
func V(p roto.Pair) Vertex {
	return Vertex{P: p, Left: p, Right: p}
}

// Transformed returns v with all three points transformed by m.
func (v Vertex) Transformed(m roto.AT) Vertex {
	return Vertex{P: m.Transform(v.P), Left: m.Transform(v.Left), Right: m.Transform(v.Right)}
}

// Scaled returns v with all coordinates multiplied component-wise by s.
func (v Vertex) Scaled(s roto.Pair) Vertex {
	mul := func(p roto.Pair) roto.Pair {
		return roto.P(p.X()*s.X(), p.Y()*s.Y())
	}
	return Vertex{P: mul(v.P), Left: mul(v.Left), Right: mul(v.Right)}
}

func (v Vertex) String() string {
	return fmt.Sprintf("%v<%v>%v", v.Left, v.P, v.Right)
}

// ParametricPoint is a point of a flattened spline. T is the parametric
// value of the point on the whole spline, i.e. the index of the originating
// segment plus the local parameter in [0,1].
type ParametricPoint struct {
	P       roto.Pair
	T       float64
	Segment int // index of the originating segment
}

// Local returns the parameter of pp local to its segment.
func (pp ParametricPoint) Local() float64 {
	return pp.T - float64(pp.Segment)
}

// Algorithm selects the flattening method.
type Algorithm int8

const (
	// Iterative samples every segment at a fixed number of uniformly spaced
	// parameters.
	Iterative Algorithm = iota
	// Recursive subdivides every segment adaptively until it is flat.
	Recursive
)

func (a Algorithm) String() string {
	if a == Recursive {
		return "recursive"
	}
	return "iterative"
}

// AutoPointCount requests an automatically computed number of samples per
// segment for the iterative algorithm.
const AutoPointCount = -1

// DefaultErrorScale is the flatness scale for adaptive subdivision.
// Greater values produce smoother polylines.
const DefaultErrorScale = 1.0

// MaxRecursion is the depth limit of adaptive subdivision.
var MaxRecursion = 32

// SegmentCount returns the number of segments a spline of n vertices has.
func SegmentCount(n int, closed bool) int {
	switch {
	case n < 2:
		return 0
	case closed:
		return n
	}
	return n - 1
}

// Segment returns the four control points of segment i of vertices.
// The caller is responsible for i being a valid segment index.
func Segment(vertices []Vertex, i int) (p0, p1, p2, p3 roto.Pair) {
	cur := vertices[i]
	next := vertices[(i+1)%len(vertices)]
	return cur.P, cur.Right, next.Left, next.P
}

// Eval evaluates a cubic Bézier segment at parameter t, using the Bernstein
// form.
func Eval(p0, p1, p2, p3 roto.Pair, t float64) roto.Pair {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * t * u * u
	b2 := 3 * t * t * u
	b3 := t * t * t
	return roto.P(
		b0*p0.X()+b1*p1.X()+b2*p2.X()+b3*p3.X(),
		b0*p0.Y()+b1*p1.Y()+b2*p2.Y()+b3*p3.Y(),
	)
}

// Subdivision holds the intermediate points of a de Casteljau split of a
// segment at some parameter t.
//
// The left half of the segment is (P0, P01, P012, Dest), the right half is
// (Dest, P123, P23, P3).
type Subdivision struct {
	P01, P12, P23 roto.Pair // first level
	P012, P123    roto.Pair // second level
	Dest          roto.Pair // point on the curve
}

// Split subdivides a segment at parameter t by de Casteljau's algorithm.
func Split(p0, p1, p2, p3 roto.Pair, t float64) Subdivision {
	var s Subdivision
	s.P01 = p0.Lerp(p1, t)
	s.P12 = p1.Lerp(p2, t)
	s.P23 = p2.Lerp(p3, t)
	s.P012 = s.P01.Lerp(s.P12, t)
	s.P123 = s.P12.Lerp(s.P23, t)
	s.Dest = s.P012.Lerp(s.P123, t)
	return s
}

// ControlPolygonLength is the summed length of the three legs
// P0-P1, P1-P2 and P2-P3.
func ControlPolygonLength(p0, p1, p2, p3 roto.Pair) float64 {
	return p0.Dist(p1) + p1.Dist(p2) + p2.Dist(p3)
}
