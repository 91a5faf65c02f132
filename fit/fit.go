/*
Package fit approximates digitized points by cubic Bézier splines.

The algorithm is the one by Philip J. Schneider, from "An Algorithm for
Automatically Fitting Digitized Curves", Graphics Gems, 1990: the points are
parametrized by chord length, a single cubic segment is fitted by least
squares under fixed end tangents, and the fit is improved by Newton-Raphson
reparametrization. If the error is still too large, the points are split at
the point of maximum error and both halves are fitted recursively.

Points are first split into runs at corners, where the polyline turns by
more than 90 degrees. Runs are fitted independently and meet at the corner
point, without tangent continuity.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/bezier"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto.fit'
func tracer() tracing.Trace {
	return tracing.Select("roto.fit")
}

// ErrNoPoints is returned for an empty point list.
var ErrNoPoints = errors.New("no points to fit")

// DuplicateDistance is the distance below which consecutive points are
// considered equal.
const DuplicateDistance = 1e-4

// DefaultMaxIterations is the number of reparametrization steps tried
// before a run is split.
const DefaultMaxIterations = 4

// CurveFitter fits cubic splines to digitized points. Tolerance is the
// maximum squared distance of a point from the fitted curve. A CurveFitter
// holds no state between calls and may be used concurrently.
type CurveFitter struct {
	Tolerance     float64
	MaxIterations int // 0 means DefaultMaxIterations
}

// New creates a curve fitter for a squared-error tolerance.
func New(tolerance float64) *CurveFitter {
	return &CurveFitter{Tolerance: tolerance, MaxIterations: DefaultMaxIterations}
}

// Fit is a shortcut for New(tolerance).Fit(points).
func Fit(points []roto.Pair, tolerance float64) ([]bezier.Vertex, error) {
	return New(tolerance).Fit(points)
}

// segment is a fitted cubic.
type segment [4]roto.Pair

// Fit approximates points by a spline. The vertices returned carry absolute
// tangent handles; the first vertex has its left handle and the last vertex
// its right handle at the point itself.
func (cf *CurveFitter) Fit(points []roto.Pair) ([]bezier.Vertex, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %w", roto.ErrInvalidArgument, ErrNoPoints)
	}
	if cf.Tolerance < 0 || math.IsNaN(cf.Tolerance) {
		return nil, fmt.Errorf("%w: tolerance must not be negative, is %g", roto.ErrInvalidArgument, cf.Tolerance)
	}
	d := dedupe(points)
	if len(d) == 1 {
		return []bezier.Vertex{bezier.V(d[0])}, nil
	}
	var segs []segment
	for _, run := range corners(d) {
		last := len(run) - 1
		t1 := (run[1] - run[0]).Unit()
		t2 := (run[last-1] - run[last]).Unit()
		segs = append(segs, cf.fitCubic(run, t1, t2)...)
	}
	tracer().Debugf("fitted %d points with %d segments", len(d), len(segs))
	return vertices(segs), nil
}

// vertices joins segments into a spline. Consecutive segments share their
// junction point, which becomes a single vertex.
func vertices(segs []segment) []bezier.Vertex {
	vs := []bezier.Vertex{bezier.V(segs[0][0])}
	for _, s := range segs {
		vs[len(vs)-1].Right = s[1]
		vs = append(vs, bezier.Vertex{P: s[3], Left: s[2], Right: s[3]})
	}
	return vs
}

func dedupe(points []roto.Pair) []roto.Pair {
	d := []roto.Pair{points[0]}
	for _, p := range points[1:] {
		if p.Dist(d[len(d)-1]) >= DuplicateDistance {
			d = append(d, p)
		}
	}
	return d
}

// corners splits d into runs at points where the polyline turns by more
// than 90 degrees. Adjacent runs share the corner point.
func corners(d []roto.Pair) [][]roto.Pair {
	var runs [][]roto.Pair
	start := 0
	for i := 1; i < len(d)-1; i++ {
		u, v := d[i]-d[i-1], d[i+1]-d[i]
		ratio := u.Dot(v) / (u.Abs() * v.Abs())
		ratio = math.Max(-1, math.Min(1, ratio))
		if math.Acos(ratio) > math.Pi/2 {
			tracer().Debugf("corner at point %d", i)
			runs = append(runs, d[start:i+1])
			start = i
		}
	}
	return append(runs, d[start:])
}

// fitCubic fits d, with at least 2 points, by one or more segments.
func (cf *CurveFitter) fitCubic(d []roto.Pair, t1, t2 roto.Pair) []segment {
	last := len(d) - 1
	if len(d) == 2 {
		dist := d[0].Dist(d[1]) / 3
		return []segment{{d[0], d[0] + t1.Mul(dist), d[1] + t2.Mul(dist), d[1]}}
	}
	u := chordLength(d)
	bez := generate(d, u, t1, t2)
	maxErr, split := maxError(d, bez, u)
	if maxErr <= cf.Tolerance {
		return []segment{bez}
	}
	iterations := cf.MaxIterations
	if iterations == 0 {
		iterations = DefaultMaxIterations
	}
	for i := 0; i < iterations; i++ {
		u = reparametrize(d, u, bez)
		bez = generate(d, u, t1, t2)
		maxErr, split = maxError(d, bez, u)
		tracer().Debugf("newton iteration %d: error %g", i, maxErr)
		if maxErr <= cf.Tolerance {
			return []segment{bez}
		}
	}
	tc := (d[split-1] - d[split+1]).Unit()
	if tc == 0 {
		tc = t1.Unit()
	}
	left := cf.fitCubic(d[:split+1], t1, tc)
	right := cf.fitCubic(d[split:last+1], -tc, t2)
	return append(left, right...)
}

// chordLength assigns parameters in [0,1] to d by relative chord length.
func chordLength(d []roto.Pair) []float64 {
	u := make([]float64, len(d))
	for i := 1; i < len(d); i++ {
		u[i] = u[i-1] + d[i].Dist(d[i-1])
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	return u
}

// Bernstein polynomials of degree 3.
func b0(u float64) float64 { return (1 - u) * (1 - u) * (1 - u) }
func b1(u float64) float64 { return 3 * u * (1 - u) * (1 - u) }
func b2(u float64) float64 { return 3 * u * u * (1 - u) }
func b3(u float64) float64 { return u * u * u }

// generate solves the normal equations for the tangent lengths of a single
// segment through d[0] and d[last], with end tangents t1 and t2.
func generate(d []roto.Pair, u []float64, t1, t2 roto.Pair) segment {
	first, last := d[0], d[len(d)-1]
	var c [2][2]float64
	var x [2]float64
	for i, ui := range u {
		a1, a2 := t1.Mul(b1(ui)), t2.Mul(b2(ui))
		c[0][0] += a1.Dot(a1)
		c[0][1] += a1.Dot(a2)
		c[1][1] += a2.Dot(a2)
		tmp := d[i] - (first.Mul(b0(ui)+b1(ui)) + last.Mul(b2(ui)+b3(ui)))
		x[0] += a1.Dot(tmp)
		x[1] += a2.Dot(tmp)
	}
	c[1][0] = c[0][1]
	detC := c[0][0]*c[1][1] - c[1][0]*c[0][1]
	var alphaL, alphaR float64
	if detC != 0 {
		alphaL = (x[0]*c[1][1] - x[1]*c[0][1]) / detC
		alphaR = (c[0][0]*x[1] - c[1][0]*x[0]) / detC
	}
	chord := first.Dist(last)
	if eps := 1e-6 * chord; alphaL < eps || alphaR < eps {
		alphaL, alphaR = chord/3, chord/3
	}
	return segment{first, first + t1.Mul(alphaL), last + t2.Mul(alphaR), last}
}

// maxError returns the maximum squared distance of d from bez and the
// index of the point where it occurs.
func maxError(d []roto.Pair, bez segment, u []float64) (float64, int) {
	split := len(d) / 2
	maxDist := 0.0
	for i := 1; i < len(d)-1; i++ {
		dist := (bezier.Eval(bez[0], bez[1], bez[2], bez[3], u[i]) - d[i]).Abs2()
		if dist >= maxDist {
			maxDist, split = dist, i
		}
	}
	return maxDist, split
}

// reparametrize improves u by one Newton-Raphson step per point.
func reparametrize(d []roto.Pair, u []float64, bez segment) []float64 {
	// first and second derivative control points
	var q1 [3]roto.Pair
	var q2 [2]roto.Pair
	for i := range q1 {
		q1[i] = (bez[i+1] - bez[i]).Mul(3)
	}
	for i := range q2 {
		q2[i] = (q1[i+1] - q1[i]).Mul(2)
	}
	up := make([]float64, len(u))
	for i, ui := range u {
		t := 1 - ui
		q := bezier.Eval(bez[0], bez[1], bez[2], bez[3], ui)
		dq := q1[0].Mul(t*t) + q1[1].Mul(2*t*ui) + q1[2].Mul(ui*ui)
		ddq := q2[0].Mul(t) + q2[1].Mul(ui)
		num := (q - d[i]).Dot(dq)
		den := dq.Dot(dq) + (q - d[i]).Dot(ddq)
		up[i] = ui
		if den != 0 {
			up[i] = math.Max(0, math.Min(1, ui-num/den))
		}
	}
	return up
}
