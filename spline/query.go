package spline

import (
	"math"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/bezier"
	"github.com/npillmayer/roto/polygon"
)

// nearestAccuracy is the accuracy of nearest-point searches, in pixels.
const nearestAccuracy = 1e-3

// closed tells whether the outline of sh includes the segment from the last
// vertex back to the first.
func (s *Spline) closed(sh shape) bool {
	return sh.finished && !s.open
}

// vertices samples list at time and transforms the result by m.
func vertices(list []*ControlPoint, time float64, m roto.AT) []bezier.Vertex {
	vs := make([]bezier.Vertex, len(list))
	for i, cp := range list {
		vs[i] = cp.Vertex(time, m)
	}
	return vs
}

// canvas returns the shape of view together with the shape transform, in a
// single snapshot.
func (s *Spline) canvas(view int) (shape, roto.AT) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return *s.shapes[s.viewKey(view)], s.transform
}

// IsClockwiseOriented tells the orientation of the main outline at time, in
// canvas space. The closing segment always counts.
func (s *Spline) IsClockwiseOriented(time float64, view int) bool {
	sh, m := s.canvas(view)
	return bezier.IsClockwise(vertices(sh.points, time, m), true)
}

// EvaluateAtTime flattens the main outline at time. opt.Closed and
// opt.Clockwise are derived from the shape. If opt.Transform is set, it is
// applied after the shape transform.
func (s *Spline) EvaluateAtTime(time float64, view int, opt bezier.Options) ([]bezier.ParametricPoint, roto.Rect, error) {
	sh, m := s.canvas(view)
	vs := vertices(sh.points, time, m)
	opt.Closed = s.closed(sh)
	opt.Clockwise = bezier.IsClockwise(vs, true)
	return bezier.Flatten(vs, opt)
}

// EvaluateFeatherAtTime flattens the feather outline at time. With
// applyFeatherDistance, every sample of the outline is moved along its
// normal by the feather distance of the shape, towards the outside as told
// by the orientation of the main outline.
func (s *Spline) EvaluateFeatherAtTime(applyFeatherDistance bool, time float64, view int,
	opt bezier.Options) ([]bezier.ParametricPoint, roto.Rect, error) {
	//
	sh, m := s.canvas(view)
	opt.Closed = s.closed(sh)
	opt.Clockwise = bezier.IsClockwise(vertices(sh.points, time, m), true)
	opt.FeatherDistance = 0
	if applyFeatherDistance {
		opt.FeatherDistance = s.featherDistance.ValueAt(time)
	}
	return bezier.Flatten(vertices(sh.feathers, time, m), opt)
}

// ExpandedFeatherPoints returns the feather points at time, in canvas space,
// pushed outwards by the feather distance of the shape.
func (s *Spline) ExpandedFeatherPoints(time float64, view int) []roto.Pair {
	sh, m := s.canvas(view)
	return s.expand(sh, time, m)
}

func (s *Spline) expand(sh shape, time float64, m roto.AT) []roto.Pair {
	n := len(sh.points)
	fd := s.featherDistance.ValueAt(time)
	dist := roto.P(fd, fd)
	clockwise := bezier.IsClockwise(vertices(sh.points, time, m), true)
	raw := vertices(sh.feathers, time, nil)
	out := make([]roto.Pair, n)
	for i := range n {
		cp := m.Transform(sh.points[i].PositionAt(time))
		fp := m.Transform(raw[i].P)
		prev, next := raw[(i-1+n)%n], raw[(i+1)%n]
		out[i] = bezier.ExpandToFeatherDistance(cp, fp, dist, clockwise, m, prev, raw[i], next)
	}
	return out
}

// GetBoundingBox returns the bounds of the shape at time, in canvas space.
// Open strokes are padded by half the brush size plus one pixel. Closed
// shapes include the feather outline, padded by the feather distance.
func (s *Spline) GetBoundingBox(time float64, view int) roto.Rect {
	sh, m := s.canvas(view)
	if len(sh.points) == 0 {
		return roto.NullRect()
	}
	bbox := bezier.SegmentListBbox(vertices(sh.points, time, nil), 0, m)
	if s.open {
		pad := s.brushSize.ValueAt(time)/2 + 1
		return bbox.Pad(pad, pad)
	}
	fd := s.featherDistance.ValueAt(time)
	return bbox.Merge(bezier.SegmentListBbox(vertices(sh.feathers, time, nil), fd, m))
}

// CurveHit is a point found on the outline of a shape.
type CurveHit struct {
	Index   int       // index of the vertex starting the segment
	Feather bool      // hit on the feather outline
	T       float64   // segment parameter
	P       roto.Pair // point on the segment, in canvas space
	Dist    float64   // distance from the query position
}

// within is the box test used for points: |dx| and |dy| at most acceptance.
func within(p, pos roto.Pair, acceptance float64) bool {
	d := p - pos
	return math.Abs(d.X()) <= acceptance && math.Abs(d.Y()) <= acceptance
}

// IsPointOnCurve tests whether pos, in canvas space, lies within acceptance
// of the main or the feather outline at time. The main outline is tested
// first for every segment. Unfinished curves have no closing segment.
func (s *Spline) IsPointOnCurve(pos roto.Pair, acceptance float64, time float64, view int) (CurveHit, bool) {
	sh, m := s.canvas(view)
	vs := vertices(sh.points, time, m)
	fs := vertices(sh.feathers, time, m)
	if len(vs) == 1 {
		for k, v := range []bezier.Vertex{vs[0], fs[0]} {
			if within(v.P, pos, acceptance) {
				return CurveHit{Feather: k == 1, P: v.P, Dist: v.P.Dist(pos)}, true
			}
		}
		return CurveHit{}, false
	}
	for i := 0; i < bezier.SegmentCount(len(vs), s.closed(sh)); i++ {
		for k, list := range [][]bezier.Vertex{vs, fs} {
			p0, p1, p2, p3 := bezier.Segment(list, i)
			if t, ok := bezier.SegmentMeetsPoint(p0, p1, p2, p3, pos, acceptance); ok {
				p := bezier.Eval(p0, p1, p2, p3, t)
				tracer().Debugf("point %v on segment %d (feather=%v) at t=%g", pos, i, k == 1, t)
				return CurveHit{Index: i, Feather: k == 1, T: t, P: p, Dist: p.Dist(pos)}, true
			}
		}
	}
	return CurveHit{}, false
}

// NearestOnCurve finds the point of the main outline closest to pos, in
// canvas space. It returns false for an empty shape.
func (s *Spline) NearestOnCurve(pos roto.Pair, time float64, view int) (CurveHit, bool) {
	sh, m := s.canvas(view)
	vs := vertices(sh.points, time, m)
	switch len(vs) {
	case 0:
		return CurveHit{}, false
	case 1:
		return CurveHit{P: vs[0].P, Dist: vs[0].P.Dist(pos)}, true
	}
	best := CurveHit{Dist: math.Inf(1)}
	for i := 0; i < bezier.SegmentCount(len(vs), s.closed(sh)); i++ {
		p0, p1, p2, p3 := bezier.Segment(vs, i)
		p, t, d := bezier.NearestOnSegment(p0, p1, p2, p3, pos, nearestAccuracy)
		if d < best.Dist {
			best = CurveHit{Index: i, T: t, P: p, Dist: d}
		}
	}
	return best, true
}

// Preference orders the candidates of IsNearbyControlPoint when both a
// control point and a feather point are in reach.
type Preference int8

// Preferences. WhateverFirst returns the first hit in vertex order, testing
// the control point of a vertex before its feather point.
const (
	WhateverFirst Preference = iota
	ControlPointFirst
	FeatherFirst
)

// IsNearbyControlPoint searches for a control or feather point within
// acceptance of pos, in canvas space. It returns the point found, its
// counterpart and their index.
func (s *Spline) IsNearbyControlPoint(pos roto.Pair, acceptance float64, time float64, view int,
	pref Preference) (primary, counterpart *ControlPoint, index int, ok bool) {
	//
	sh, m := s.canvas(view)
	cpHit, fpHit := -1, -1
	for i := range sh.points {
		cpNear := cpHit < 0 && within(m.Transform(sh.points[i].PositionAt(time)), pos, acceptance)
		fpNear := fpHit < 0 && within(m.Transform(sh.feathers[i].PositionAt(time)), pos, acceptance)
		if cpNear {
			cpHit = i
		}
		if fpNear {
			fpHit = i
		}
		if pref == WhateverFirst && (cpNear || fpNear) {
			if cpNear {
				return sh.points[i], sh.feathers[i], i, true
			}
			return sh.feathers[i], sh.points[i], i, true
		}
	}
	useFeather := fpHit >= 0 && (pref == FeatherFirst || cpHit < 0)
	switch {
	case useFeather:
		return sh.feathers[fpHit], sh.points[fpHit], fpHit, true
	case cpHit >= 0:
		return sh.points[cpHit], sh.feathers[cpHit], cpHit, true
	}
	return nil, nil, -1, false
}

// FindControlPointNearby returns the first control point within acceptance
// of pos.
func (s *Spline) FindControlPointNearby(pos roto.Pair, acceptance float64, time float64, view int) (*ControlPoint, int, bool) {
	sh, m := s.canvas(view)
	for i, cp := range sh.points {
		if within(m.Transform(cp.PositionAt(time)), pos, acceptance) {
			return cp, i, true
		}
	}
	return nil, -1, false
}

// FindFeatherPointNearby returns the first feather point within acceptance
// of pos.
func (s *Spline) FindFeatherPointNearby(pos roto.Pair, acceptance float64, time float64, view int) (*ControlPoint, int, bool) {
	sh, m := s.canvas(view)
	for i, fp := range sh.feathers {
		if within(m.Transform(fp.PositionAt(time)), pos, acceptance) {
			return fp, i, true
		}
	}
	return nil, -1, false
}

// SelectedPoint is a result of an area selection.
type SelectedPoint struct {
	Index       int
	Point       *ControlPoint // the selected point
	Counterpart *ControlPoint // the other point of the vertex
}

// ControlPointsWithinRect selects the points inside r, in canvas space.
// A feather point coinciding with a selected control point is not reported
// separately.
func (s *Spline) ControlPointsWithinRect(r roto.Rect, time float64, view int, which Selection) []SelectedPoint {
	return s.selectPoints(r.Contains, time, view, which)
}

// ControlPointsWithin selects the points inside a lasso polygon, in canvas
// space.
func (s *Spline) ControlPointsWithin(lasso *polygon.Polygon, time float64, view int, which Selection) []SelectedPoint {
	return s.selectPoints(lasso.Contains, time, view, which)
}

func (s *Spline) selectPoints(inside func(roto.Pair) bool, time float64, view int, which Selection) []SelectedPoint {
	sh, m := s.canvas(view)
	var sel []SelectedPoint
	for i := range sh.points {
		cp, fp := sh.points[i], sh.feathers[i]
		cpIn := which != FeatherOnly && inside(m.Transform(cp.PositionAt(time)))
		if cpIn {
			sel = append(sel, SelectedPoint{Index: i, Point: cp, Counterpart: fp})
		}
		if which == ControlOnly || (cpIn && cp.EqualsAtTime(fp, time)) {
			continue
		}
		if inside(m.Transform(fp.PositionAt(time))) {
			sel = append(sel, SelectedPoint{Index: i, Point: fp, Counterpart: cp})
		}
	}
	return sel
}

// ContainsPoint tests whether pos, in canvas space, lies inside the
// flattened main outline at time. Only closed shapes contain points.
func (s *Spline) ContainsPoint(pos roto.Pair, time float64, view int) bool {
	sh, m := s.canvas(view)
	if !s.closed(sh) || len(sh.points) < 3 {
		return false
	}
	opt := bezier.DefaultOptions()
	opt.Closed = true
	points, bbox, err := bezier.Flatten(vertices(sh.points, time, m), opt)
	if err != nil || !bbox.Contains(pos) {
		return false
	}
	outline := make([]roto.Pair, len(points))
	for i, pp := range points {
		outline[i] = pp.P
	}
	return polygon.FromPoints(outline).Contains(pos)
}

// LeftDerivativeAt returns the derivative of the main outline arriving at
// the vertex at index, in canvas space. The first vertex of an open outline
// has none.
func (s *Spline) LeftDerivativeAt(index int, time float64, view int) (roto.Pair, bool) {
	sh, m := s.canvas(view)
	n := len(sh.points)
	if n < 2 || index < 0 || index >= n || (index == 0 && !s.closed(sh)) {
		return 0, false
	}
	prev := sh.points[(index-1+n)%n].Vertex(time, m)
	return bezier.LeftDerivative(prev, sh.points[index].Vertex(time, m)), true
}

// RightDerivativeAt returns the derivative of the main outline leaving the
// vertex at index, in canvas space. The last vertex of an open outline has
// none.
func (s *Spline) RightDerivativeAt(index int, time float64, view int) (roto.Pair, bool) {
	sh, m := s.canvas(view)
	n := len(sh.points)
	if n < 2 || index < 0 || index >= n || (index == n-1 && !s.closed(sh)) {
		return 0, false
	}
	next := sh.points[(index+1)%n].Vertex(time, m)
	return bezier.RightDerivative(sh.points[index].Vertex(time, m), next), true
}

// SVGPath renders the main outline at time as SVG path data, in canvas
// space.
func (s *Spline) SVGPath(time float64, view int) string {
	sh, m := s.canvas(view)
	return bezier.SVG(vertices(sh.points, time, m), s.closed(sh))
}
