/*
Package polygon provides closed polygons, built from one or more contours.

Polygons are thin wrappers around polyclip-go. Roto shapes use them for
containment tests of flattened outlines and for selection areas.

A polygon is built knot by knot, similar to paths:

	pg := NullPolygon().Knot(roto.P(0, 0)).Knot(roto.P(1, 3)).Knot(roto.P(3, 0)).Cycle()

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"fmt"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/roto"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto.polygon'
func tracer() tracing.Trace {
	return tracing.Select("roto.polygon")
}

// Polygon is a set of closed contours. The contour under construction is
// kept separately until it is closed by Cycle.
type Polygon struct {
	pg      polyclip.Polygon
	pending polyclip.Contour
}

// NullPolygon creates an empty polygon.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// FromPoints creates a polygon with a single contour through points.
func FromPoints(points []roto.Pair) *Polygon {
	pg := NullPolygon()
	for _, p := range points {
		pg.Knot(p)
	}
	return pg.Cycle()
}

// Box creates a rectangle with corners p and q.
func Box(p, q roto.Pair) *Polygon {
	r := roto.R(p, q)
	return NullPolygon().
		Knot(roto.P(r.X1, r.Y1)).Knot(roto.P(r.X2, r.Y1)).
		Knot(roto.P(r.X2, r.Y2)).Knot(roto.P(r.X1, r.Y2)).Cycle()
}

// Knot appends a point to the current contour.
func (pg *Polygon) Knot(p roto.Pair) *Polygon {
	pg.pending.Add(point(p))
	return pg
}

// Cycle closes the current contour. Contours with less than 3 points are
// dropped.
func (pg *Polygon) Cycle() *Polygon {
	if len(pg.pending) >= 3 {
		pg.pg.Add(pg.pending)
	} else if len(pg.pending) > 0 {
		tracer().Debugf("dropping degenerate contour of %d points", len(pg.pending))
	}
	pg.pending = nil
	return pg
}

// N returns the number of vertices of all closed contours.
func (pg *Polygon) N() int {
	return pg.pg.NumVertices()
}

// Contours returns the number of closed contours.
func (pg *Polygon) Contours() int {
	return len(pg.pg)
}

// IsEmpty is true for polygons without closed contours.
func (pg *Polygon) IsEmpty() bool {
	return len(pg.pg) == 0
}

// BoundingBox returns the bounds of all closed contours.
func (pg *Polygon) BoundingBox() roto.Rect {
	if pg.IsEmpty() {
		return roto.NullRect()
	}
	bb := pg.pg.BoundingBox()
	return roto.R(pair(bb.Min), pair(bb.Max))
}

// Contains tests p by the even-odd rule: p is inside if an odd number of
// contours contain it.
func (pg *Polygon) Contains(p roto.Pair) bool {
	if !pg.BoundingBox().Contains(p) {
		return false
	}
	inside := false
	for _, c := range pg.pg {
		if c.Contains(point(p)) {
			inside = !inside
		}
	}
	return inside
}

// Intersection returns the area common to pg and other.
func (pg *Polygon) Intersection(other *Polygon) *Polygon {
	return &Polygon{pg: pg.pg.Construct(polyclip.INTERSECTION, other.pg)}
}

// Union returns the area covered by pg or other.
func (pg *Polygon) Union(other *Polygon) *Polygon {
	return &Polygon{pg: pg.pg.Construct(polyclip.UNION, other.pg)}
}

// Overlaps is true if pg and other share an area.
func (pg *Polygon) Overlaps(other *Polygon) bool {
	if pg.IsEmpty() || other.IsEmpty() {
		return false
	}
	if !pg.pg.BoundingBox().Overlaps(other.pg.BoundingBox()) {
		return false
	}
	return !pg.Intersection(other).IsEmpty()
}

// AsString returns a textual representation of a polygon, contour by
// contour, e.g. "(0,0)--(1,3)--(3,0)--cycle".
func AsString(pg *Polygon) string {
	if pg == nil {
		return "<nil>"
	}
	var b strings.Builder
	for i, c := range pg.pg {
		if i > 0 {
			b.WriteString(" & ")
		}
		for _, p := range c {
			fmt.Fprintf(&b, "(%.4g,%.4g)--", p.X, p.Y)
		}
		b.WriteString("cycle")
	}
	return b.String()
}

func point(p roto.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

func pair(p polyclip.Point) roto.Pair {
	return roto.P(p.X, p.Y)
}
