package bezier

import (
	"math"

	"github.com/npillmayer/roto"
	"honnef.co/go/curve"
)

// bounds1D finds the range of a cubic Bézier in one dimension, by checking
// the end points and the roots of the derivative within (0,1).
func bounds1D(p0, p1, p2, p3 float64) (lo, hi float64) {
	lo, hi = math.Min(p0, p3), math.Max(p0, p3)
	// derivative: a·t² + b·t + c
	a := 3 * (p3 - 3*p2 + 3*p1 - p0)
	b := 6 * (p2 - 2*p1 + p0)
	c := 3 * (p1 - p0)
	update := func(t float64) {
		if t <= 0 || t >= 1 {
			return
		}
		u := 1 - t
		v := u*u*u*p0 + 3*t*u*u*p1 + 3*t*t*u*p2 + t*t*t*p3
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if a == 0 {
		if b != 0 {
			update(-c / b)
		}
		return
	}
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
	case disc == 0:
		update(-b / (2 * a))
	default:
		sq := math.Sqrt(disc)
		update((-b + sq) / (2 * a))
		update((-b - sq) / (2 * a))
	}
	return
}

// SegmentBounds returns the tight axis-aligned bounding box of a cubic
// segment.
func SegmentBounds(p0, p1, p2, p3 roto.Pair) roto.Rect {
	var r roto.Rect
	r.X1, r.X2 = bounds1D(p0.X(), p1.X(), p2.X(), p3.X())
	r.Y1, r.Y2 = bounds1D(p0.Y(), p1.Y(), p2.Y(), p3.Y())
	return r
}

// ExactSegmentBounds computes the same box as SegmentBounds by the extrema
// search of package curve. Flatten uses it for Options.ControlBbox.
func ExactSegmentBounds(p0, p1, p2, p3 roto.Pair) roto.Rect {
	r := toCubic(p0, p1, p2, p3).BoundingBox()
	return roto.Rect{X1: r.X0, Y1: r.Y0, X2: r.X1, Y2: r.Y1}
}

// ControlPolygonBbox returns the bounds of the raw control polygon of a
// segment. It always contains the segment.
func ControlPolygonBbox(p0, p1, p2, p3 roto.Pair) roto.Rect {
	return roto.R(p0, p3).MergePoint(p1).MergePoint(p2)
}

// SegmentListBbox returns the bounding box of all segments of a spline,
// transformed by m and padded by the absolute value of featherDistance.
// The list is treated as closed, as for a filled shape; a single vertex
// yields a degenerate box at its position.
//
// Padding accounts for feather offsets without evaluating them: a negative
// feather distance must not shrink the box either.
func SegmentListBbox(vertices []Vertex, featherDistance float64, m roto.AT) roto.Rect {
	if len(vertices) == 0 {
		return roto.NullRect()
	}
	if len(vertices) == 1 {
		p := m.Transform(vertices[0].P)
		return roto.R(p, p)
	}
	tv := make([]Vertex, len(vertices))
	for i, v := range vertices {
		tv[i] = v.Transformed(m)
	}
	bbox := roto.NullRect()
	for i := range tv {
		bbox = bbox.Merge(SegmentBounds(Segment(tv, i)))
	}
	fd := math.Abs(featherDistance)
	return bbox.Pad(fd, fd)
}

func toPoint(p roto.Pair) curve.Point {
	return curve.Pt(p.X(), p.Y())
}

func fromPoint(p curve.Point) roto.Pair {
	return roto.P(p.X, p.Y)
}

func toCubic(p0, p1, p2, p3 roto.Pair) curve.CubicBez {
	return curve.CubicBez{P0: toPoint(p0), P1: toPoint(p1), P2: toPoint(p2), P3: toPoint(p3)}
}
