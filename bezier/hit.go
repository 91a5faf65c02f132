package bezier

import (
	"math"

	"github.com/npillmayer/roto"
	"honnef.co/go/curve"
)

// SegmentMeetsPoint samples a segment and reports whether one of the samples
// lies within distance of pos. It returns the parameter of the nearest such
// sample.
//
// The sample spacing is chosen so that consecutive samples are about
// distance apart along the control polygon. A distance of 0 selects the
// sampling of IterativeSegment with AutoPointCount, so that points of a
// flattened spline are hit exactly.
func SegmentMeetsPoint(p0, p1, p2, p3 roto.Pair, pos roto.Pair, distance float64) (float64, bool) {
	length := ControlPolygonLength(p0, p1, p2, p3)
	var n int
	switch {
	case distance <= 0:
		n = AutoCount(p0, p1, p2, p3)
	case length == 0:
		n = 2
	default:
		n = int(math.Ceil(length/distance)) + 1
	}
	incr := 1 / float64(n-1)
	sq := distance * distance
	minSq := math.Inf(1)
	tmin := -1.0
	for i := 0; i < n; i++ {
		t := math.Min(float64(i)*incr, 1)
		if i == n-1 {
			t = 1
		}
		d := (Eval(p0, p1, p2, p3, t) - pos).Abs2()
		if d <= sq && d < minSq {
			minSq, tmin = d, t
		}
	}
	return tmin, minSq <= sq
}

// NearestOnSegment finds the point on a segment closest to pos. It returns
// the point, its parameter and its distance from pos.
func NearestOnSegment(p0, p1, p2, p3 roto.Pair, pos roto.Pair, accuracy float64) (roto.Pair, float64, float64) {
	c := toCubic(p0, p1, p2, p3)
	distSq, t := c.Nearest(toPoint(pos), accuracy)
	return fromPoint(c.Eval(t)), t, math.Sqrt(distSq)
}

// SegmentArclen is the arc length of a segment, up to accuracy.
func SegmentArclen(p0, p1, p2, p3 roto.Pair, accuracy float64) float64 {
	return toCubic(p0, p1, p2, p3).Arclen(accuracy)
}

// ArclenPointCount derives a sample count for a segment from its arc length,
// so that consecutive samples are about spacing apart. It never returns
// less than 2.
func ArclenPointCount(p0, p1, p2, p3 roto.Pair, spacing float64) int {
	if spacing <= 0 {
		return AutoCount(p0, p1, p2, p3)
	}
	l := SegmentArclen(p0, p1, p2, p3, spacing/10)
	return max(int(math.Ceil(l/spacing))+1, 2)
}

// BezPath converts a spline into a path of package curve, e.g. for export.
func BezPath(vertices []Vertex, closed bool) curve.BezPath {
	if len(vertices) == 0 {
		return nil
	}
	path := curve.BezPath{curve.MoveTo(toPoint(vertices[0].P))}
	for i := 0; i < SegmentCount(len(vertices), closed); i++ {
		_, p1, p2, p3 := Segment(vertices, i)
		path = append(path, curve.CubicTo(toPoint(p1), toPoint(p2), toPoint(p3)))
	}
	if closed {
		path = append(path, curve.ClosePath())
	}
	return path
}

// SVG renders a spline as SVG path data.
func SVG(vertices []Vertex, closed bool) string {
	return BezPath(vertices, closed).SVG(curve.SVGOptions{MaxPrecision: 4})
}
