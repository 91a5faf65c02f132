package bezier

import (
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() []Vertex {
	return []Vertex{
		V(roto.P(0, 0)), V(roto.P(1, 0)), V(roto.P(1, 1)), V(roto.P(0, 1)),
	}
}

func arch() (p0, p1, p2, p3 roto.Pair) {
	return roto.P(0, 0), roto.P(0, 100), roto.P(100, 100), roto.P(100, 0)
}

func TestEvalEndpoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p1, p2, p3 := arch()
	assert.Equal(t, p0, Eval(p0, p1, p2, p3, 0))
	assert.Equal(t, p3, Eval(p0, p1, p2, p3, 1))
	mid := Eval(p0, p1, p2, p3, 0.5)
	assert.InDelta(t, 50.0, mid.X(), 1e-9)
	assert.InDelta(t, 75.0, mid.Y(), 1e-9)
}

func TestSplitMatchesEval(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p1, p2, p3 := arch()
	for _, tt := range []float64{0.1, 0.5, 0.8} {
		s := Split(p0, p1, p2, p3, tt)
		assert.InDelta(t, 0.0, s.Dest.Dist(Eval(p0, p1, p2, p3, tt)), 1e-9)
		// halves reproduce the original curve
		l := Eval(p0, s.P01, s.P012, s.Dest, 0.5)
		assert.InDelta(t, 0.0, l.Dist(Eval(p0, p1, p2, p3, tt/2)), 1e-9)
		r := Eval(s.Dest, s.P123, s.P23, p3, 0.5)
		assert.InDelta(t, 0.0, r.Dist(Eval(p0, p1, p2, p3, tt+(1-tt)/2)), 1e-9)
	}
}

func TestSegmentCount(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 0, SegmentCount(0, true))
	assert.Equal(t, 0, SegmentCount(1, true))
	assert.Equal(t, 4, SegmentCount(4, true))
	assert.Equal(t, 3, SegmentCount(4, false))
}

func TestFlattenSegments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelDebug)
	//
	opt := DefaultOptions()
	opt.Closed = true
	points, _, err := Flatten(square(), opt)
	require.NoError(t, err)
	// every edge gets 2 samples, the first one shared with its predecessor
	require.Len(t, points, 4)
	segs := map[int]bool{}
	for i, pp := range points {
		segs[pp.Segment] = true
		assert.Equal(t, float64(i+1), pp.T)
		assert.Equal(t, 1.0, pp.Local())
	}
	assert.Len(t, segs, 4)
	assert.Equal(t, roto.P(0, 0), points[3].P)
	//
	opt.Closed = false
	points, _, err = Flatten(square(), opt)
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, roto.P(0, 0), points[0].P)
	assert.Equal(t, roto.P(0, 1), points[3].P)
	assert.Equal(t, 2, points[3].Segment)
}

func TestFlattenSingleVertex(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	points, bbox, err := Flatten([]Vertex{V(roto.P(3, 4))}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, roto.P(3, 4), bbox.Min())
	assert.Equal(t, roto.P(3, 4), bbox.Max())
	points, bbox, err = Flatten(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.True(t, bbox.IsNull())
}

func TestFlattenInvalidPointCount(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	opt := DefaultOptions()
	opt.PointCount = 1
	_, _, err := Flatten(square(), opt)
	assert.ErrorIs(t, err, roto.ErrInvalidArgument)
}

func TestFlattenScaleAndTransform(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	opt := DefaultOptions()
	opt.Closed = true
	opt.Scale = roto.P(2, 3)
	opt.Transform = roto.Translation(roto.P(1, 1))
	_, bbox, err := Flatten(square(), opt)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, bbox.X1, 1e-9)
	assert.InDelta(t, 3.0, bbox.Y1, 1e-9)
	assert.InDelta(t, 4.0, bbox.X2, 1e-9)
	assert.InDelta(t, 6.0, bbox.Y2, 1e-9)
}

func TestRecursiveFlatness(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p1, p2, p3 := arch()
	coarse := RecursiveSegment(p0, p1, p2, p3, 0, false, 1, nil)
	fine := RecursiveSegment(p0, p1, p2, p3, 0, false, 10, nil)
	assert.Greater(t, len(fine), len(coarse))
	assert.Equal(t, p0, coarse[0].P)
	assert.Equal(t, p3, coarse[len(coarse)-1].P)
	for i, pp := range coarse {
		if i > 0 {
			assert.GreaterOrEqual(t, pp.T, coarse[i-1].T)
			assert.NotEqual(t, pp.P, coarse[i-1].P, "duplicate point at %d", i)
		}
		_, _, d := NearestOnSegment(p0, p1, p2, p3, pp.P, 1e-6)
		assert.Less(t, d, 1.0, "point %d = %v too far from curve", i, pp.P)
	}
}

func TestRecursiveStraightSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p3 := roto.P(0, 0), roto.P(30, 0)
	points := RecursiveSegment(p0, p0.Lerp(p3, 1.0/3), p0.Lerp(p3, 2.0/3), p3, 0, false, 1, nil)
	require.Len(t, points, 2)
	assert.Equal(t, 1.0, points[1].T)
}

func TestSegmentListBboxUnitSquare(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	bbox := SegmentListBbox(square(), 0, nil)
	assert.Equal(t, roto.Rect{X1: 0, Y1: 0, X2: 1, Y2: 1}, bbox)
	bbox = SegmentListBbox(square(), -2, nil)
	assert.Equal(t, roto.Rect{X1: -2, Y1: -2, X2: 3, Y2: 3}, bbox)
	one := SegmentListBbox(square()[:1], 5, nil)
	assert.Equal(t, 0.0, one.Width())
}

func TestSegmentBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p1, p2, p3 := arch()
	r := SegmentBounds(p0, p1, p2, p3)
	assert.InDelta(t, 0.0, r.X1, 1e-9)
	assert.InDelta(t, 100.0, r.X2, 1e-9)
	assert.InDelta(t, 0.0, r.Y1, 1e-9)
	assert.InDelta(t, 75.0, r.Y2, 1e-9)
	e := ExactSegmentBounds(p0, p1, p2, p3)
	assert.InDelta(t, r.X1, e.X1, 1e-6)
	assert.InDelta(t, r.X2, e.X2, 1e-6)
	assert.InDelta(t, r.Y1, e.Y1, 1e-6)
	assert.InDelta(t, r.Y2, e.Y2, 1e-6)
	c := ControlPolygonBbox(p0, p1, p2, p3)
	assert.True(t, c.Contains(r.Min()) && c.Contains(r.Max()))
	assert.Greater(t, c.Y2, r.Y2)
}

func TestOrientation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ccw := square()
	assert.InDelta(t, 1.0, SignedArea(ccw, true), 1e-9)
	assert.False(t, IsClockwise(ccw, true))
	cw := []Vertex{ccw[3], ccw[2], ccw[1], ccw[0]}
	assert.True(t, IsClockwise(cw, true))
	assert.False(t, IsClockwise(ccw[:1], true))
}

func TestWinding(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	poly := []roto.Pair{roto.P(0, 0), roto.P(1, 0), roto.P(1, 1), roto.P(0, 1)}
	assert.NotZero(t, Winding(poly, roto.P(0.5, 0.5)))
	assert.Zero(t, Winding(poly, roto.P(2, 0.5)))
	assert.Zero(t, Winding(poly, roto.P(0.5, 2)))
	assert.Zero(t, PointLineIntersection(roto.P(0, 0), roto.P(5, 0), roto.P(1, 0)))
}

func TestDerivatives(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, b := V(roto.P(0, 0)), V(roto.P(3, 0))
	assert.Equal(t, roto.P(3, 0), RightDerivative(a, b))
	assert.Equal(t, roto.P(-3, 0), LeftDerivative(a, b))
	b.Left = roto.P(2, 1)
	assert.Equal(t, roto.P(4, 2), RightDerivative(a, b)) // quadratic
	a.Right = roto.P(1, 0)
	assert.Equal(t, roto.P(3, 0), RightDerivative(a, b))
	assert.Equal(t, roto.P(-3, 3), LeftDerivative(a, b))
	assert.Equal(t, roto.Origin, RightDerivative(V(a.P), V(a.P)))
}

func TestExpandToFeatherDistance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	fd := roto.P(1, 1)
	e := ExpandToFeatherDistance(roto.P(0, 0), roto.P(3, 4), fd, false, nil, Vertex{}, Vertex{}, Vertex{})
	assert.InDelta(t, 3.6, e.X(), 1e-9)
	assert.InDelta(t, 4.8, e.Y(), 1e-9)
	//
	prev, cur, next := V(roto.P(-1, 0)), V(roto.P(0, 0)), V(roto.P(1, 0))
	fd = roto.P(2, 2)
	e = ExpandToFeatherDistance(cur.P, cur.P, fd, true, nil, prev, cur, next)
	assert.InDelta(t, 0.0, e.X(), 1e-9)
	assert.InDelta(t, 2.0, e.Y(), 1e-9)
	e = ExpandToFeatherDistance(cur.P, cur.P, fd, false, nil, prev, cur, next)
	assert.InDelta(t, -2.0, e.Y(), 1e-9)
	// all derivatives vanish
	e = ExpandToFeatherDistance(cur.P, cur.P, fd, false, nil, cur, cur, cur)
	assert.Equal(t, cur.P, e)
}

func TestFeatherOffset(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	opt := DefaultOptions()
	opt.FeatherDistance = 1
	points, _, err := Flatten([]Vertex{V(roto.P(0, 0)), V(roto.P(10, 0))}, opt)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.InDelta(t, -1.0, points[2].P.Y(), 1e-9)
	opt.Clockwise = true
	points, _, _ = Flatten([]Vertex{V(roto.P(0, 0)), V(roto.P(10, 0))}, opt)
	assert.InDelta(t, 1.0, points[2].P.Y(), 1e-9)
}

func TestSegmentMeetsPoint(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p3 := roto.P(0, 0), roto.P(10, 0)
	points := IterativeSegment(p0, p0, p3, p3, 0, false, AutoPointCount, nil)
	require.Len(t, points, 5)
	tt, ok := SegmentMeetsPoint(p0, p0, p3, p3, points[2].P, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.5, tt)
	_, ok = SegmentMeetsPoint(p0, p0, p3, p3, roto.P(5, 1), 0)
	assert.False(t, ok)
	tt, ok = SegmentMeetsPoint(p0, p0, p3, p3, roto.P(5, 1), 2)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, tt, 0.1)
}

func TestNearestAndArclen(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, p3 := roto.P(0, 0), roto.P(10, 0)
	p, tt, d := NearestOnSegment(p0, p0.Lerp(p3, 1.0/3), p0.Lerp(p3, 2.0/3), p3, roto.P(4, 3), 1e-9)
	assert.InDelta(t, 4.0, p.X(), 1e-6)
	assert.InDelta(t, 0.4, tt, 1e-6)
	assert.InDelta(t, 3.0, d, 1e-6)
	assert.InDelta(t, 10.0, SegmentArclen(p0, p0, p3, p3, 1e-6), 1e-4)
	assert.InDelta(t, 11, ArclenPointCount(p0, p0, p3, p3, 1), 1)
}

func TestSVG(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := BezPath(square(), true)
	assert.Len(t, path, 6)
	svg := SVG(square(), true)
	assert.True(t, strings.HasPrefix(svg, "M"), "svg = %q", svg)
	assert.Empty(t, BezPath(nil, false))
}

func TestAutoCount(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 2, AutoCount(roto.P(0, 0), roto.P(0, 0), roto.P(1, 0), roto.P(1, 0)))
	p0, p1, p2, p3 := arch()
	want := int(math.Max((300+100)*0.25, 2))
	assert.Equal(t, want, AutoCount(p0, p1, p2, p3))
}
