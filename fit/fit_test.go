package fit

import (
	"math"
	"testing"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/bezier"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	vs, err := Fit([]roto.Pair{roto.P(0, 0), roto.P(10, 0)}, 0.01)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, roto.P(0, 0), vs[0].P)
	assert.Equal(t, roto.P(10, 0), vs[1].P)
	assert.InDelta(t, 10.0/3, vs[0].Right.X(), 1e-9)
	assert.InDelta(t, 0.0, vs[0].Right.Y(), 1e-9)
	assert.InDelta(t, 20.0/3, vs[1].Left.X(), 1e-9)
	assert.InDelta(t, 0.0, vs[1].Left.Y(), 1e-9)
	assert.Equal(t, vs[0].P, vs[0].Left)
	assert.Equal(t, vs[1].P, vs[1].Right)
}

func TestSinglePointAndDuplicates(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	vs, err := Fit([]roto.Pair{roto.P(3, 4), roto.P(3, 4.00001), roto.P(3, 4)}, 0.01)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, bezier.V(roto.P(3, 4)), vs[0])
}

func TestNoPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Fit(nil, 0.01)
	assert.ErrorIs(t, err, ErrNoPoints)
	assert.ErrorIs(t, err, roto.ErrInvalidArgument)
	_, err = New(-1).Fit([]roto.Pair{roto.P(0, 0)})
	assert.ErrorIs(t, err, roto.ErrInvalidArgument)
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelDebug)
	p0, p1, p2, p3 := roto.P(0, 0), roto.P(0, 100), roto.P(100, 100), roto.P(100, 0)
	samples := make([]roto.Pair, 50)
	for i := range samples {
		samples[i] = bezier.Eval(p0, p1, p2, p3, float64(i)/49)
	}
	vs, err := Fit(samples, 1e-6)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(vs), 2)
	first, last := vs[0], vs[len(vs)-1]
	assert.Equal(t, p0, first.P)
	assert.Equal(t, p3, last.P)
	// end tangents keep the direction of the original handles
	assert.InDelta(t, 1.0, (first.Right - first.P).Unit().Dot((p1 - p0).Unit()), 1e-3)
	assert.InDelta(t, 1.0, (last.Left - last.P).Unit().Dot((p2 - p3).Unit()), 1e-3)
	// every sample lies on the fitted spline
	for _, s := range samples {
		best := math.Inf(1)
		for i := 0; i < bezier.SegmentCount(len(vs), false); i++ {
			a, b, c, d := bezier.Segment(vs, i)
			_, _, dist := bezier.NearestOnSegment(a, b, c, d, s, 1e-6)
			best = math.Min(best, dist)
		}
		assert.Less(t, best, 0.01, "sample %v", s)
	}
}

func TestCorner(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	points := []roto.Pair{roto.P(0, 0), roto.P(1, 0), roto.P(2, 0), roto.P(1, 0.5), roto.P(0, 1)}
	runs := corners(points)
	require.Len(t, runs, 2)
	assert.Equal(t, roto.P(2, 0), runs[0][len(runs[0])-1])
	assert.Equal(t, roto.P(2, 0), runs[1][0])
	vs, err := Fit(points, 1e-4)
	require.NoError(t, err)
	found := false
	for _, v := range vs {
		if v.P == roto.P(2, 0) {
			found = true
		}
	}
	assert.True(t, found, "corner must be a vertex")
	// a right angle is no corner
	assert.Len(t, corners([]roto.Pair{roto.P(0, 0), roto.P(1, 0), roto.P(1, 1)}), 1)
}

func TestStraightLineFallback(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	points := []roto.Pair{roto.P(0, 0), roto.P(3, 0), roto.P(6, 0), roto.P(9, 0)}
	vs, err := Fit(points, 1e-6)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.InDelta(t, 0.0, vs[0].Right.Y(), 1e-9)
	assert.InDelta(t, 0.0, vs[1].Left.Y(), 1e-9)
}

func TestToleranceIsInclusive(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d := make([]roto.Pair, 21)
	for i := range d {
		a := float64(i) / 20 * math.Pi / 2
		d[i] = roto.P(100*math.Cos(a), 100*math.Sin(a))
	}
	t1, t2 := (d[1] - d[0]).Unit(), (d[19] - d[20]).Unit()
	u := chordLength(d)
	first := generate(d, u, t1, t2)
	maxErr, _ := maxError(d, first, u)
	require.Greater(t, maxErr, 0.0)
	// an error equal to the tolerance is accepted without further iterations
	segs := New(maxErr).fitCubic(d, t1, t2)
	require.Len(t, segs, 1)
	assert.Equal(t, first, segs[0])
}
