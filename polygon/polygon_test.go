package polygon

import (
	"testing"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pg := NullPolygon().Knot(roto.P(0, 0)).Knot(roto.P(1, 3)).Knot(roto.P(3, 0)).Cycle()
	tracer().Infof("pg = %s", AsString(pg))
	if pg.N() != 3 {
		t.Fail()
	}
	assert.Equal(t, "(0,0)--(1,3)--(3,0)--cycle", AsString(pg))
}

func TestDegenerateContour(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pg := NullPolygon().Knot(roto.P(0, 0)).Knot(roto.P(1, 3)).Cycle()
	assert.True(t, pg.IsEmpty())
	assert.True(t, pg.BoundingBox().IsNull())
	assert.False(t, pg.Contains(roto.P(0, 0)))
}

func TestBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(roto.P(0, 5), roto.P(4, 1))
	tracer().Infof("box = %s", AsString(box))
	if box.N() != 4 {
		t.Fail()
	}
	assert.Equal(t, roto.Rect{X1: 0, Y1: 1, X2: 4, Y2: 5}, box.BoundingBox())
}

func TestContains(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(roto.P(0, 0), roto.P(4, 4))
	assert.True(t, box.Contains(roto.P(2, 2)))
	assert.False(t, box.Contains(roto.P(5, 2)))
	assert.False(t, box.Contains(roto.P(2, -1)))
	// a second contour inside the first one makes a hole
	holed := Box(roto.P(0, 0), roto.P(4, 4)).
		Knot(roto.P(1, 1)).Knot(roto.P(3, 1)).Knot(roto.P(3, 3)).Knot(roto.P(1, 3)).Cycle()
	assert.Equal(t, 2, holed.Contours())
	assert.False(t, holed.Contains(roto.P(2, 2)))
	assert.True(t, holed.Contains(roto.P(0.5, 2)))
}

func TestOverlaps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := Box(roto.P(0, 0), roto.P(4, 4))
	b := Box(roto.P(2, 2), roto.P(6, 6))
	c := Box(roto.P(10, 10), roto.P(12, 12))
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
	assert.False(t, a.Overlaps(NullPolygon()))
	is := a.Intersection(b)
	bb := is.BoundingBox()
	assert.InDelta(t, 2.0, bb.X1, 1e-9)
	assert.InDelta(t, 4.0, bb.X2, 1e-9)
	u := a.Union(c)
	assert.Equal(t, 2, u.Contours())
}

func TestFromPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tri := FromPoints([]roto.Pair{roto.P(0, 0), roto.P(4, 0), roto.P(0, 4)})
	assert.Equal(t, 3, tri.N())
	assert.True(t, tri.Contains(roto.P(1, 1)))
	assert.False(t, tri.Contains(roto.P(3, 3)))
}
