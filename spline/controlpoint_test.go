package spline

import (
	"sync"
	"testing"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/anim"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestControlPointStaticFallback(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cp := NewControlPoint(nil, false)
	cp.SetStaticPosition(roto.P(1, 2))
	assert.Equal(t, roto.P(1, 2), cp.PositionAt(5))
	assert.False(t, cp.IsAnimated())
	cp.SetPositionAt(0, roto.P(3, 4))
	assert.True(t, cp.IsAnimated())
	assert.True(t, cp.HasKeyframeAt(0))
	assert.Equal(t, roto.P(3, 4), cp.PositionAt(7))
	assert.Equal(t, []float64{0}, cp.KeyframeTimes())
	cp.RemoveKeyframe(0)
	cp.RemoveKeyframe(0) // absent, no-op
	assert.Equal(t, roto.P(1, 2), cp.PositionAt(5))
}

func TestControlPointComponentsAreIndependent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cp := NewControlPoint(nil, false)
	cp.SetStaticLeft(roto.P(-1, -1))
	cp.SetStaticRight(roto.P(1, 1))
	cp.SetRightAt(10, roto.P(5, 5))
	cp.SetRightAt(20, roto.P(15, 5))
	assert.Equal(t, roto.P(-1, -1), cp.LeftAt(15))
	assert.Equal(t, roto.P(10, 5), cp.RightAt(15))
	assert.Equal(t, []float64{10, 20}, cp.KeyframeTimes())
	v := cp.Vertex(15, roto.Translation(roto.P(1, 0)))
	assert.Equal(t, roto.P(11, 5), v.Right)
	assert.Equal(t, roto.P(1, 0), v.P)
}

func TestControlPointEquality(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cp := NewControlPoint(anim.DefaultFactory, false)
	fp := NewControlPoint(anim.DefaultFactory, true)
	assert.True(t, fp.IsFeather())
	assert.True(t, cp.EqualsAtTime(fp, 0))
	assert.False(t, cp.EqualsAtTime(nil, 0))
	fp.SetStaticLeft(roto.P(0, 1e-12))
	assert.False(t, cp.EqualsAtTime(fp, 0))
	cp.SetPositionAt(3, roto.P(1, 1))
	c := cp.CloneAt(3)
	assert.False(t, c.IsAnimated())
	assert.Equal(t, roto.P(1, 1), c.PositionAt(100))
	assert.Nil(t, c.Spline())
}

func TestControlPointClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cp := NewControlPoint(nil, false)
	cp.SetPositionAt(1, roto.P(1, 1))
	cp.SetPositionAt(2, roto.P(2, 2))
	other := NewControlPoint(nil, false)
	other.SetPositionAt(7, roto.P(7, 7))
	other.copyFrom(cp)
	assert.Equal(t, []float64{1, 2}, other.KeyframeTimes())
	assert.True(t, other.EqualsAtTime(cp, 1.5))
	cp.moveKeyframe(2, 4)
	assert.Equal(t, roto.P(2, 2), cp.PositionAt(4))
	assert.False(t, cp.HasKeyframeAt(2))
}

func TestControlPointConcurrentReaders(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cp := NewControlPoint(nil, false)
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := cp.PositionAt(float64(i))
				if p.IsNaN() {
					t.Errorf("NaN position at %d", i)
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		cp.SetPositionAt(float64(i), roto.P(float64(i), 0))
		cp.SetStaticPosition(roto.P(0, float64(i)))
	}
	wg.Wait()
	assert.Equal(t, roto.P(199, 0), cp.PositionAt(199))
}
