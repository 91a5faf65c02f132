package anim

import (
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveLinear(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve(Linear)
	assert.False(t, c.HasAnyKeyframe())
	assert.Equal(t, 0.0, c.ValueAt(3))
	c.SetValueAt(10, 100)
	c.SetValueAt(0, 0)
	require.Equal(t, []float64{0, 10}, c.KeyframeTimes())
	assert.Equal(t, 50.0, c.ValueAt(5))
	assert.Equal(t, 0.0, c.ValueAt(-4), "constant before first key")
	assert.Equal(t, 100.0, c.ValueAt(42), "constant after last key")
	c.SetValueAt(10, 20)
	assert.Equal(t, 10.0, c.ValueAt(5))
	assert.Len(t, c.Keyframes(), 2)
}

func TestCurveConstantAndSmooth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve(Constant)
	c.SetValueAt(0, 1)
	c.SetValueAt(10, 2)
	assert.Equal(t, 1.0, c.ValueAt(9.99))
	assert.Equal(t, 2.0, c.ValueAt(10))
	s := NewCurve(Smooth)
	s.SetValueAt(0, 0)
	s.SetValueAt(10, 10)
	assert.InDelta(t, 5.0, s.ValueAt(5), 1e-9)
	assert.Less(t, s.ValueAt(1), 1.0, "flat tangents ease in")
}

func TestSmoothSlopesFollowNeighbours(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewCurve(Smooth)
	for _, k := range []float64{20, 0, 10} {
		s.SetValueAt(k, k)
	}
	assert.Equal(t, 10.0, s.ValueAt(10))
	assert.InDelta(t, 3.75, s.ValueAt(5), 1e-9)
	assert.InDelta(t, 16.25, s.ValueAt(15), 1e-9)
	var zero Curve
	assert.False(t, zero.HasKeyframeAt(0))
	zero.SetValueAt(1, 2)
	assert.Equal(t, 2.0, zero.ValueAt(0))
}

func TestCurveRemove(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve(Linear)
	c.SetValueAt(1, 1)
	assert.False(t, c.RemoveAt(2))
	assert.True(t, c.HasKeyframeAt(1))
	assert.True(t, c.RemoveAt(1))
	assert.False(t, c.HasAnyKeyframe())
	c.SetValueAt(3, 3)
	d := c.Clone()
	c.Clear()
	assert.True(t, d.HasKeyframeAt(3))
	assert.Equal(t, "linear{3:3}", d.String())
}

func TestCurveConcurrentReaders(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCurve(Linear)
	c.SetValueAt(0, 0)
	c.SetValueAt(100, 100)
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				v := c.ValueAt(50)
				if v < 0 || v > 100 {
					t.Errorf("value out of range: %g", v)
				}
			}
		}()
	}
	for i := 1; i < 100; i++ {
		c.SetValueAt(float64(i), float64(i))
	}
	wg.Wait()
}

func TestKeySet(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var ks KeySet
	_, ok := ks.First()
	assert.False(t, ok)
	assert.True(t, ks.Add(5))
	assert.True(t, ks.Add(1))
	assert.False(t, ks.Add(5))
	first, ok := ks.First()
	assert.True(t, ok)
	assert.Equal(t, 1.0, first)
	assert.Equal(t, []float64{1, 5}, ks.Times())
	cl := ks.Clone()
	assert.True(t, ks.Remove(1))
	assert.False(t, ks.Remove(1))
	assert.Equal(t, 1, ks.Len())
	assert.Equal(t, 2, cl.Len())
	ks.Clear()
	assert.False(t, ks.Has(5))
	assert.Equal(t, []float64{-1, 2, 3}, NewKeySet(3, -1, 2, 3).Times())
}
