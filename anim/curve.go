package anim

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Keyframe is a value at a point in time.
type Keyframe struct {
	Time  float64
	Value float64
}

// Curve is an AnimatedScalar holding an ordered list of keyframes.
// Before the first and after the last keyframe the curve is constant.
// A curve without keyframes evaluates to 0; callers keep their own
// static fallback value.
type Curve struct {
	mx     sync.RWMutex
	interp Interpolation
	keys   *treemap.Map // time => value, nil until the first keyframe is set
}

var _ AnimatedScalar = &Curve{}

// NewCurve creates an empty curve with a given interpolation kind.
func NewCurve(interp Interpolation) *Curve {
	return &Curve{interp: interp, keys: newTimeline()}
}

// newTimeline creates a map ordered by time.
func newTimeline() *treemap.Map {
	return treemap.NewWith(utils.Float64Comparator)
}

func keyframe(k, v interface{}) (Keyframe, bool) {
	if k == nil {
		return Keyframe{}, false
	}
	return Keyframe{Time: k.(float64), Value: v.(float64)}, true
}

// before returns the last keyframe strictly before t.
func (c *Curve) before(t float64) (Keyframe, bool) {
	return keyframe(c.keys.Floor(math.Nextafter(t, math.Inf(-1))))
}

// after returns the first keyframe strictly after t.
func (c *Curve) after(t float64) (Keyframe, bool) {
	return keyframe(c.keys.Ceiling(math.Nextafter(t, math.Inf(1))))
}

// ValueAt interpolates the curve at time t.
func (c *Curve) ValueAt(t float64) float64 {
	c.mx.RLock()
	defer c.mx.RUnlock()
	if c.keys == nil || c.keys.Empty() {
		return 0
	}
	if v, ok := c.keys.Get(t); ok {
		return v.(float64)
	}
	k0, ok0 := keyframe(c.keys.Floor(t))
	k1, ok1 := keyframe(c.keys.Ceiling(t))
	if !ok0 {
		return k1.Value
	}
	if !ok1 {
		return k0.Value
	}
	u := (t - k0.Time) / (k1.Time - k0.Time)
	switch c.interp {
	case Constant:
		return k0.Value
	case Smooth:
		m0, m1 := c.slope(k0), c.slope(k1)
		dt := k1.Time - k0.Time
		return hermite(k0.Value, m0*dt, k1.Value, m1*dt, u)
	}
	return k0.Value + (k1.Value-k0.Value)*u
}

// Catmull-Rom slope at keyframe k, flat at the ends.
func (c *Curve) slope(k Keyframe) float64 {
	prev, ok := c.before(k.Time)
	if !ok {
		return 0
	}
	next, ok := c.after(k.Time)
	if !ok {
		return 0
	}
	return (next.Value - prev.Value) / (next.Time - prev.Time)
}

func hermite(p0, m0, p1, m1, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2
	return h00*p0 + h10*m0 + h01*p1 + h11*m1
}

// SetValueAt sets or replaces the keyframe at time t.
func (c *Curve) SetValueAt(t, value float64) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.keys == nil {
		c.keys = newTimeline()
	}
	c.keys.Put(t, value)
}

// RemoveAt deletes the keyframe at time t. It returns false if there was none.
func (c *Curve) RemoveAt(t float64) bool {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.keys == nil {
		return false
	}
	if _, ok := c.keys.Get(t); !ok {
		return false
	}
	c.keys.Remove(t)
	return true
}

// HasAnyKeyframe is a predicate.
func (c *Curve) HasAnyKeyframe() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.keys != nil && !c.keys.Empty()
}

// HasKeyframeAt is a predicate: is there a keyframe exactly at t?
func (c *Curve) HasKeyframeAt(t float64) bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	if c.keys == nil {
		return false
	}
	_, ok := c.keys.Get(t)
	return ok
}

// KeyframeTimes returns the times of all keyframes in ascending order.
func (c *Curve) KeyframeTimes() []float64 {
	c.mx.RLock()
	defer c.mx.RUnlock()
	if c.keys == nil {
		return []float64{}
	}
	times := make([]float64, 0, c.keys.Size())
	for _, k := range c.keys.Keys() {
		times = append(times, k.(float64))
	}
	return times
}

// Keyframes returns a copy of the keyframes.
func (c *Curve) Keyframes() []Keyframe {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.keyframes()
}

func (c *Curve) keyframes() []Keyframe {
	if c.keys == nil {
		return nil
	}
	var keys []Keyframe
	it := c.keys.Iterator()
	for it.Next() {
		k, _ := keyframe(it.Key(), it.Value())
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all keyframes.
func (c *Curve) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.keys != nil {
		c.keys.Clear()
	}
}

// Clone returns an independent copy of c.
func (c *Curve) Clone() *Curve {
	c.mx.RLock()
	defer c.mx.RUnlock()
	clone := NewCurve(c.interp)
	for _, k := range c.keyframes() {
		clone.keys.Put(k.Time, k.Value)
	}
	return clone
}

func (c *Curve) String() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	var b strings.Builder
	b.WriteString(c.interp.String())
	b.WriteString("{")
	for i, k := range c.keyframes() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%g:%g", k.Time, k.Value)
	}
	b.WriteString("}")
	return b.String()
}
