package spline

import (
	"fmt"
	"slices"
	"sync"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/anim"
	"github.com/npillmayer/roto/bezier"
)

// handle selects one of the three points of a control point.
type handle int8

const (
	position handle = iota
	leftTangent
	rightTangent
)

// ControlPoint is a vertex of a spline together with its two tangent
// handles. Every coordinate is an independent animated scalar. Before a
// scalar has any keyframe, its value is taken from a static fallback.
//
// Main points and feather points share this type, told apart by IsFeather.
// Control points are mutated by their spline only; getters may be called
// from any goroutine.
type ControlPoint struct {
	mx        sync.RWMutex // guards static
	scalars   [3][2]anim.AnimatedScalar
	static    [3]roto.Pair
	isFeather bool
	factory   anim.Factory
	owner     *Spline // not owning, may be nil
}

// NewControlPoint creates a control point at the origin, without animation.
// If factory is nil, anim.DefaultFactory is used.
func NewControlPoint(factory anim.Factory, feather bool) *ControlPoint {
	if factory == nil {
		factory = anim.DefaultFactory
	}
	cp := &ControlPoint{isFeather: feather, factory: factory}
	for h := range cp.scalars {
		cp.scalars[h][0] = factory()
		cp.scalars[h][1] = factory()
	}
	return cp
}

// IsFeather is true for feather points.
func (cp *ControlPoint) IsFeather() bool {
	return cp.isFeather
}

// Spline returns the spline cp belongs to, or nil.
func (cp *ControlPoint) Spline() *Spline {
	return cp.owner
}

func (cp *ControlPoint) get(h handle, time float64) roto.Pair {
	cp.mx.RLock()
	st := cp.static[h]
	cp.mx.RUnlock()
	sx, sy := cp.scalars[h][0], cp.scalars[h][1]
	x, y := st.X(), st.Y()
	if sx.HasAnyKeyframe() {
		x = sx.ValueAt(time)
	}
	if sy.HasAnyKeyframe() {
		y = sy.ValueAt(time)
	}
	return roto.P(x, y)
}

func (cp *ControlPoint) set(h handle, time float64, p roto.Pair) {
	cp.scalars[h][0].SetValueAt(time, p.X())
	cp.scalars[h][1].SetValueAt(time, p.Y())
}

func (cp *ControlPoint) setStatic(h handle, p roto.Pair) {
	cp.mx.Lock()
	defer cp.mx.Unlock()
	cp.static[h] = p
}

// PositionAt returns the position at time.
func (cp *ControlPoint) PositionAt(time float64) roto.Pair {
	return cp.get(position, time)
}

// LeftAt returns the left (incoming) tangent handle at time.
func (cp *ControlPoint) LeftAt(time float64) roto.Pair {
	return cp.get(leftTangent, time)
}

// RightAt returns the right (outgoing) tangent handle at time.
func (cp *ControlPoint) RightAt(time float64) roto.Pair {
	return cp.get(rightTangent, time)
}

// SetPositionAt sets a keyframe for the position at time.
func (cp *ControlPoint) SetPositionAt(time float64, p roto.Pair) {
	cp.set(position, time, p)
}

// SetLeftAt sets a keyframe for the left tangent handle at time.
func (cp *ControlPoint) SetLeftAt(time float64, p roto.Pair) {
	cp.set(leftTangent, time, p)
}

// SetRightAt sets a keyframe for the right tangent handle at time.
func (cp *ControlPoint) SetRightAt(time float64, p roto.Pair) {
	cp.set(rightTangent, time, p)
}

// SetStaticPosition sets the position used while there is no keyframe.
func (cp *ControlPoint) SetStaticPosition(p roto.Pair) {
	cp.setStatic(position, p)
}

// SetStaticLeft sets the left tangent handle used while there is no keyframe.
func (cp *ControlPoint) SetStaticLeft(p roto.Pair) {
	cp.setStatic(leftTangent, p)
}

// SetStaticRight sets the right tangent handle used while there is no keyframe.
func (cp *ControlPoint) SetStaticRight(p roto.Pair) {
	cp.setStatic(rightTangent, p)
}

// Vertex samples cp at time and transforms it by m.
func (cp *ControlPoint) Vertex(time float64, m roto.AT) bezier.Vertex {
	v := bezier.Vertex{
		P:     cp.PositionAt(time),
		Left:  cp.LeftAt(time),
		Right: cp.RightAt(time),
	}
	return v.Transformed(m)
}

// setVertex writes all three points, as keyframes at time if keyed is set,
// as static values otherwise.
func (cp *ControlPoint) setVertex(time float64, v bezier.Vertex, keyed bool) {
	pts := [3]roto.Pair{v.P, v.Left, v.Right}
	for h, p := range pts {
		if keyed {
			cp.set(handle(h), time, p)
		} else {
			cp.setStatic(handle(h), p)
		}
	}
}

// HasKeyframeAt is true if any of the scalars of cp is keyed at time.
func (cp *ControlPoint) HasKeyframeAt(time float64) bool {
	for h := range cp.scalars {
		for _, s := range cp.scalars[h] {
			if s.HasKeyframeAt(time) {
				return true
			}
		}
	}
	return false
}

// IsAnimated is true if any of the scalars of cp has a keyframe.
func (cp *ControlPoint) IsAnimated() bool {
	for h := range cp.scalars {
		for _, s := range cp.scalars[h] {
			if s.HasAnyKeyframe() {
				return true
			}
		}
	}
	return false
}

// KeyframeTimes returns the union of the keyframe times of all scalars,
// in ascending order.
func (cp *ControlPoint) KeyframeTimes() []float64 {
	var times []float64
	for h := range cp.scalars {
		for _, s := range cp.scalars[h] {
			times = append(times, s.KeyframeTimes()...)
		}
	}
	slices.Sort(times)
	return slices.Compact(times)
}

// RemoveKeyframe removes the keyframe at time from every scalar. Scalars
// without a keyframe at time are left alone.
func (cp *ControlPoint) RemoveKeyframe(time float64) {
	for h := range cp.scalars {
		for _, s := range cp.scalars[h] {
			s.RemoveAt(time)
		}
	}
}

// moveKeyframe re-times the keyframes at from to to.
func (cp *ControlPoint) moveKeyframe(from, to float64) {
	for h := range cp.scalars {
		for _, s := range cp.scalars[h] {
			if !s.HasKeyframeAt(from) {
				continue
			}
			v := s.ValueAt(from)
			s.RemoveAt(from)
			s.SetValueAt(to, v)
		}
	}
}

// EqualsAtTime compares position and both tangent handles of cp and other
// at time. Comparison is exact.
func (cp *ControlPoint) EqualsAtTime(other *ControlPoint, time float64) bool {
	if other == nil {
		return false
	}
	for h := position; h <= rightTangent; h++ {
		if cp.get(h, time) != other.get(h, time) {
			return false
		}
	}
	return true
}

// CloneAt returns a static snapshot of cp at time, without animation and
// without owner.
func (cp *ControlPoint) CloneAt(time float64) *ControlPoint {
	c := NewControlPoint(cp.factory, cp.isFeather)
	c.setVertex(time, cp.Vertex(time, nil), false)
	return c
}

// clone copies cp with all keyframes and statics, for a new owner.
func (cp *ControlPoint) clone(owner *Spline) *ControlPoint {
	c := NewControlPoint(cp.factory, cp.isFeather)
	c.owner = owner
	c.copyFrom(cp)
	return c
}

// copyFrom makes cp a copy of other, including all keyframes. Keyframes of
// cp which other does not have are removed.
func (cp *ControlPoint) copyFrom(other *ControlPoint) {
	other.mx.RLock()
	st := other.static
	other.mx.RUnlock()
	cp.mx.Lock()
	cp.static = st
	cp.mx.Unlock()
	for h := range cp.scalars {
		for d, dst := range cp.scalars[h] {
			src := other.scalars[h][d]
			for _, t := range dst.KeyframeTimes() {
				if !src.HasKeyframeAt(t) {
					dst.RemoveAt(t)
				}
			}
			for _, t := range src.KeyframeTimes() {
				dst.SetValueAt(t, src.ValueAt(t))
			}
		}
	}
}

func (cp *ControlPoint) String() string {
	kind := "cp"
	if cp.isFeather {
		kind = "fp"
	}
	cp.mx.RLock()
	defer cp.mx.RUnlock()
	return fmt.Sprintf("%s%v", kind, cp.static)
}
