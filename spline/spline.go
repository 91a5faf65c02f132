/*
Package spline implements animated Bézier shapes for rotoscoping.

A Spline is an ordered list of vertices, each made of a control point and a
feather point. Feather points span a second spline which describes the
outer border of the fading edge of the shape. Coordinates of all points are
animated; a spline evaluates them at a given time and hands snapshots to
package bezier for flattening and geometric queries.

Shapes may differ per view (e.g. for stereo footage). View 0 is the main
view, other views share it until they are split off with SplitView.

# Concurrency

A spline has one authoring goroutine, which is the only one allowed to call
mutators. Any number of goroutines may read concurrently. Changes to the
point list are published by swapping the list as a whole, so readers never
see a partial insertion or removal.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"fmt"
	"slices"
	"sync"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/anim"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto'
func tracer() tracing.Trace {
	return tracing.Select("roto")
}

// MainView is the view every spline has.
const MainView = 0

// AllViews addresses every view of a spline in mutators which support it.
const AllViews = -1

// shape is the point list of one view. Slices of a shape are never
// modified in place; mutators install new slices.
type shape struct {
	points   []*ControlPoint
	feathers []*ControlPoint
	finished bool
	keys     *anim.KeySet
}

// Spline is an animated cubic Bézier shape with a feather.
type Spline struct {
	mx              sync.RWMutex
	shapes          map[int]*shape
	policy          PolicyProvider
	factory         anim.Factory
	open            bool
	transform       roto.AT
	featherDistance anim.AnimatedScalar
	featherFallOff  anim.AnimatedScalar
	brushSize       anim.AnimatedScalar
}

// New creates an empty closable shape. If policy is nil, DefaultPolicy is
// used; if factory is nil, anim.DefaultFactory.
func New(policy PolicyProvider, factory anim.Factory) *Spline {
	if policy == nil {
		policy = DefaultPolicy
	}
	if factory == nil {
		factory = anim.DefaultFactory
	}
	s := &Spline{
		shapes:          map[int]*shape{MainView: {keys: &anim.KeySet{}}},
		policy:          policy,
		factory:         factory,
		featherDistance: factory(),
		featherFallOff:  factory(),
		brushSize:       factory(),
	}
	return s
}

// NewOpenStroke creates an empty open shape, e.g. a paint stroke. Open
// shapes are never finished.
func NewOpenStroke(policy PolicyProvider, factory anim.Factory) *Spline {
	s := New(policy, factory)
	s.open = true
	return s
}

// IsOpen is true for open strokes.
func (s *Spline) IsOpen() bool {
	return s.open
}

// Policy returns the edit policy in effect.
func (s *Spline) Policy() PolicyProvider {
	return s.policy
}

// SetTransform sets the transform from shape space to canvas space.
// A nil transform is the identity.
func (s *Spline) SetTransform(m roto.AT) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.transform = m
}

// Transform returns the transform from shape space to canvas space.
func (s *Spline) Transform() roto.AT {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.transform
}

// FeatherDistance is the animated distance of the feather, in pixels.
func (s *Spline) FeatherDistance() anim.AnimatedScalar {
	return s.featherDistance
}

// FeatherFallOff is the animated exponent of the feather ramp.
func (s *Spline) FeatherFallOff() anim.AnimatedScalar {
	return s.featherFallOff
}

// BrushSize is the animated brush size of open strokes.
func (s *Spline) BrushSize() anim.AnimatedScalar {
	return s.brushSize
}

// --- Views -----------------------------------------------------------------

// viewKey maps view to an existing view, falling back to the main view.
// Caller must hold the lock.
func (s *Spline) viewKey(view int) int {
	if _, ok := s.shapes[view]; ok {
		return view
	}
	return MainView
}

// snapshot returns a copy of the shape for view. The slices of the copy
// must not be modified.
func (s *Spline) snapshot(view int) shape {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return *s.shapes[s.viewKey(view)]
}

// viewsFor returns the views a mutator has to apply to. Caller must hold
// the lock.
func (s *Spline) viewsFor(view int) []int {
	if view != AllViews {
		return []int{s.viewKey(view)}
	}
	views := make([]int, 0, len(s.shapes))
	for v := range s.shapes {
		views = append(views, v)
	}
	slices.Sort(views)
	return views
}

// Views returns the views with a shape of their own, including the main
// view.
func (s *Spline) Views() []int {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.viewsFor(AllViews)
}

// SplitView gives view a copy of the main view's shape. It returns false if
// view is the main view or already split.
func (s *Spline) SplitView(view int) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	if view <= MainView {
		return false
	}
	if _, ok := s.shapes[view]; ok {
		return false
	}
	main := s.shapes[MainView]
	sh := &shape{
		points:   make([]*ControlPoint, len(main.points)),
		feathers: make([]*ControlPoint, len(main.feathers)),
		finished: main.finished,
		keys:     main.keys.Clone(),
	}
	for i := range main.points {
		sh.points[i] = main.points[i].clone(s)
		sh.feathers[i] = main.feathers[i].clone(s)
	}
	s.shapes[view] = sh
	tracer().Infof("view %d split from main view", view)
	return true
}

// UnSplitView drops the shape of view, which falls back to the main view
// afterwards. It returns false if view was not split.
func (s *Spline) UnSplitView(view int) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	if view == MainView {
		return false
	}
	if _, ok := s.shapes[view]; !ok {
		return false
	}
	delete(s.shapes, view)
	tracer().Infof("view %d joined main view", view)
	return true
}

// --- Shape keyframes -------------------------------------------------------

// SetKeyFrame keys every point of the shape at time, freezing the current
// values.
func (s *Spline) SetKeyFrame(time float64, view int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, v := range s.viewsFor(view) {
		sh := s.shapes[v]
		sh.keys.Add(time)
		for i := range sh.points {
			for _, cp := range []*ControlPoint{sh.points[i], sh.feathers[i]} {
				if !cp.HasKeyframeAt(time) {
					cp.setVertex(time, cp.Vertex(time, nil), true)
				}
			}
		}
	}
}

// RemoveKeyFrame removes the keyframe at time from the shape and from all
// of its points.
func (s *Spline) RemoveKeyFrame(time float64, view int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, v := range s.viewsFor(view) {
		sh := s.shapes[v]
		sh.keys.Remove(time)
		for i := range sh.points {
			sh.points[i].RemoveKeyframe(time)
			sh.feathers[i].RemoveKeyframe(time)
		}
	}
}

// MoveKeyFrame re-times the shape keyframe at from to to, together with the
// point values keyed at from. It returns false if there is no keyframe at
// from or there already is one at to.
func (s *Spline) MoveKeyFrame(from, to float64, view int) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	if !sh.keys.Has(from) || sh.keys.Has(to) {
		return false
	}
	sh.keys.Remove(from)
	sh.keys.Add(to)
	for i := range sh.points {
		sh.points[i].moveKeyframe(from, to)
		sh.feathers[i].moveKeyframe(from, to)
	}
	return true
}

// HasKeyFrameAtTime is true if the shape is keyed at time.
func (s *Spline) HasKeyFrameAtTime(time float64, view int) bool {
	return s.snapshot(view).keys.Has(time)
}

// KeyFrames returns the keyframe times of the shape.
func (s *Spline) KeyFrames(view int) []float64 {
	return s.snapshot(view).keys.Times()
}

// --- Accessors -------------------------------------------------------------

// ControlPointsCount returns the number of vertices.
func (s *Spline) ControlPointsCount(view int) int {
	return len(s.snapshot(view).points)
}

// ControlPoints returns the control points in drawing order.
func (s *Spline) ControlPoints(view int) []*ControlPoint {
	return slices.Clone(s.snapshot(view).points)
}

// FeatherPoints returns the feather points in drawing order.
func (s *Spline) FeatherPoints(view int) []*ControlPoint {
	return slices.Clone(s.snapshot(view).feathers)
}

// ControlPointAt returns the control point at index.
func (s *Spline) ControlPointAt(index, view int) (*ControlPoint, bool) {
	sh := s.snapshot(view)
	if index < 0 || index >= len(sh.points) {
		return nil, false
	}
	return sh.points[index], true
}

// FeatherPointAt returns the feather point at index.
func (s *Spline) FeatherPointAt(index, view int) (*ControlPoint, bool) {
	sh := s.snapshot(view)
	if index < 0 || index >= len(sh.feathers) {
		return nil, false
	}
	return sh.feathers[index], true
}

// ControlPointIndex returns the index of a control or feather point, or -1.
func (s *Spline) ControlPointIndex(cp *ControlPoint, view int) int {
	sh := s.snapshot(view)
	if cp.IsFeather() {
		return slices.Index(sh.feathers, cp)
	}
	return slices.Index(sh.points, cp)
}

// FeatherPointForControlPoint returns the counterpart of a control point.
func (s *Spline) FeatherPointForControlPoint(cp *ControlPoint, view int) (*ControlPoint, bool) {
	sh := s.snapshot(view)
	if i := slices.Index(sh.points, cp); i >= 0 {
		return sh.feathers[i], true
	}
	return nil, false
}

// ControlPointForFeatherPoint returns the counterpart of a feather point.
func (s *Spline) ControlPointForFeatherPoint(fp *ControlPoint, view int) (*ControlPoint, bool) {
	sh := s.snapshot(view)
	if i := slices.Index(sh.feathers, fp); i >= 0 {
		return sh.points[i], true
	}
	return nil, false
}

// IsCurveFinished is true for closed shapes.
func (s *Spline) IsCurveFinished(view int) bool {
	return s.snapshot(view).finished
}

// SetCurveFinished closes or opens the shape. Open strokes cannot be
// finished.
func (s *Spline) SetCurveFinished(finished bool, view int) error {
	if s.open && finished {
		return fmt.Errorf("%w: open stroke cannot be closed", roto.ErrInvalidState)
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, v := range s.viewsFor(view) {
		s.shapes[v].finished = finished
	}
	tracer().Infof("curve finished = %v", finished)
	return nil
}

// ClearAllPoints removes every vertex and keyframe of all views.
func (s *Spline) ClearAllPoints() {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, sh := range s.shapes {
		sh.points, sh.feathers = nil, nil
		sh.finished = false
		sh.keys.Clear()
	}
}

func (s *Spline) String() string {
	sh := s.snapshot(MainView)
	return fmt.Sprintf("spline{n=%d, finished=%v, open=%v}", len(sh.points), sh.finished, s.open)
}
