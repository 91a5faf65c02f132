/*
Package anim provides animated scalar values, i.e. values which change over
time by interpolating between keyframes.

Roto shapes consume animation through the AnimatedScalar interface only.
Type Curve is a simple keyframe implementation, sufficient for tests and for
clients without an animation engine of their own.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package anim

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto.anim'
func tracer() tracing.Trace {
	return tracing.Select("roto.anim")
}

// AnimatedScalar is a double value animated over time.
//
// Implementations have to be safe for concurrent use: any number of readers
// may call ValueAt while a single writer calls SetValueAt or RemoveAt.
type AnimatedScalar interface {
	ValueAt(time float64) float64    // interpolated value at time
	SetValueAt(time, value float64)  // set a keyframe at time
	RemoveAt(time float64) bool      // remove the keyframe at time, if present
	HasAnyKeyframe() bool            // is there at least one keyframe?
	HasKeyframeAt(time float64) bool // is there a keyframe exactly at time?
	KeyframeTimes() []float64        // ordered keyframe times
}

// Factory creates fresh animated scalars. Shapes use it to populate the
// six scalars of every control point.
type Factory func() AnimatedScalar

// DefaultFactory creates linearly interpolated curves.
func DefaultFactory() AnimatedScalar {
	return NewCurve(Linear)
}

// Interpolation is the kind of interpolation between two keyframes.
type Interpolation int8

// Interpolation kinds. Smooth uses Catmull-Rom tangents.
const (
	Linear Interpolation = iota
	Constant
	Smooth
)

func (ip Interpolation) String() string {
	switch ip {
	case Constant:
		return "constant"
	case Smooth:
		return "smooth"
	}
	return "linear"
}
