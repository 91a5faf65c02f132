package roto

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle, given by its lower-left corner (X1,Y1)
// and its upper-right corner (X2,Y2).
//
// The zero value is a degenerate rectangle at the origin. Use NullRect to
// start an accumulation of bounds.
type Rect struct {
	X1, Y1 float64
	X2, Y2 float64
}

// NullRect returns an empty rectangle, suitable as neutral element for Merge.
func NullRect() Rect {
	return Rect{
		X1: math.Inf(1), Y1: math.Inf(1),
		X2: math.Inf(-1), Y2: math.Inf(-1),
	}
}

// R creates a rectangle from two corner points, in any order.
func R(p, q Pair) Rect {
	return Rect{
		X1: math.Min(p.X(), q.X()), Y1: math.Min(p.Y(), q.Y()),
		X2: math.Max(p.X(), q.X()), Y2: math.Max(p.Y(), q.Y()),
	}
}

// IsNull is true for rectangles which have not received any point yet.
func (r Rect) IsNull() bool {
	return r.X1 > r.X2 || r.Y1 > r.Y2
}

// Min returns the lower-left corner.
func (r Rect) Min() Pair {
	return P(r.X1, r.Y1)
}

// Max returns the upper-right corner.
func (r Rect) Max() Pair {
	return P(r.X2, r.Y2)
}

// Width of r, 0 for null rectangles.
func (r Rect) Width() float64 {
	if r.IsNull() {
		return 0
	}
	return r.X2 - r.X1
}

// Height of r, 0 for null rectangles.
func (r Rect) Height() float64 {
	if r.IsNull() {
		return 0
	}
	return r.Y2 - r.Y1
}

// MergePoint extends r to enclose p.
func (r Rect) MergePoint(p Pair) Rect {
	return Rect{
		X1: math.Min(r.X1, p.X()), Y1: math.Min(r.Y1, p.Y()),
		X2: math.Max(r.X2, p.X()), Y2: math.Max(r.Y2, p.Y()),
	}
}

// Merge returns the smallest rectangle enclosing r and o.
func (r Rect) Merge(o Rect) Rect {
	if o.IsNull() {
		return r
	}
	if r.IsNull() {
		return o
	}
	return Rect{
		X1: math.Min(r.X1, o.X1), Y1: math.Min(r.Y1, o.Y1),
		X2: math.Max(r.X2, o.X2), Y2: math.Max(r.Y2, o.Y2),
	}
}

// Pad grows r by dx horizontally and dy vertically on each side.
func (r Rect) Pad(dx, dy float64) Rect {
	if r.IsNull() {
		return r
	}
	return Rect{X1: r.X1 - dx, Y1: r.Y1 - dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}

// Contains is a predicate: is p inside r or on its border?
func (r Rect) Contains(p Pair) bool {
	return p.X() >= r.X1 && p.X() <= r.X2 && p.Y() >= r.Y1 && p.Y() <= r.Y2
}

// Intersects is a predicate: do r and o share at least one point?
func (r Rect) Intersects(o Rect) bool {
	if r.IsNull() || o.IsNull() {
		return false
	}
	return r.X1 <= o.X2 && o.X1 <= r.X2 && r.Y1 <= o.Y2 && o.Y1 <= r.Y2
}

func (r Rect) String() string {
	if r.IsNull() {
		return "[null]"
	}
	return fmt.Sprintf("[%g,%g]→[%g,%g]", r.X1, r.Y1, r.X2, r.Y2)
}
