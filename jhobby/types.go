package jhobby

import (
	"errors"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

const pi float64 = 3.14159265
const pi2 float64 = 6.28318530
const _epsilon = 0.0000001

var (
	// ErrTooFewKnots indicates knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("degenerate segment")
	// ErrCycleHasDuplicateTerminalKnot indicates cyclic knots redundantly repeat first knot as last knot.
	ErrCycleHasDuplicateTerminalKnot = errors.New("cycle must not repeat first knot as terminal knot")
	// ErrTension indicates a tension below 3/4 or a negative curl.
	ErrTension = errors.New("tension must be at least 3/4, curl must not be negative")
)

// Knots is a skeleton for Hobby's algorithm: a sequence of points to
// interpolate, either open or cyclic. Tension applies to every join and
// Curl to both ends of an open sequence. Zero values mean 1.
type Knots struct {
	Points  []roto.Pair
	Cycle   bool
	Tension float64
	Curl    float64
}

// N returns the number of knots.
func (k Knots) N() int {
	return len(k.Points)
}

// Handles are the spline control points found for a sequence of knots.
// Pre[i] is the handle of the segment arriving at knot i, Post[i] the one of
// the segment leaving it. The open ends of a non-cyclic sequence have their
// handles at the knot itself.
type Handles struct {
	Pre  []roto.Pair
	Post []roto.Pair
}
