package jhobby

import (
	"fmt"
	"math"

	"github.com/npillmayer/roto"
)

// Validate checks if knots are solvable by Hobby interpolation. Every error
// returned wraps roto.ErrInvalidArgument.
func (k Knots) Validate() error {
	n := k.N()
	if k.Cycle {
		if n < 3 {
			return fmt.Errorf("%w: %w: cycle needs at least 3 knots, got %d", roto.ErrInvalidArgument, ErrTooFewKnots, n)
		}
		if k.Points[0].Dist(k.Points[n-1]) <= _epsilon {
			return fmt.Errorf("%w: %w", roto.ErrInvalidArgument, ErrCycleHasDuplicateTerminalKnot)
		}
	} else if n < 2 {
		return fmt.Errorf("%w: %w: open knots need at least 2 knots, got %d", roto.ErrInvalidArgument, ErrTooFewKnots, n)
	}
	if (k.Tension != 0 && k.Tension < 0.75) || k.Curl < 0 {
		return fmt.Errorf("%w: %w: tension %g, curl %g", roto.ErrInvalidArgument, ErrTension, k.Tension, k.Curl)
	}
	for i, z := range k.Points {
		if z.IsNaN() || math.IsInf(z.X(), 0) || math.IsInf(z.Y(), 0) {
			return fmt.Errorf("%w: %w at knot %d", roto.ErrInvalidArgument, ErrInvalidKnot, i)
		}
	}
	limit := n - 1
	if k.Cycle {
		limit = n
	}
	for i := 0; i < limit; i++ {
		j := (i + 1) % n
		if k.Points[j].Dist(k.Points[i]) <= _epsilon {
			return fmt.Errorf("%w: %w between knots %d and %d", roto.ErrInvalidArgument, ErrDegenerateSegment, i, j)
		}
	}
	return nil
}

// Solve finds the control points of a Hobby spline through knots.
//
// BUG(norbert@pillmayer.com): Currently there are slight deviations from
// MetaFont's calculation, probably due to different rounding. These are under
// investigation.
func Solve(k Knots) (Handles, error) {
	if err := k.Validate(); err != nil {
		tracer().Errorf("cannot solve knots: %v", err)
		return Handles{}, err
	}
	sk := newSkeleton(k)
	n := k.N()
	u := make([]float64, n+2)
	v := make([]float64, n+2)
	theta := make([]float64, n+2)
	if k.Cycle {
		w := make([]float64, n+2)
		u[0], v[0], w[0] = 0, 0, 1
		sk.buildEqs(u, v, w, n)
		sk.endCycle(theta, u, v, w)
	} else {
		sk.startOpen(u, v)
		sk.buildEqs(u, v, nil, n-2)
		sk.endOpen(theta, u, v)
	}
	h := sk.setControls(theta)
	tracer().Infof("%s", AsString(k, h))
	return h, nil
}

// skeleton holds the knots in a form suitable for the solver, with uniform
// tension and curl.
type skeleton struct {
	z     []roto.Pair
	cycle bool
	a     float64 // 1/tension, post-tension of every knot
	b     float64 // 1/tension, pre-tension of every knot
	curl  float64
}

func newSkeleton(k Knots) *skeleton {
	tension, curl := k.Tension, k.Curl
	if tension == 0 {
		tension = 1
	}
	if curl == 0 {
		curl = 1
	}
	return &skeleton{
		z:     k.Points,
		cycle: k.Cycle,
		a:     recip(tension),
		b:     recip(tension),
		curl:  curl,
	}
}

func (sk *skeleton) n() int {
	return len(sk.z)
}

// Z returns knot i, wrapping around for cycles.
func (sk *skeleton) Z(i int) roto.Pair {
	return sk.z[i%sk.n()]
}

func (sk *skeleton) delta(i int) roto.Pair {
	return sk.Z(i+1) - sk.Z(i)
}

func (sk *skeleton) d(i int) float64 {
	return sk.delta(i).Abs()
}

// Turning angle at z.i.
func (sk *skeleton) psi(i int) float64 {
	psi := 0.0
	if sk.cycle || (i > 0 && i < sk.n()-1) {
		psi = phase(sk.delta(i)) - phase(sk.delta(i-1))
	}
	return reduceAngle(psi)
}

func (sk *skeleton) startOpen(u, v []float64) {
	c := square(sk.a) * sk.curl / square(sk.b)
	tracer().Debugf("a = %.4g, b = %.4g, c = %.4g", sk.a, sk.b, c)
	u[0] = ((3-sk.a)*c + sk.b) / (sk.a*c + 3 - sk.b)
	v[0] = -u[0] * sk.psi(1)
	tracer().Debugf("u.0 = %.4g, v.0 = %.4g", u[0], v[0])
}

func (sk *skeleton) endOpen(theta, u, v []float64) {
	last := sk.n() - 1
	c := square(sk.b) * sk.curl / square(sk.a)
	u[last] = (sk.b*c + 3 - sk.a) / ((3-sk.b)*c + sk.a)
	tracer().Debugf("u.%d = %g", last, u[last])
	if den := u[last-1] - u[last]; math.Abs(den) > _epsilon {
		theta[last] = v[last-1] / den
	} else {
		theta[last] = 0 // a single segment between two curls is straight
	}
	tracer().Debugf("theta.%d = %.4g", last, rad2deg(theta[last]))
	for i := last - 1; i >= 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
		tracer().Debugf("theta.%d = %.4g", i, rad2deg(theta[i]))
	}
}

func (sk *skeleton) endCycle(theta, u, v, w []float64) {
	n := sk.n()
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = v[i] - a*u[i]
		b = w[i] - b*u[i]
	}
	t0 := (v[n] - a*u[n]) / (1 - (w[n] - b*u[n]))
	v[0] = t0
	for i := 1; i <= n; i++ {
		v[i] += w[i] * t0
	}
	theta[0], theta[n] = t0, t0
	for i := n - 1; i > 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

// buildEqs sets up the tridiagonal equations for knots 1…limit.
func (sk *skeleton) buildEqs(u, v, w []float64, limit int) {
	a, b := sk.a, sk.b
	for i := 1; i <= limit; i++ {
		A := a / (square(b) * sk.d(i-1))
		B := (3 - a) / (square(b) * sk.d(i-1))
		C := (3 - b) / (square(a) * sk.d(i))
		D := b / (square(a) * sk.d(i))
		tracer().Debugf("A, B, C, D: %.4g, %.4g, %.4g, %.4g", A, B, C, D)
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*sk.psi(i) - D*sk.psi(i+1) - A*v[i-1]) / t
		if w != nil {
			w[i] = -A * w[i-1] / t
		}
		tracer().Debugf("u.%d = %.4g, v.%d = %.4g", i, u[i], i, v[i])
	}
}

func (sk *skeleton) setControls(theta []float64) Handles {
	n := sk.n()
	h := Handles{Pre: make([]roto.Pair, n), Post: make([]roto.Pair, n)}
	segments := n - 1
	if sk.cycle {
		segments = n
	} else {
		h.Pre[0], h.Post[n-1] = sk.z[0], sk.z[n-1]
	}
	for i := 0; i < segments; i++ {
		phi := -sk.psi(i+1) - theta[i+1]
		p2, p3 := controlPoints(phi, theta[i], sk.a, sk.b, sk.delta(i))
		h.Post[i] = sk.Z(i) + p2
		h.Pre[(i+1)%n] = sk.Z(i+1) - p3
	}
	return h
}
