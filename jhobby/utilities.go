package jhobby

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/npillmayer/roto"
)

func hobbyParamsAlphaBeta(theta, phi float64) (float64, float64) {
	constA := 1.41421356     // sqrt(2) -- empiric constants, as explained by J.Hobby
	constB := 0.0625         // 1/16
	constC := 0.38196601125  // (3 - sqrt(5)) / 2
	constCC := 0.61803398875 // 1 - c
	st, ct := math.Sincos(theta) // in-angle
	sf, cf := math.Sincos(phi)   // out-angle
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

func hobbyParamsRhoSigma(alpha, beta float64) (float64, float64) {
	rho := (2 + alpha) / beta
	sigma := (2 - alpha) / beta
	return rho, sigma
}

// Calculate control point offsets between z.i and z.[i+1], given the
// direction angles relative to the chord dvec.
func controlPoints(phi, theta, a, b float64, dvec roto.Pair) (roto.Pair, roto.Pair) {
	alpha, beta := hobbyParamsAlphaBeta(theta, phi)
	rho, sigma := hobbyParamsRhoSigma(alpha, beta)
	uv1 := dvec.Rotated(theta)
	uv2 := dvec.Rotated(-phi)
	return uv1.Mul(a / 3 * rho), uv2.Mul(b / 3 * sigma)
}

func phase(p roto.Pair) float64 {
	return cmplx.Phase(p.C())
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > pi {
		if a > 0 {
			a -= pi2
		} else {
			a += pi2
		}
	}
	return a
}

// Return 1/a for a.
func recip(a float64) float64 {
	if math.IsNaN(a) {
		return 1.0
	}
	return 1.0 / a
}

// Return a^2 for a.
func square(a float64) float64 {
	return a * a
}

func rad2deg(a float64) float64 {
	return a * 180 / pi
}

func ptstring(p roto.Pair, iscontrol bool) string {
	if p.IsNaN() {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}

// AsString returns knots and their handles in MetaFont notation, e.g.
//
//	(1,1) .. controls (1.0000,1.5523) and (1.4477,2.0000)
//	 .. (2,2) .. cycle
//
// If h is empty, the handles are omitted.
func AsString(k Knots, h Handles) string {
	n := k.N()
	withControls := len(h.Pre) == n && len(h.Post) == n
	var b strings.Builder
	for i, pt := range k.Points {
		if i > 0 {
			if withControls {
				fmt.Fprintf(&b, " and %s\n  .. ", ptstring(h.Pre[i], true))
			} else {
				b.WriteString(" .. ")
			}
		}
		b.WriteString(ptstring(pt, false))
		if withControls && (i < n-1 || k.Cycle) {
			fmt.Fprintf(&b, " .. controls %s", ptstring(h.Post[i], true))
		}
	}
	if k.Cycle && n > 0 {
		if withControls {
			fmt.Fprintf(&b, " and %s\n ", ptstring(h.Pre[0], true))
		}
		b.WriteString(" .. cycle")
	}
	return b.String()
}
