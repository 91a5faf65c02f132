package bezier

import (
	"github.com/npillmayer/roto"
)

// degree reduces a segment to its effective degree: every pair of equal
// consecutive control points lowers the degree by one. It also reports if
// p0 equals p1.
func degree(p0, p1, p2, p3 roto.Pair) (int, bool) {
	d := 3
	for _, eq := range []bool{p0 == p1, p1 == p2, p2 == p3} {
		if eq {
			d--
		}
	}
	return d, p0 == p1
}

// LeftDerivative is the derivative at the end (t=1) of the segment from
// prev to cur, pointing backwards along the segment. Segments with
// coinciding control points are treated as quadratic or linear.
func LeftDerivative(prev, cur Vertex) roto.Pair {
	p0, p1, p2, p3 := prev.P, prev.Right, cur.Left, cur.P
	deg, e01 := degree(p0, p1, p2, p3)
	switch deg {
	case 0:
		return roto.Origin
	case 1:
		return p0 - p3
	case 2:
		if e01 {
			p1 = p2
		}
		return (p1 - p3).Mul(2)
	}
	return (p2 - p3).Mul(3)
}

// RightDerivative is the derivative at the start (t=0) of the segment from
// cur to next.
func RightDerivative(cur, next Vertex) roto.Pair {
	p0, p1, p2, p3 := cur.P, cur.Right, next.Left, next.P
	deg, e01 := degree(p0, p1, p2, p3)
	switch deg {
	case 0:
		return roto.Origin
	case 1:
		return p3 - p0
	case 2:
		if e01 {
			p1 = p2
		}
		return (p1 - p0).Mul(2)
	}
	return (p1 - p0).Mul(3)
}

// ExpandToFeatherDistance computes the feather extent for feather point fp
// of control point cp, at a given feather distance.
//
// If fp and cp differ, the extent lies on the ray from cp through fp,
// at distance |fp-cp| + featherDistance (Thales). Otherwise the direction is
// taken perpendicular to the derivatives of the feather spline at the vertex,
// given by its neighbours prev and next, after transforming them by m.
// The perpendicular is oriented outwards according to clockwise.
// If all derivatives vanish, fp is returned unchanged.
func ExpandToFeatherDistance(cp, fp roto.Pair, featherDistance roto.Pair, clockwise bool,
	m roto.AT, prev, cur, next Vertex) roto.Pair {
	//
	if featherDistance == 0 {
		return fp
	}
	if cp != fp {
		d := fp - cp
		dist := d.Abs()
		delta := roto.P(
			d.X()*(dist+featherDistance.X())/dist,
			d.Y()*(dist+featherDistance.Y())/dist,
		)
		return cp + delta
	}
	prev, cur, next = prev.Transformed(m), cur.Transformed(m), next.Transformed(m)
	left := LeftDerivative(prev, cur)
	right := RightDerivative(cur, next)
	dir := right - left
	if dir.Abs() == 0 {
		// both derivatives cancel, use the left one alone
		dir = -left
	}
	var delta roto.Pair
	if norm := dir.Abs(); norm != 0 {
		delta = roto.P(-dir.Y()/norm, dir.X()/norm)
	}
	delta = roto.P(delta.X()*featherDistance.X(), delta.Y()*featherDistance.Y())
	if clockwise {
		return cp + delta
	}
	return cp - delta
}

// PointLineIntersection returns the contribution of the edge p1→p2 to the
// winding number of pos: +1 for an upward edge crossing the horizontal ray
// to the left of pos, -1 for a downward one, 0 otherwise. Horizontal edges
// never contribute.
func PointLineIntersection(p1, p2, pos roto.Pair) int {
	x1, y1, x2, y2 := p1.X(), p1.Y(), p2.X(), p2.Y()
	if y1 == y2 {
		return 0
	}
	dir := 1
	if y2 < y1 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
		dir = -1
	}
	y := pos.Y()
	if y >= y1 && y < y2 {
		x := x1 + (x2-x1)/(y2-y1)*(y-y1)
		if x <= pos.X() {
			return dir
		}
	}
	return 0
}

// Winding returns the winding number of pos with respect to the closed
// polygon through points.
func Winding(points []roto.Pair, pos roto.Pair) int {
	w := 0
	n := len(points)
	for i := 0; i < n; i++ {
		w += PointLineIntersection(points[i], points[(i+1)%n], pos)
	}
	return w
}

// SignedArea computes the area of the control polygon of a spline by a fan of
// triangles from its first vertex. The polygon runs through every position
// and tangent handle in drawing order. Positive values denote counter-clockwise
// orientation in a y-up coordinate system.
func SignedArea(vertices []Vertex, closed bool) float64 {
	n := len(vertices)
	if n <= 1 {
		return 0
	}
	var poly []roto.Pair
	for i := 0; i < n-1; i++ {
		if i > 0 {
			poly = append(poly, vertices[i].P)
		}
		poly = append(poly, vertices[i].Right, vertices[i+1].Left)
	}
	poly = append(poly, vertices[n-1].P)
	if closed {
		poly = append(poly, vertices[n-1].Right, vertices[0].Left)
	}
	origin := vertices[0].P
	area := 0.0
	for i := range poly {
		u := poly[i] - origin
		v := poly[(i+1)%len(poly)] - origin
		area += (v.Y()*u.X() - v.X()*u.Y()) / 2
	}
	return area
}

// IsClockwise decides the orientation of a spline from the sign of its
// SignedArea. Splines with fewer than two vertices are not clockwise.
func IsClockwise(vertices []Vertex, closed bool) bool {
	return SignedArea(vertices, closed) < 0
}
