package spline

import (
	"fmt"
	"slices"

	"github.com/npillmayer/roto"
	"github.com/npillmayer/roto/bezier"
	"github.com/npillmayer/roto/jhobby"
)

// Selection tells which points of a vertex an operation addresses.
type Selection int8

// Selections, in the order of the mode values used by editing front ends.
const (
	Both Selection = iota
	ControlOnly
	FeatherOnly
)

// cuspLimit is the length of freshly smoothed tangents, in pixels.
const cuspLimit = 25.0

// DefaultPixelScale is the pixel scale of an unzoomed viewer.
var DefaultPixelScale = roto.P(1, 1)

func indexError(index, n int) error {
	return fmt.Errorf("%w: control point index %d out of range [0,%d)", roto.ErrInvalidArgument, index, n)
}

// keyMode decides how an edit at time writes the values of cps: as keyframes
// (true) or as static values (false). Points keyed at time or auto-keying
// call for keyframes. Animated points without a keyframe at time cannot be
// edited without auto-keying.
func (s *Spline) keyMode(time float64, cps ...*ControlPoint) (bool, error) {
	for _, cp := range cps {
		if cp.HasKeyframeAt(time) {
			return true, nil
		}
	}
	if s.policy.AutoKeying() {
		return true, nil
	}
	for _, cp := range cps {
		if cp.IsAnimated() {
			tracer().Errorf("edit at %g rejected: no keyframe and auto-keying off", time)
			return false, fmt.Errorf("%w: no keyframe at time %g and auto-keying disabled",
				roto.ErrPrecondition, time)
		}
	}
	return false, nil
}

// vertexAt returns the control point and feather point at index, for
// editing. Caller must hold the lock.
func (s *Spline) vertexAt(sh *shape, index int) (*ControlPoint, *ControlPoint, error) {
	if index < 0 || index >= len(sh.points) {
		return nil, nil, indexError(index, len(sh.points))
	}
	return sh.points[index], sh.feathers[index], nil
}

func (s *Spline) newPoint(feather bool) *ControlPoint {
	cp := NewControlPoint(s.factory, feather)
	cp.owner = s
	return cp
}

// AddControlPoint appends a vertex at (x,y) to the shape. Its feather point
// coincides with it. With auto-keying, the new vertex is keyed at time for an
// empty shape, and at the first shape keyframe otherwise. It returns the
// index of the new vertex.
//
// Finished shapes cannot grow, AddControlPoint returns ErrInvalidState for
// them.
func (s *Spline) AddControlPoint(x, y, time float64, view int) (int, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	views := s.viewsFor(view)
	for _, v := range views {
		if s.shapes[v].finished {
			tracer().Errorf("cannot add control point to finished curve in view %d", v)
			return -1, fmt.Errorf("%w: curve is finished", roto.ErrInvalidState)
		}
	}
	index := -1
	for _, v := range views {
		sh := s.shapes[v]
		keyTime := time
		if len(sh.points) > 0 {
			if k, ok := sh.keys.First(); ok {
				keyTime = k
			}
		}
		autokey := s.policy.AutoKeying()
		cp, fp := s.newPoint(false), s.newPoint(true)
		vtx := bezier.V(roto.P(x, y))
		cp.setVertex(keyTime, vtx, autokey)
		fp.setVertex(keyTime, vtx, autokey)
		if autokey {
			sh.keys.Add(keyTime)
		}
		sh.points = append(slices.Clip(sh.points), cp)
		sh.feathers = append(slices.Clip(sh.feathers), fp)
		index = len(sh.points) - 1
		tracer().Infof("control point %d added at (%g,%g) in view %d", index, x, y, v)
	}
	return index, nil
}

// AddControlPointAfterIndex inserts a vertex into the segment starting at
// index, at parameter t. The segment is split by de Casteljau's algorithm at
// every shape keyframe (or once, for a static shape), so the curve keeps its
// shape. Index -1 splits the segment from the last to the first vertex and
// inserts at position 0. It returns the index of the new vertex.
func (s *Spline) AddControlPointAfterIndex(index int, t float64, view int) (int, error) {
	if t < 0 || t > 1 {
		return -1, fmt.Errorf("%w: parameter %g not in [0,1]", roto.ErrInvalidArgument, t)
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	n := len(sh.points)
	if index < -1 || index >= n || n == 0 {
		return -1, indexError(index, n)
	}
	prev, next := index, index+1
	if index == -1 {
		prev, next = n-1, 0
	} else if next == n {
		if !sh.finished {
			return -1, fmt.Errorf("%w: no segment after last point of open curve", roto.ErrInvalidArgument)
		}
		next = 0
	}
	// neighbours are replaced by copies, earlier snapshots keep their tangents
	points, feathers := slices.Clone(sh.points), slices.Clone(sh.feathers)
	for _, i := range []int{prev, next} {
		if points[i] == sh.points[i] {
			points[i] = sh.points[i].clone(s)
			feathers[i] = sh.feathers[i].clone(s)
		}
	}
	cp, fp := s.newPoint(false), s.newPoint(true)
	split := func(time float64, keyed bool) {
		for _, trip := range [][3]*ControlPoint{
			{points[prev], points[next], cp},
			{feathers[prev], feathers[next], fp},
		} {
			a, b, p := trip[0], trip[1], trip[2]
			d := bezier.Split(a.PositionAt(time), a.RightAt(time), b.LeftAt(time), b.PositionAt(time), t)
			if keyed {
				a.SetRightAt(time, d.P01)
				b.SetLeftAt(time, d.P23)
			} else {
				a.SetStaticRight(d.P01)
				b.SetStaticLeft(d.P23)
			}
			p.setVertex(time, bezier.Vertex{P: d.Dest, Left: d.P012, Right: d.P123}, keyed)
		}
	}
	if times := sh.keys.Times(); len(times) > 0 {
		for _, k := range times {
			split(k, true)
		}
	} else {
		split(0, false)
	}
	at := index + 1
	sh.points = slices.Insert(points, at, cp)
	sh.feathers = slices.Insert(feathers, at, fp)
	tracer().Infof("control point inserted at %d, t = %g", at, t)
	return at, nil
}

// RemoveControlPoint deletes the vertex at index together with its feather
// point. Vertices after it move down by one.
func (s *Spline) RemoveControlPoint(index, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	views := s.viewsFor(view)
	for _, v := range views {
		if n := len(s.shapes[v].points); index < 0 || index >= n {
			return indexError(index, n)
		}
	}
	for _, v := range views {
		sh := s.shapes[v]
		sh.points = slices.Delete(slices.Clone(sh.points), index, index+1)
		sh.feathers = slices.Delete(slices.Clone(sh.feathers), index, index+1)
		tracer().Infof("control point %d removed from view %d", index, v)
	}
	return nil
}

// shift moves all three points of cp by delta, given in canvas space, at
// time. m and inv are the shape transform and its inverse.
func shift(cp *ControlPoint, time float64, delta roto.Pair, m, inv roto.AT, keyed bool) {
	v := cp.Vertex(time, m)
	v = bezier.Vertex{P: v.P + delta, Left: v.Left + delta, Right: v.Right + delta}
	cp.setVertex(time, v.Transformed(inv), keyed)
}

// inverse returns the shape transform and its inverse. Singular transforms
// are replaced by the identity. Caller must hold the lock.
func (s *Spline) inverse() (roto.AT, roto.AT) {
	inv, ok := s.transform.Inverse()
	if !ok {
		return nil, nil
	}
	return s.transform, inv
}

// MovePoint translates the vertex at index by delta, given in canvas space.
// If onlyFeather is set, only the feather point moves. Otherwise the feather
// point follows if feather link is enabled or if it coincides with the
// control point. With ripple edit, the delta is applied at every shape
// keyframe as well.
//
// Animated vertices without a keyframe at time can only be moved with
// auto-keying enabled; MovePoint returns ErrPrecondition otherwise.
func (s *Spline) MovePoint(index int, time float64, delta roto.Pair, onlyFeather bool, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	var targets []*ControlPoint
	if !onlyFeather {
		targets = append(targets, cp)
	}
	if onlyFeather || s.policy.FeatherLink() || cp.EqualsAtTime(fp, time) {
		targets = append(targets, fp)
	}
	keyed, err := s.keyMode(time, cp, fp)
	if err != nil {
		return err
	}
	m, inv := s.inverse()
	for _, p := range targets {
		shift(p, time, delta, m, inv, keyed)
	}
	if keyed {
		sh.keys.Add(time)
	}
	if s.policy.RippleEdit() {
		for _, k := range sh.keys.Times() {
			if k == time {
				continue
			}
			for _, p := range targets {
				shift(p, k, delta, m, inv, true)
			}
		}
	}
	tracer().Debugf("moved point %d by %v at %g", index, delta, time)
	return nil
}

// MoveFeather translates the feather point at index by delta.
func (s *Spline) MoveFeather(index int, time float64, delta roto.Pair, view int) error {
	return s.MovePoint(index, time, delta, true, view)
}

// SetPoint moves the vertex at index to position p, given in canvas space.
// Tangent handles keep their offsets.
func (s *Spline) SetPoint(index int, time float64, p roto.Pair, view int) error {
	cp, ok := s.ControlPointAt(index, view)
	if !ok {
		return indexError(index, s.ControlPointsCount(view))
	}
	cur := s.Transform().Transform(cp.PositionAt(time))
	return s.MovePoint(index, time, p-cur, false, view)
}

// moveTangent moves one tangent handle of the vertex at index by delta, in
// shape space. Unless breakTangents is set, the opposite handle is moved by
// -delta to keep the tangent continuous.
func (s *Spline) moveTangent(index int, time float64, delta roto.Pair, left, breakTangents bool, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	keyed, err := s.keyMode(time, cp, fp)
	if err != nil {
		return err
	}
	targets := []*ControlPoint{cp}
	if s.policy.FeatherLink() || cp.EqualsAtTime(fp, time) {
		targets = append(targets, fp)
	}
	move := func(p *ControlPoint, at float64, keyed bool) {
		v := p.Vertex(at, nil)
		d, o := &v.Right, &v.Left
		if left {
			d, o = o, d
		}
		*d += delta
		if !breakTangents {
			*o -= delta
		}
		p.setVertex(at, v, keyed)
	}
	for _, p := range targets {
		move(p, time, keyed)
	}
	if keyed {
		sh.keys.Add(time)
	}
	if s.policy.RippleEdit() {
		for _, k := range sh.keys.Times() {
			if k != time {
				for _, p := range targets {
					move(p, k, true)
				}
			}
		}
	}
	return nil
}

// MoveLeftTangent moves the left tangent handle of the vertex at index.
func (s *Spline) MoveLeftTangent(index int, time float64, delta roto.Pair, breakTangents bool, view int) error {
	return s.moveTangent(index, time, delta, true, breakTangents, view)
}

// MoveRightTangent moves the right tangent handle of the vertex at index.
func (s *Spline) MoveRightTangent(index int, time float64, delta roto.Pair, breakTangents bool, view int) error {
	return s.moveTangent(index, time, delta, false, breakTangents, view)
}

// SetLeftTangent sets the left tangent handle of the vertex at index to the
// absolute position p, in shape space.
func (s *Spline) SetLeftTangent(index int, time float64, p roto.Pair, view int) error {
	cp, ok := s.ControlPointAt(index, view)
	if !ok {
		return indexError(index, s.ControlPointsCount(view))
	}
	return s.moveTangent(index, time, p-cp.LeftAt(time), true, true, view)
}

// SetRightTangent sets the right tangent handle of the vertex at index to
// the absolute position p, in shape space.
func (s *Spline) SetRightTangent(index int, time float64, p roto.Pair, view int) error {
	cp, ok := s.ControlPointAt(index, view)
	if !ok {
		return indexError(index, s.ControlPointsCount(view))
	}
	return s.moveTangent(index, time, p-cp.RightAt(time), false, true, view)
}

// SetPointAtIndex sets position and both tangent handles of the control
// point, the feather point, or both, at index.
func (s *Spline) SetPointAtIndex(which Selection, index int, time float64, v bezier.Vertex, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	keyed, err := s.keyMode(time, cp, fp)
	if err != nil {
		return err
	}
	if which != FeatherOnly {
		cp.setVertex(time, v, keyed)
	}
	if which != ControlOnly {
		fp.setVertex(time, v, keyed)
	}
	if keyed {
		sh.keys.Add(time)
	}
	return nil
}

// TransformPoint applies m to the vertex at index, in shape space. The
// feather point follows if feather link is enabled or if it coincides with
// the control point.
func (s *Spline) TransformPoint(index int, time float64, m roto.AT, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	keyed, err := s.keyMode(time, cp, fp)
	if err != nil {
		return err
	}
	linked := s.policy.FeatherLink() || cp.EqualsAtTime(fp, time)
	cp.setVertex(time, cp.Vertex(time, m), keyed)
	if linked {
		fp.setVertex(time, fp.Vertex(time, m), keyed)
	}
	if keyed {
		sh.keys.Add(time)
	}
	return nil
}

// RemoveFeatherAtIndex collapses the feather point at index onto its
// control point, copying all keyframes.
func (s *Spline) RemoveFeatherAtIndex(index, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	fp.copyFrom(cp)
	return nil
}

// SmoothPoint smoothes the vertex at index, see SmoothOrCusp.
func (s *Spline) SmoothPoint(index int, time float64, pixelScale roto.Pair, view int) error {
	return s.SmoothOrCusp(index, time, true, pixelScale, view)
}

// CuspPoint turns the vertex at index into a corner, see SmoothOrCusp.
func (s *Spline) CuspPoint(index int, time float64, pixelScale roto.Pair, view int) error {
	return s.SmoothOrCusp(index, time, false, pixelScale, view)
}

// SmoothOrCusp changes the tangents of the vertex at index, for the control
// point as well as for the feather point.
//
// Smoothing lengthens both tangents by 10%. Collapsed tangents are pulled
// out along the direction of the curve, to a length of 25 pixels at the
// given pixel scale. Cusping collapses both tangents onto the point.
func (s *Spline) SmoothOrCusp(index int, time float64, smooth bool, pixelScale roto.Pair, view int) error {
	if pixelScale == 0 {
		pixelScale = DefaultPixelScale
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	cp, fp, err := s.vertexAt(sh, index)
	if err != nil {
		return err
	}
	keyed, err := s.keyMode(time, cp, fp)
	if err != nil {
		return err
	}
	m, inv := s.inverse()
	for _, list := range [][]*ControlPoint{sh.points, sh.feathers} {
		p := list[index]
		var v bezier.Vertex
		if smooth {
			v = smoothVertex(list, index, time, m, pixelScale)
		} else {
			v = bezier.V(p.Vertex(time, m).P)
		}
		v = v.Transformed(inv)
		p.setVertex(time, v, keyed)
		if s.policy.RippleEdit() {
			for _, k := range sh.keys.Times() {
				if k != time {
					p.set(leftTangent, k, v.Left)
					p.set(rightTangent, k, v.Right)
				}
			}
		}
	}
	if keyed {
		sh.keys.Add(time)
	}
	tracer().Debugf("point %d smooth=%v at %g", index, smooth, time)
	return nil
}

// smoothVertex computes the smoothed vertex at index of list, in canvas
// space.
func smoothVertex(list []*ControlPoint, index int, time float64, m roto.AT, pixelScale roto.Pair) bezier.Vertex {
	n := len(list)
	v := list[index].Vertex(time, m)
	lengthen := func(tan roto.Pair) roto.Pair {
		return v.P + (tan - v.P).Mul(1.1)
	}
	if v.Left != v.P && v.Right != v.P {
		return bezier.Vertex{P: v.P, Left: lengthen(v.Left), Right: lengthen(v.Right)}
	}
	if n == 1 {
		return v
	}
	prev := list[(index-1+n)%n].Vertex(time, m)
	next := list[(index+1)%n].Vertex(time, m)
	ld := bezier.LeftDerivative(prev, v)
	rd := bezier.RightDerivative(v, next)
	dir := (rd - ld).Unit()
	if dir == 0 {
		dir = (-ld).Unit()
	}
	delta := roto.P(dir.X()*cuspLimit*pixelScale.X(), dir.Y()*cuspLimit*pixelScale.Y())
	if v.Left == v.P {
		v.Left = v.P - delta
	} else {
		v.Left = lengthen(v.Left)
	}
	if v.Right == v.P {
		v.Right = v.P + delta
	} else {
		v.Right = lengthen(v.Right)
	}
	return v
}

// AutoSmooth sets the tangents of all vertices at time to those of a Hobby
// spline through the vertex positions, with the given tension (0 meaning 1).
// Feather tangents get the same offsets from their feather points.
func (s *Spline) AutoSmooth(time, tension float64, view int) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	sh := s.shapes[s.viewKey(view)]
	knots := jhobby.Knots{
		Points:  make([]roto.Pair, len(sh.points)),
		Cycle:   sh.finished,
		Tension: tension,
	}
	for i, cp := range sh.points {
		knots.Points[i] = cp.PositionAt(time)
	}
	handles, err := jhobby.Solve(knots)
	if err != nil {
		return err
	}
	keyed, err := s.keyMode(time, append(slices.Clone(sh.points), sh.feathers...)...)
	if err != nil {
		return err
	}
	for i, cp := range sh.points {
		p := knots.Points[i]
		cp.setVertex(time, bezier.Vertex{P: p, Left: handles.Pre[i], Right: handles.Post[i]}, keyed)
		fp := sh.feathers[i]
		q := fp.PositionAt(time)
		fp.setVertex(time, bezier.Vertex{P: q, Left: q + handles.Pre[i] - p, Right: q + handles.Post[i] - p}, keyed)
	}
	if keyed {
		sh.keys.Add(time)
	}
	return nil
}
