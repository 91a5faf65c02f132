package bezier

import (
	"fmt"
	"math"

	"github.com/npillmayer/roto"
)

// Options control the flattening of a spline.
type Options struct {
	Closed          bool      // add the segment from the last vertex back to the first
	Transform       roto.AT   // applied to vertices before scaling; nil means identity
	Scale           roto.Pair // render scale, multiplies coordinates; 0 means (1,1)
	FeatherDistance float64   // offset of the polyline along its normals
	Clockwise       bool      // orientation of the spline, decides the offset side
	Algorithm       Algorithm
	PointCount      int     // samples per segment for Iterative, or AutoPointCount
	Spacing         float64 // with AutoPointCount: sample distance along the arc, 0 for estimate
	ErrorScale      float64 // flatness scale for Recursive; 0 means DefaultErrorScale
	ControlBbox     bool    // merge the tight segment bounds into the bbox
}

// DefaultOptions returns options for an open spline, evaluated iteratively
// with automatic point count.
func DefaultOptions() Options {
	return Options{
		Scale:      roto.P(1, 1),
		Algorithm:  Iterative,
		PointCount: AutoPointCount,
		ErrorScale: DefaultErrorScale,
	}
}

func (opt Options) scale() roto.Pair {
	if opt.Scale == 0 {
		return roto.P(1, 1)
	}
	return opt.Scale
}

func (opt Options) validate() error {
	if opt.Algorithm == Iterative && opt.PointCount != AutoPointCount && opt.PointCount < 2 {
		return fmt.Errorf("%w: point count per segment must be at least 2 or auto, is %d",
			roto.ErrInvalidArgument, opt.PointCount)
	}
	if opt.ErrorScale < 0 || math.IsNaN(opt.ErrorScale) {
		return fmt.Errorf("%w: error scale must be positive, is %g", roto.ErrInvalidArgument, opt.ErrorScale)
	}
	return nil
}

// Flatten evaluates a spline into a single polyline by de Casteljau's
// algorithm, segment by segment. Adjacent segments share their junction
// point, which is emitted only once.
//
// If opt.FeatherDistance is not zero, every produced point is moved along
// the normal of its neighbours, towards the outside of the spline as told
// by opt.Clockwise.
//
// Flatten returns the points together with their bounding box.
func Flatten(vertices []Vertex, opt Options) ([]ParametricPoint, roto.Rect, error) {
	if err := opt.validate(); err != nil {
		return nil, roto.NullRect(), err
	}
	if len(vertices) == 0 {
		return nil, roto.NullRect(), nil
	}
	s := opt.scale()
	tv := make([]Vertex, len(vertices))
	for i, v := range vertices {
		tv[i] = v.Transformed(opt.Transform).Scaled(s)
	}
	bbox := roto.NullRect()
	var points []ParametricPoint
	if len(tv) == 1 {
		points = append(points, ParametricPoint{P: tv[0].P})
	}
	nseg := SegmentCount(len(tv), opt.Closed)
	for i := 0; i < nseg; i++ {
		p0, p1, p2, p3 := Segment(tv, i)
		skipFirst := opt.Closed || i > 0
		if opt.ControlBbox {
			bbox = bbox.Merge(ExactSegmentBounds(p0, p1, p2, p3))
		}
		switch opt.Algorithm {
		case Recursive:
			points = RecursiveSegment(p0, p1, p2, p3, i, skipFirst, opt.ErrorScale, points)
		default:
			n := opt.PointCount
			if n == AutoPointCount && opt.Spacing > 0 {
				n = ArclenPointCount(p0, p1, p2, p3, opt.Spacing)
			}
			points = IterativeSegment(p0, p1, p2, p3, i, skipFirst, n, points)
		}
	}
	if opt.FeatherDistance != 0 {
		offsetPoints(points, roto.P(opt.FeatherDistance*s.X(), opt.FeatherDistance*s.Y()), opt.Clockwise)
	}
	for _, pp := range points {
		bbox = bbox.MergePoint(pp.P)
	}
	tracer().Debugf("flattened %d vertices into %d points (%s), bbox = %s",
		len(vertices), len(points), opt.Algorithm, bbox)
	return points, bbox, nil
}

// AutoCount computes the number of samples for a segment from the length of
// its closed control polygon P0-P1-P2-P3-P0. Longer and curvier segments
// get denser sampling.
func AutoCount(p0, p1, p2, p3 roto.Pair) int {
	length := ControlPolygonLength(p0, p1, p2, p3) + p3.Dist(p0)
	return int(math.Max(length*0.25, 2))
}

// IterativeSegment appends n uniformly spaced samples of a segment to points
// (n-1 if skipFirst is set, omitting t=0). If n is AutoPointCount, the
// sample count is derived by AutoCount.
func IterativeSegment(p0, p1, p2, p3 roto.Pair, segment int, skipFirst bool, n int,
	points []ParametricPoint) []ParametricPoint {
	//
	if n == AutoPointCount {
		n = AutoCount(p0, p1, p2, p3)
	}
	if n < 2 {
		n = 2
	}
	incr := 1 / float64(n-1)
	i := 0
	if skipFirst {
		i = 1
	}
	for ; i < n; i++ {
		t := incr * float64(i)
		if i == n-1 {
			t = 1
		}
		points = append(points, ParametricPoint{
			P:       Eval(p0, p1, p2, p3, t),
			T:       float64(segment) + t,
			Segment: segment,
		})
	}
	return points
}

// RecursiveSegment appends an adaptive polyline of a segment to points.
// Segments are split at their midpoint until the distance of the inner
// control points from the chord falls below a tolerance of 0.5/errorScale,
// or MaxRecursion is reached.
func RecursiveSegment(p0, p1, p2, p3 roto.Pair, segment int, skipFirst bool, errorScale float64,
	points []ParametricPoint) []ParametricPoint {
	//
	if errorScale <= 0 {
		errorScale = DefaultErrorScale
	}
	if !skipFirst {
		points = append(points, ParametricPoint{P: p0, T: float64(segment), Segment: segment})
	}
	tol := 0.5 / errorScale
	a := adaptive{
		segment: segment,
		tol2:    tol * tol,
		points:  points,
	}
	a.subdivide(p0, p1, p2, p3, 0, 1.0/3, 2.0/3, 1, 0)
	return append(a.points, ParametricPoint{P: p3, T: float64(segment) + 1, Segment: segment})
}

// adaptive collects the points of an adaptive subdivision.
type adaptive struct {
	segment int
	tol2    float64 // squared distance tolerance
	points  []ParametricPoint
}

const collinearityEps = 1e-30

// add appends p unless it equals the last collected point.
func (a *adaptive) add(p roto.Pair, t float64) {
	if n := len(a.points); n > 0 && a.points[n-1].P == p {
		return
	}
	a.points = append(a.points, ParametricPoint{P: p, T: float64(a.segment) + t, Segment: a.segment})
}

func (a *adaptive) subdivide(p0, p1, p2, p3 roto.Pair, t0, t1, t2, t3 float64, level int) {
	if level > MaxRecursion {
		return
	}
	if a.flatEnough(p0, p1, p2, p3, t1, t2) {
		return
	}
	s := Split(p0, p1, p2, p3, 0.5)
	t01, t12, t23 := (t0+t1)/2, (t1+t2)/2, (t2+t3)/2
	t012, t123 := (t01+t12)/2, (t12+t23)/2
	tm := (t012 + t123) / 2
	a.subdivide(p0, s.P01, s.P012, s.Dest, t0, t01, t012, tm, level+1)
	a.subdivide(s.Dest, s.P123, s.P23, p3, tm, t123, t23, t3, level+1)
}

// flatEnough checks the flatness criterion. If the segment is flat, it adds
// the point representing the segment and returns true.
func (a *adaptive) flatEnough(p0, p1, p2, p3 roto.Pair, t1, t2 float64) bool {
	d := p3 - p0
	d2 := math.Abs((p1 - p3).Cross(d))
	d3 := math.Abs((p2 - p3).Cross(d))
	chord2 := d.Abs2()
	mid := p1.Lerp(p2, 0.5)
	tmid := (t1 + t2) / 2
	switch {
	case d2 <= collinearityEps && d3 <= collinearityEps:
		// all collinear, or p0 == p3
		if chord2 == 0 {
			d2, d3 = (p1 - p0).Abs2(), (p3 - p2).Abs2()
		} else {
			k2 := (p1 - p0).Dot(d) / chord2
			k3 := (p2 - p0).Dot(d) / chord2
			if k2 > 0 && k2 < 1 && k3 > 0 && k3 < 1 {
				// simple collinear case, 0---1---2---3
				return true
			}
			d2 = distToChord2(p1, p0, p3, k2)
			d3 = distToChord2(p2, p0, p3, k3)
		}
		if d2 > d3 {
			if d2 < a.tol2 {
				a.add(p1, t1)
				return true
			}
		} else if d3 < a.tol2 {
			a.add(p2, t2)
			return true
		}
	case d2 <= collinearityEps:
		// p0, p1, p3 collinear, p2 is significant
		if d3*d3 <= a.tol2*chord2 {
			a.add(mid, tmid)
			return true
		}
	case d3 <= collinearityEps:
		// p0, p2, p3 collinear, p1 is significant
		if d2*d2 <= a.tol2*chord2 {
			a.add(mid, tmid)
			return true
		}
	default:
		if (d2+d3)*(d2+d3) <= a.tol2*chord2 {
			a.add(mid, tmid)
			return true
		}
	}
	return false
}

// distToChord2 is the squared distance of p from the chord p0-p3, where k is
// the projection parameter of p onto the chord.
func distToChord2(p, p0, p3 roto.Pair, k float64) float64 {
	switch {
	case k <= 0:
		return (p - p0).Abs2()
	case k >= 1:
		return (p - p3).Abs2()
	}
	return (p - p0.Lerp(p3, k)).Abs2()
}

// offsetPoints moves every point along the normal of the polyline through
// its neighbours, scaled by dist. The polyline is treated as cyclic.
func offsetPoints(points []ParametricPoint, dist roto.Pair, clockwise bool) {
	n := len(points)
	if n == 0 {
		return
	}
	orig := make([]roto.Pair, n)
	for i := range points {
		orig[i] = points[i].P
	}
	for i := range points {
		prev := orig[(i+n-1)%n]
		next := orig[(i+1)%n]
		diff := next - prev
		normal := roto.P(0, 1)
		if norm := diff.Abs(); norm != 0 {
			normal = roto.P(-diff.Y()/norm, diff.X()/norm)
		}
		delta := roto.P(normal.X()*dist.X(), normal.Y()*dist.Y())
		if clockwise {
			points[i].P += delta
		} else {
			points[i].P -= delta
		}
	}
}
