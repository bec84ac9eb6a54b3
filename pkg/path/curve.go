package path

import "github.com/Faultbox/automover/pkg/math"

// DefaultCurveWeight is the blend weight used to place spline control points.
const DefaultCurveWeight = 0.666666

// Options controls how Build turns anchors into a curve.
type Options struct {
	Mode     Mode
	Rotation RotationMode
	// Closed appends a copy of the first anchor so the path returns to it.
	Closed bool
	// Weight places spline control points between neighbouring anchors.
	// Values outside (0, 1) fall back to DefaultCurveWeight.
	Weight float32
}

// Segment is one Bézier piece of a curve. Position and Rotation hold the
// control points of the same parameter range; a segment with two points is
// a straight line.
type Segment struct {
	Position []math.Vec3
	Rotation []math.Vec3
}

// Degree returns the Bézier degree of the segment.
func (s Segment) Degree() int {
	return len(s.Position) - 1
}

// At evaluates the segment at parameter t in [0, 1].
func (s Segment) At(t float32) Pose {
	return Pose{
		Position: BezierPoint(s.Position, t),
		Rotation: BezierPoint(s.Rotation, t),
	}
}

// Tangent returns the positional derivative at t.
func (s Segment) Tangent(t float32) math.Vec3 {
	return BezierTangent(s.Position, t)
}

// EstimatedLength approximates the arc length as the mean of the control
// polygon length and the chord length. Both bound the true length.
func (s Segment) EstimatedLength() float32 {
	n := len(s.Position)
	if n < 2 {
		return 0
	}
	var polygon float32
	for i := 1; i < n; i++ {
		polygon += s.Position[i-1].Distance(s.Position[i])
	}
	chord := s.Position[0].Distance(s.Position[n-1])
	return (polygon + chord) / 2
}

// Curve is a sequence of segments where each segment starts at the end of
// the previous one.
type Curve struct {
	Segments []Segment
	Closed   bool
}

// Build creates the curve through anchors. Fewer than two anchors yield a
// curve without segments.
func Build(anchors []Anchor, opts Options) *Curve {
	c := &Curve{Closed: opts.Closed}
	if len(anchors) < 2 {
		return c
	}

	pos := make([]math.Vec3, len(anchors), len(anchors)+1)
	rot := make([]math.Vec3, len(anchors), len(anchors)+1)
	for i, a := range anchors {
		pos[i] = a.Position
		rot[i] = a.Rotation
	}
	rot = Unwrap(rot, opts.Rotation)

	if opts.Closed {
		pos = append(pos, pos[0])
		closing := rot[0]
		if opts.Rotation == ShortestPath {
			closing = Follow(rot[len(rot)-1], closing)
		}
		rot = append(rot, closing)
	}

	switch opts.Mode {
	case SingleBezier:
		c.Segments = []Segment{{Position: pos, Rotation: rot}}
	case Spline:
		w := opts.Weight
		if w <= 0 || w >= 1 {
			w = DefaultCurveWeight
		}
		c.Segments = splineSegments(pos, rot, w, opts.Closed, opts.Rotation)
	default:
		c.Segments = make([]Segment, len(pos)-1)
		for i := range c.Segments {
			c.Segments[i] = Segment{
				Position: []math.Vec3{pos[i], pos[i+1]},
				Rotation: []math.Vec3{rot[i], rot[i+1]},
			}
		}
	}
	return c
}

// splineSegments places two control points on every anchor pair and joins
// the cubic pieces at the midpoints of the control points around each
// inner anchor, so neighbouring pieces share position and tangent.
func splineSegments(pos, rot []math.Vec3, w float32, closed bool, mode RotationMode) []Segment {
	ctrl := splineControls(pos, w)
	rctrl := splineControls(rot, w)
	ends := splineJoins(pos, ctrl)
	rends := splineJoins(rot, rctrl)

	if closed {
		last := len(ends) - 1
		mid := ctrl[0].Lerp(ctrl[len(ctrl)-1], 0.5)
		ends[0], ends[last] = mid, mid

		tail := rctrl[len(rctrl)-1]
		if mode == ShortestPath {
			tail = Follow(rctrl[0], tail)
		}
		rmid := rctrl[0].Lerp(tail, 0.5)
		rends[0], rends[last] = rmid, rmid
		if mode == ShortestPath {
			rends[last] = Follow(rends[last-1], rmid)
		}
	}

	segs := make([]Segment, len(pos)-1)
	for c := range segs {
		segs[c] = Segment{
			Position: []math.Vec3{ends[c], ctrl[2*c], ctrl[2*c+1], ends[c+1]},
			Rotation: []math.Vec3{rends[c], rctrl[2*c], rctrl[2*c+1], rends[c+1]},
		}
	}
	return segs
}

func splineControls(points []math.Vec3, w float32) []math.Vec3 {
	ctrl := make([]math.Vec3, 2*(len(points)-1))
	for i := 0; i < len(points)-1; i++ {
		ctrl[2*i] = points[i].Scale(w).Add(points[i+1].Scale(1 - w))
		ctrl[2*i+1] = points[i].Scale(1 - w).Add(points[i+1].Scale(w))
	}
	return ctrl
}

// splineJoins returns the segment end points. The outer ones are the raw
// first and last points; callers overwrite them for closed curves.
func splineJoins(points, ctrl []math.Vec3) []math.Vec3 {
	ends := make([]math.Vec3, len(points))
	for i := 1; i < len(points)-1; i++ {
		ends[i] = ctrl[2*i-1].Lerp(ctrl[2*i], 0.5)
	}
	ends[0] = points[0]
	ends[len(ends)-1] = points[len(points)-1]
	return ends
}

// Empty reports whether the curve has no segments.
func (c *Curve) Empty() bool {
	return len(c.Segments) == 0
}

// At evaluates the curve at u in [0, 1], where every segment covers an
// equal share of the parameter range. This is not arc-length uniform.
func (c *Curve) At(u float32) Pose {
	if c.Empty() {
		return Pose{}
	}
	n := len(c.Segments)
	u = min(max(u, 0), 1)
	scaled := u * float32(n)
	i := int(scaled)
	if i >= n {
		i = n - 1
	}
	return c.Segments[i].At(scaled - float32(i))
}

// Start returns the pose at the beginning of the curve.
func (c *Curve) Start() Pose {
	return c.At(0)
}

// End returns the pose at the end of the curve.
func (c *Curve) End() Pose {
	return c.At(1)
}

// Sample returns n positions spread uniformly in the curve parameter,
// both ends included. It is meant for drawing the path.
func (c *Curve) Sample(n int) []math.Vec3 {
	if c.Empty() || n < 1 {
		return nil
	}
	if n == 1 {
		return []math.Vec3{c.Start().Position}
	}
	out := make([]math.Vec3, n)
	for i := range out {
		out[i] = c.At(float32(i) / float32(n-1)).Position
	}
	return out
}

// EstimatedLength sums the segment estimates.
func (c *Curve) EstimatedLength() float32 {
	var total float32
	for _, s := range c.Segments {
		total += s.EstimatedLength()
	}
	return total
}
