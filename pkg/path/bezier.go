package path

import "github.com/Faultbox/automover/pkg/math"

// BezierPoint evaluates the Bézier curve defined by points at parameter t
// using de Casteljau's algorithm. It returns the zero vector for no points.
func BezierPoint(points []math.Vec3, t float32) math.Vec3 {
	switch len(points) {
	case 0:
		return math.Vec3{}
	case 1:
		return points[0]
	case 2:
		return points[0].Lerp(points[1], t)
	}
	work := append([]math.Vec3(nil), points...)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0]
}

// BezierTangent returns the derivative of the Bézier curve at t.
func BezierTangent(points []math.Vec3, t float32) math.Vec3 {
	n := len(points) - 1
	if n < 1 {
		return math.Vec3{}
	}
	diffs := make([]math.Vec3, n)
	for i := range diffs {
		diffs[i] = points[i+1].Sub(points[i]).Scale(float32(n))
	}
	return BezierPoint(diffs, t)
}
