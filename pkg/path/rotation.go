package path

import (
	gomath "math"

	"github.com/Faultbox/automover/pkg/math"
)

// Revolutions returns, per axis, the signed number of full turns that must
// be subtracted from next so that it differs from prev by at most 180 degrees.
func Revolutions(prev, next math.Vec3) math.Vec3 {
	return math.Vec3{
		X: revolutions(next.X - prev.X),
		Y: revolutions(next.Y - prev.Y),
		Z: revolutions(next.Z - prev.Z),
	}
}

func revolutions(d float32) float32 {
	switch {
	case d > 180:
		return float32(gomath.Ceil(float64((d - 180) / 360)))
	case d <= -180:
		return -float32(gomath.Ceil(float64((-d - 180) / 360)))
	}
	return 0
}

// Follow returns next shifted by whole turns so that it is the closest
// equivalent of next to prev.
func Follow(prev, next math.Vec3) math.Vec3 {
	return next.Sub(Revolutions(prev, next).Scale(360))
}

// Unwrap returns the rotation sequence used for interpolation. With
// ShortestPath every rotation is shifted by whole turns relative to its
// already unwrapped predecessor. With AbsoluteValue the values are copied
// unchanged.
func Unwrap(rotations []math.Vec3, mode RotationMode) []math.Vec3 {
	out := append([]math.Vec3(nil), rotations...)
	if mode != ShortestPath {
		return out
	}
	for i := 1; i < len(out); i++ {
		out[i] = Follow(out[i-1], out[i])
	}
	return out
}
