// Package math provides the vector and rotation types used by motion paths.
package math

import "math"

// Vec3 is a 3D vector. It holds both positions and Euler rotations in degrees.
type Vec3 struct {
	X float32 `yaml:"x" json:"x"`
	Y float32 `yaml:"y" json:"y"`
	Z float32 `yaml:"z" json:"z"`
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Lerp interpolates linearly from v to other. t is not clamped.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		v.X + t*(other.X-v.X),
		v.Y + t*(other.Y-v.Y),
		v.Z + t*(other.Z-v.Z),
	}
}

// NonNegative returns v with negative components replaced by zero.
func (v Vec3) NonNegative() Vec3 {
	return Vec3{max(v.X, 0), max(v.Y, 0), max(v.Z, 0)}
}

// MoveTowards moves each component of v toward target by at most the
// matching component of maxDelta, never overshooting.
func (v Vec3) MoveTowards(target, maxDelta Vec3) Vec3 {
	return Vec3{
		moveTowards(v.X, target.X, maxDelta.X),
		moveTowards(v.Y, target.Y, maxDelta.Y),
		moveTowards(v.Z, target.Z, maxDelta.Z),
	}
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	d := v.Sub(other)
	return abs(d.X) <= eps && abs(d.Y) <= eps && abs(d.Z) <= eps
}

func moveTowards(current, target, maxDelta float32) float32 {
	if abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
