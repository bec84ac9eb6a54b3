package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{3, 4, 5}
	got := a.Add(b)
	want := Vec3{4, 6, 8}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}

	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if !got.ApproxEqual(want, 0.001) {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3NonNegative(t *testing.T) {
	got := Vec3{-1, 2, -0.5}.NonNegative()
	want := Vec3{0, 2, 0}
	if got != want {
		t.Errorf("Vec3.NonNegative() = %v, want %v", got, want)
	}
}

func TestVec3MoveTowards(t *testing.T) {
	tests := []struct {
		name     string
		current  Vec3
		target   Vec3
		maxDelta Vec3
		want     Vec3
	}{
		{"step up", Vec3{0, 0, 0}, Vec3{1, 1, 1}, Vec3{0.25, 0.5, 2}, Vec3{0.25, 0.5, 1}},
		{"step down", Vec3{1, 1, 1}, Vec3{-1, 0, 1}, Vec3{0.5, 0.5, 0.5}, Vec3{0.5, 0.5, 1}},
		{"no delta", Vec3{1, 2, 3}, Vec3{4, 5, 6}, Vec3{}, Vec3{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.current.MoveTowards(tt.target, tt.maxDelta)
			if !got.ApproxEqual(tt.want, 0.0001) {
				t.Errorf("MoveTowards() = %v, want %v", got, tt.want)
			}
		})
	}
}
