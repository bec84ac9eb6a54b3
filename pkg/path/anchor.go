// Package path builds motion paths from anchor points and maps travelled
// distance back to a pose on the path.
package path

import (
	"errors"
	"fmt"

	"github.com/Faultbox/automover/pkg/math"
)

// ErrIndexOutOfRange is returned by indexed anchor operations when the index
// does not address an existing anchor.
var ErrIndexOutOfRange = errors.New("anchor index out of range")

// Anchor is an authored waypoint. Rotation holds Euler angles in degrees.
type Anchor struct {
	Position math.Vec3 `yaml:"position" json:"position"`
	Rotation math.Vec3 `yaml:"rotation" json:"rotation"`
}

// Pose is a position and Euler rotation produced by the path.
type Pose struct {
	Position math.Vec3 `yaml:"position" json:"position"`
	Rotation math.Vec3 `yaml:"rotation" json:"rotation"`
}

// Pose returns the anchor as a pose.
func (a Anchor) Pose() Pose {
	return Pose{Position: a.Position, Rotation: a.Rotation}
}

// AnchorList is an ordered list of anchors. The order defines the
// traversal order of the path. The zero value is an empty list.
type AnchorList struct {
	anchors []Anchor
}

// NewAnchorList creates a list holding a copy of anchors.
func NewAnchorList(anchors ...Anchor) *AnchorList {
	return &AnchorList{anchors: append([]Anchor(nil), anchors...)}
}

// Clone returns an independent copy of the list.
func (l *AnchorList) Clone() *AnchorList {
	return NewAnchorList(l.anchors...)
}

// Len returns the number of anchors.
func (l *AnchorList) Len() int {
	return len(l.anchors)
}

// Add appends an anchor.
func (l *AnchorList) Add(a Anchor) {
	l.anchors = append(l.anchors, a)
}

// Get returns the anchor at index.
func (l *AnchorList) Get(index int) (Anchor, error) {
	if err := l.check(index); err != nil {
		return Anchor{}, err
	}
	return l.anchors[index], nil
}

// Set replaces the anchor at index.
func (l *AnchorList) Set(index int, a Anchor) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.anchors[index] = a
	return nil
}

// SetPosition replaces only the position of the anchor at index.
func (l *AnchorList) SetPosition(index int, p math.Vec3) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.anchors[index].Position = p
	return nil
}

// SetRotation replaces only the rotation of the anchor at index.
func (l *AnchorList) SetRotation(index int, r math.Vec3) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.anchors[index].Rotation = r
	return nil
}

// Insert places a before the anchor currently at index. An index equal to
// Len appends.
func (l *AnchorList) Insert(index int, a Anchor) error {
	if index < 0 || index > len(l.anchors) {
		return outOfRange(index, len(l.anchors))
	}
	l.anchors = append(l.anchors, Anchor{})
	copy(l.anchors[index+1:], l.anchors[index:])
	l.anchors[index] = a
	return nil
}

// Duplicate inserts a copy of the anchor at index directly after it.
func (l *AnchorList) Duplicate(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	return l.Insert(index+1, l.anchors[index])
}

// Remove deletes the anchor at index.
func (l *AnchorList) Remove(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	l.anchors = append(l.anchors[:index], l.anchors[index+1:]...)
	return nil
}

// MoveUp swaps the anchor at index with its predecessor.
// Moving the first anchor up is a no-op.
func (l *AnchorList) MoveUp(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	if index == 0 {
		return nil
	}
	l.anchors[index-1], l.anchors[index] = l.anchors[index], l.anchors[index-1]
	return nil
}

// MoveDown swaps the anchor at index with its successor.
// Moving the last anchor down is a no-op.
func (l *AnchorList) MoveDown(index int) error {
	if err := l.check(index); err != nil {
		return err
	}
	if index == len(l.anchors)-1 {
		return nil
	}
	l.anchors[index+1], l.anchors[index] = l.anchors[index], l.anchors[index+1]
	return nil
}

// MoveTo moves the anchor at from so that it ends up at index to,
// shifting the anchors in between.
func (l *AnchorList) MoveTo(from, to int) error {
	if err := l.check(from); err != nil {
		return err
	}
	if err := l.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	a := l.anchors[from]
	if from < to {
		copy(l.anchors[from:to], l.anchors[from+1:to+1])
	} else {
		copy(l.anchors[to+1:from+1], l.anchors[to:from])
	}
	l.anchors[to] = a
	return nil
}

// Anchors returns a copy of all anchors.
func (l *AnchorList) Anchors() []Anchor {
	return append([]Anchor(nil), l.anchors...)
}

// Positions returns a copy of all anchor positions.
func (l *AnchorList) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(l.anchors))
	for i, a := range l.anchors {
		out[i] = a.Position
	}
	return out
}

// Rotations returns a copy of all anchor rotations.
func (l *AnchorList) Rotations() []math.Vec3 {
	out := make([]math.Vec3, len(l.anchors))
	for i, a := range l.anchors {
		out[i] = a.Rotation
	}
	return out
}

func (l *AnchorList) check(index int) error {
	if index < 0 || index >= len(l.anchors) {
		return outOfRange(index, len(l.anchors))
	}
	return nil
}

func outOfRange(index, n int) error {
	return fmt.Errorf("%w: index %d, %d anchors", ErrIndexOutOfRange, index, n)
}
