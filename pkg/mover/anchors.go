package mover

import (
	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/path"
)

// editAnchors applies op to a copy of the anchor list. On success the copy
// replaces the list, restarting precomputed playback. A failed op leaves
// the list and playback untouched.
func (p *Player) editAnchors(reason string, op func(*path.AnchorList) error) error {
	next := p.anchors.Clone()
	if err := op(next); err != nil {
		return err
	}
	apply := func() {
		p.anchors = next
		p.version++
	}
	if p.settings.Precompute {
		p.restart(reason, apply)
	} else {
		apply()
	}
	return nil
}

// AddAnchor appends an anchor.
func (p *Player) AddAnchor(a path.Anchor) {
	_ = p.editAnchors("anchor added", func(l *path.AnchorList) error {
		l.Add(a)
		return nil
	})
}

// AddCurrent appends an anchor at the current pose of the actor.
func (p *Player) AddCurrent() {
	pose := p.actor.Pose()
	p.AddAnchor(path.Anchor{Position: pose.Position, Rotation: pose.Rotation})
}

// InsertAnchor places a before the anchor at index.
func (p *Player) InsertAnchor(index int, a path.Anchor) error {
	return p.editAnchors("anchor inserted", func(l *path.AnchorList) error {
		return l.Insert(index, a)
	})
}

// RemoveAnchor deletes the anchor at index.
func (p *Player) RemoveAnchor(index int) error {
	return p.editAnchors("anchor removed", func(l *path.AnchorList) error {
		return l.Remove(index)
	})
}

// DuplicateAnchor inserts a copy of the anchor at index right after it.
func (p *Player) DuplicateAnchor(index int) error {
	return p.editAnchors("anchor duplicated", func(l *path.AnchorList) error {
		return l.Duplicate(index)
	})
}

// MoveAnchorUp swaps the anchor at index with the one before it.
func (p *Player) MoveAnchorUp(index int) error {
	return p.editAnchors("anchor moved", func(l *path.AnchorList) error {
		return l.MoveUp(index)
	})
}

// MoveAnchorDown swaps the anchor at index with the one after it.
func (p *Player) MoveAnchorDown(index int) error {
	return p.editAnchors("anchor moved", func(l *path.AnchorList) error {
		return l.MoveDown(index)
	})
}

// MoveAnchor moves the anchor at from to index to.
func (p *Player) MoveAnchor(from, to int) error {
	return p.editAnchors("anchor moved", func(l *path.AnchorList) error {
		return l.MoveTo(from, to)
	})
}

// SetAnchor replaces the anchor at index.
func (p *Player) SetAnchor(index int, a path.Anchor) error {
	return p.editAnchors("anchor changed", func(l *path.AnchorList) error {
		return l.Set(index, a)
	})
}

// SetPosition replaces the position of the anchor at index.
func (p *Player) SetPosition(index int, v math.Vec3) error {
	return p.editAnchors("anchor changed", func(l *path.AnchorList) error {
		return l.SetPosition(index, v)
	})
}

// SetRotation replaces the rotation of the anchor at index.
func (p *Player) SetRotation(index int, v math.Vec3) error {
	return p.editAnchors("anchor changed", func(l *path.AnchorList) error {
		return l.SetRotation(index, v)
	})
}

// Anchor returns the anchor at index.
func (p *Player) Anchor(index int) (path.Anchor, error) {
	return p.anchors.Get(index)
}

// Position returns the position of the anchor at index.
func (p *Player) Position(index int) (math.Vec3, error) {
	a, err := p.anchors.Get(index)
	return a.Position, err
}

// Rotation returns the rotation of the anchor at index.
func (p *Player) Rotation(index int) (math.Vec3, error) {
	a, err := p.anchors.Get(index)
	return a.Rotation, err
}

// AnchorCount returns the number of anchors.
func (p *Player) AnchorCount() int { return p.anchors.Len() }

// Anchors returns a copy of the anchors.
func (p *Player) Anchors() []path.Anchor { return p.anchors.Anchors() }

// Positions returns a copy of the anchor positions.
func (p *Player) Positions() []math.Vec3 { return p.anchors.Positions() }

// Rotations returns a copy of the anchor rotations.
func (p *Player) Rotations() []math.Vec3 { return p.anchors.Rotations() }
