package path

import (
	"sort"

	"github.com/Faultbox/automover/pkg/math"
)

// Table is a distance-indexed sampling of a curve. Sample i lies dist[i]
// along the sampled polyline, which makes constant-speed traversal a
// lookup instead of a curve inversion.
type Table struct {
	positions []math.Vec3
	rotations []math.Vec3
	dist      []float32
}

// NewTable samples c with roughly steps samples in total. Curved segments
// receive a share of steps proportional to their estimated length; straight
// segments need only their end points.
func NewTable(c *Curve, steps int) *Table {
	t := &Table{}
	if c == nil || c.Empty() {
		return t
	}
	if steps < len(c.Segments) {
		steps = len(c.Segments)
	}

	total := c.EstimatedLength()
	for i, seg := range c.Segments {
		k := segmentSteps(seg, steps, total, len(c.Segments))
		first := 1
		if i == 0 {
			first = 0
		}
		for j := first; j <= k; j++ {
			t.add(seg.At(float32(j) / float32(k)))
		}
	}
	return t
}

func segmentSteps(seg Segment, steps int, total float32, count int) int {
	if seg.Degree() <= 1 {
		return 1
	}
	var k int
	if total > 0 {
		k = int(float32(steps)*seg.EstimatedLength()/total + 0.5)
	} else {
		k = steps / count
	}
	return max(k, 1)
}

func (t *Table) add(p Pose) {
	d := float32(0)
	if n := len(t.positions); n > 0 {
		d = t.dist[n-1] + t.positions[n-1].Distance(p.Position)
	}
	t.positions = append(t.positions, p.Position)
	t.rotations = append(t.rotations, p.Rotation)
	t.dist = append(t.dist, d)
}

// Len returns the number of samples.
func (t *Table) Len() int {
	return len(t.positions)
}

// Length returns the arc length of the sampled polyline.
func (t *Table) Length() float32 {
	if len(t.dist) == 0 {
		return 0
	}
	return t.dist[len(t.dist)-1]
}

// Start returns the first sample.
func (t *Table) Start() Pose {
	return t.sample(0)
}

// End returns the last sample.
func (t *Table) End() Pose {
	return t.sample(len(t.positions) - 1)
}

// Positions returns a copy of the sampled positions.
func (t *Table) Positions() []math.Vec3 {
	return append([]math.Vec3(nil), t.positions...)
}

// At returns the pose d units along the path. d is clamped to the path.
// Zero-length stretches between samples are skipped.
func (t *Table) At(d float32) Pose {
	n := len(t.positions)
	if n == 0 {
		return Pose{}
	}
	if d <= 0 {
		return t.sample(0)
	}
	i := sort.Search(n, func(i int) bool { return t.dist[i] >= d })
	if i >= n {
		return t.sample(n - 1)
	}
	if i == 0 {
		return t.sample(0)
	}
	span := t.dist[i] - t.dist[i-1]
	if span <= 0 {
		return t.sample(i)
	}
	return t.lerp(i-1, i, (d-t.dist[i-1])/span)
}

// AtFraction returns the pose at fraction f in [0, 1] of the path length.
// A path without length, where all samples share one position, is walked
// by sample index instead so rotations still progress.
func (t *Table) AtFraction(f float32) Pose {
	n := len(t.positions)
	if n == 0 {
		return Pose{}
	}
	f = min(max(f, 0), 1)
	if total := t.Length(); total > 0 {
		if f == 1 {
			return t.sample(n - 1)
		}
		return t.At(f * total)
	}
	if n == 1 {
		return t.sample(0)
	}
	scaled := f * float32(n-1)
	i := int(scaled)
	if i >= n-1 {
		return t.sample(n - 1)
	}
	return t.lerp(i, i+1, scaled-float32(i))
}

func (t *Table) sample(i int) Pose {
	if i < 0 || i >= len(t.positions) {
		return Pose{}
	}
	return Pose{Position: t.positions[i], Rotation: t.rotations[i]}
}

func (t *Table) lerp(a, b int, f float32) Pose {
	return Pose{
		Position: t.positions[a].Lerp(t.positions[b], f),
		Rotation: t.rotations[a].Lerp(t.rotations[b], f),
	}
}
