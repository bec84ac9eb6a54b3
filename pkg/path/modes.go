package path

import "fmt"

// Mode selects how anchors are turned into a continuous curve.
type Mode int

const (
	// Linear connects anchors with straight lines.
	Linear Mode = iota
	// SingleBezier treats all anchors as control points of one Bézier curve.
	SingleBezier
	// Spline joins one cubic Bézier segment per anchor pair with matching tangents.
	Spline
)

var modeNames = []string{"linear", "single_bezier", "spline"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid path mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	i, err := parseName(modeNames, string(text), "path mode")
	if err != nil {
		return err
	}
	*m = Mode(i)
	return nil
}

// LoopStyle selects what happens at the end of a traversal.
type LoopStyle int

const (
	// Loop closes the path by returning to the first anchor.
	Loop LoopStyle = iota
	// Repeat restarts the same traversal from the first anchor.
	Repeat
	// Bounce retraces the path backwards before a run completes.
	Bounce
)

var loopNames = []string{"loop", "repeat", "bounce"}

func (s LoopStyle) String() string {
	if s < 0 || int(s) >= len(loopNames) {
		return fmt.Sprintf("LoopStyle(%d)", int(s))
	}
	return loopNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s LoopStyle) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(loopNames) {
		return nil, fmt.Errorf("invalid loop style %d", int(s))
	}
	return []byte(loopNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LoopStyle) UnmarshalText(text []byte) error {
	i, err := parseName(loopNames, string(text), "loop style")
	if err != nil {
		return err
	}
	*s = LoopStyle(i)
	return nil
}

// RotationMode selects how consecutive anchor rotations are interpreted.
type RotationMode int

const (
	// ShortestPath unwraps rotations so every hop turns by at most 180 degrees.
	ShortestPath RotationMode = iota
	// AbsoluteValue uses the authored rotations as they are, full turns included.
	AbsoluteValue
)

var rotationNames = []string{"shortest_path", "absolute_value"}

func (r RotationMode) String() string {
	if r < 0 || int(r) >= len(rotationNames) {
		return fmt.Sprintf("RotationMode(%d)", int(r))
	}
	return rotationNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r RotationMode) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(rotationNames) {
		return nil, fmt.Errorf("invalid rotation mode %d", int(r))
	}
	return []byte(rotationNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RotationMode) UnmarshalText(text []byte) error {
	i, err := parseName(rotationNames, string(text), "rotation mode")
	if err != nil {
		return err
	}
	*r = RotationMode(i)
	return nil
}

func parseName(names []string, s, kind string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
