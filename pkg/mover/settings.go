package mover

import (
	"github.com/Faultbox/automover/pkg/noise"
	"github.com/Faultbox/automover/pkg/path"
)

// Limits and defaults for playback settings.
const (
	MinLength             = 0.001
	DefaultLength         = 5
	DefaultStepsPerSecond = 60
	LiveStepsPerSegment   = 200
	minCurveWeight        = 0.001
	maxCurveWeight        = 0.999
)

// Settings configures one player.
type Settings struct {
	// Length is the duration of one forward pass in seconds.
	Length       float32           `yaml:"length"`
	PathMode     path.Mode         `yaml:"path_mode"`
	LoopStyle    path.LoopStyle    `yaml:"loop_style"`
	RotationMode path.RotationMode `yaml:"rotation_mode"`
	CurveWeight  float32           `yaml:"curve_weight"`

	// Precompute samples the path once per configuration instead of
	// rebuilding it at the start of every run.
	Precompute     bool    `yaml:"precompute"`
	StepsPerSecond float32 `yaml:"steps_per_second"`

	// StopAfter ends playback after that many runs. Zero plays forever.
	StopAfter uint    `yaml:"stop_after"`
	DelayMin  float32 `yaml:"delay_min"`
	DelayMax  float32 `yaml:"delay_max"`

	RunOnStart bool `yaml:"run_on_start"`

	PositionNoise noise.Settings `yaml:"position_noise"`
	RotationNoise noise.Settings `yaml:"rotation_noise"`
}

// DefaultSettings returns the settings of a freshly created mover.
func DefaultSettings() Settings {
	return Settings{
		Length:         DefaultLength,
		PathMode:       path.Spline,
		LoopStyle:      path.Repeat,
		RotationMode:   path.AbsoluteValue,
		CurveWeight:    path.DefaultCurveWeight,
		Precompute:     true,
		StepsPerSecond: DefaultStepsPerSecond,
		RunOnStart:     true,
		PositionNoise:  noise.DefaultSettings(),
		RotationNoise:  noise.DefaultSettings(),
	}
}

// Clamped returns s with every field forced into its valid range.
func (s Settings) Clamped() Settings {
	s.Length = max(s.Length, MinLength)
	s.CurveWeight = min(max(s.CurveWeight, minCurveWeight), maxCurveWeight)
	if s.StepsPerSecond <= 0 {
		s.StepsPerSecond = DefaultStepsPerSecond
	}
	s.DelayMin = max(s.DelayMin, 0)
	s.DelayMax = max(s.DelayMax, s.DelayMin)
	s.PositionNoise = s.PositionNoise.Clamped()
	s.RotationNoise = s.RotationNoise.Clamped()
	return s
}

// geometry reports whether s and other build different paths.
func (s Settings) geometry(other Settings) bool {
	return s.PathMode != other.PathMode ||
		s.LoopStyle != other.LoopStyle ||
		s.RotationMode != other.RotationMode ||
		s.CurveWeight != other.CurveWeight ||
		s.Length != other.Length ||
		s.StepsPerSecond != other.StepsPerSecond
}

// playback reports whether switching from s to other requires restarting
// the current traversal.
func (s Settings) playback(other Settings) bool {
	return s.geometry(other) || s.Precompute != other.Precompute
}

func (s Settings) curveOptions() path.Options {
	return path.Options{
		Mode:     s.PathMode,
		Rotation: s.RotationMode,
		Closed:   s.LoopStyle == path.Loop,
		Weight:   s.CurveWeight,
	}
}

func (s Settings) precomputeSteps() int {
	return max(int(s.Length*s.StepsPerSecond), 1)
}
