// Package noise produces additive per-axis offsets that make a motion look
// less mechanical.
package noise

import (
	"fmt"
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/automover/pkg/math"
)

// Mode selects the noise shape.
type Mode int

const (
	// Random drifts toward random targets inside the amplitude box.
	Random Mode = iota
	// Sine oscillates each axis independently.
	Sine
)

var modeNames = []string{"random", "sine"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid noise mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	for i, n := range modeNames {
		if n == string(text) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown noise mode %q", text)
}

// RotationFrequencyScale converts random rotation noise frequency from
// half turns per second to degrees per second.
const RotationFrequencyScale = 180

// Settings describes one noise channel.
type Settings struct {
	Mode      Mode      `yaml:"mode"`
	Amplitude math.Vec3 `yaml:"amplitude"`
	Frequency math.Vec3 `yaml:"frequency"`
	// Phase shifts each sine axis, in seconds.
	Phase math.Vec3 `yaml:"phase"`
}

// DefaultSettings returns a silent channel with unit frequency.
func DefaultSettings() Settings {
	return Settings{
		Mode:      Random,
		Frequency: math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Clamped returns s with negative amplitude and frequency components set to zero.
func (s Settings) Clamped() Settings {
	s.Amplitude = s.Amplitude.NonNegative()
	s.Frequency = s.Frequency.NonNegative()
	return s
}

// Channel generates the offset of one quantity, position or rotation.
type Channel struct {
	settings Settings
	scale    float32
	rng      *rand.Rand

	current math.Vec3
	target  math.Vec3
}

// NewChannel creates a channel. scale multiplies the frequency in Random
// mode. A nil rng uses a randomly seeded source.
func NewChannel(s Settings, scale float32, rng *rand.Rand) *Channel {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Channel{settings: s.Clamped(), scale: scale, rng: rng}
}

// Settings returns the current settings.
func (c *Channel) Settings() Settings {
	return c.settings
}

// SetSettings replaces the settings, clamping negative components.
// The current offset is kept so random noise does not jump.
func (c *Channel) SetSettings(s Settings) {
	c.settings = s.Clamped()
}

// Offset returns the last generated offset.
func (c *Channel) Offset() math.Vec3 {
	return c.current
}

// Reset drops the current offset and random target.
func (c *Channel) Reset() {
	c.current = math.Vec3{}
	c.target = math.Vec3{}
}

// Next advances the channel by dt seconds and returns the new offset.
// elapsed is the time since the current run started; only Sine uses it.
func (c *Channel) Next(dt, elapsed float32) math.Vec3 {
	s := c.settings
	if s.Mode == Sine {
		c.current = math.Vec3{
			X: sine(s.Amplitude.X, s.Frequency.X, elapsed+s.Phase.X),
			Y: sine(s.Amplitude.Y, s.Frequency.Y, elapsed+s.Phase.Y),
			Z: sine(s.Amplitude.Z, s.Frequency.Z, elapsed+s.Phase.Z),
		}
		return c.current
	}

	if c.current == c.target {
		c.target = math.Vec3{
			X: c.uniform(s.Amplitude.X),
			Y: c.uniform(s.Amplitude.Y),
			Z: c.uniform(s.Amplitude.Z),
		}
	}
	step := s.Frequency.Scale(c.scale * dt)
	c.current = c.current.MoveTowards(c.target, step)
	return c.current
}

func (c *Channel) uniform(amplitude float32) float32 {
	if amplitude <= 0 {
		return 0
	}
	return (c.rng.Float32()*2 - 1) * amplitude
}

func sine(amplitude, frequency, t float32) float32 {
	return amplitude * float32(gomath.Sin(float64(t*frequency)))
}

// Generator pairs the position and rotation channels of one mover.
type Generator struct {
	Position *Channel
	Rotation *Channel
}

// NewGenerator creates both channels sharing rng.
func NewGenerator(position, rotation Settings, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		Position: NewChannel(position, 1, rng),
		Rotation: NewChannel(rotation, RotationFrequencyScale, rng),
	}
}

// Next advances both channels.
func (g *Generator) Next(dt, elapsed float32) (position, rotation math.Vec3) {
	return g.Position.Next(dt, elapsed), g.Rotation.Next(dt, elapsed)
}

// Reset resets both channels.
func (g *Generator) Reset() {
	g.Position.Reset()
	g.Rotation.Reset()
}
