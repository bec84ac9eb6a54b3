// Package config handles scene configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/mover"
	"github.com/Faultbox/automover/pkg/path"
)

// ErrInvalid marks a structurally invalid scene.
var ErrInvalid = errors.New("invalid config")

// Config holds the whole scene: playback, streaming, logging and movers.
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Stream   StreamConfig   `yaml:"stream"`
	Logging  LoggingConfig  `yaml:"logging"`
	Movers   []MoverConfig  `yaml:"movers"`
}

// PlaybackConfig holds the tick loop settings.
type PlaybackConfig struct {
	TickRate int           `yaml:"tick_rate"` // Ticks per second
	Duration time.Duration `yaml:"duration"`  // Zero runs until interrupted
	Seed     uint64        `yaml:"seed"`      // Zero picks a random seed
}

// StreamConfig holds the pose stream server settings.
type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MoverConfig describes one moving object.
type MoverConfig struct {
	Name     string         `yaml:"name"`
	Origin   path.Pose      `yaml:"origin"`
	Settings mover.Settings `yaml:"settings"`
	Anchors  []path.Anchor  `yaml:"anchors"`
}

// UnmarshalYAML fills fields missing from the document with mover defaults.
func (m *MoverConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain MoverConfig
	p := plain{Settings: mover.DefaultSettings()}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*m = MoverConfig(p)
	return nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			TickRate: 60,
		},
		Stream: StreamConfig{
			Enabled: false,
			Addr:    ":8088",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Movers: []MoverConfig{DemoMover()},
	}
}

// DemoMover returns a mover circling a square, used when no scene is given.
func DemoMover() MoverConfig {
	s := mover.DefaultSettings()
	s.Length = 4
	s.LoopStyle = path.Loop
	s.RotationMode = path.ShortestPath
	return MoverConfig{
		Name:     "demo",
		Settings: s,
		Anchors: []path.Anchor{
			{Position: math.Vec3{X: 0, Z: 0}, Rotation: math.Vec3{Y: 0}},
			{Position: math.Vec3{X: 5, Z: 0}, Rotation: math.Vec3{Y: 90}},
			{Position: math.Vec3{X: 5, Z: 5}, Rotation: math.Vec3{Y: 180}},
			{Position: math.Vec3{X: 0, Z: 5}, Rotation: math.Vec3{Y: 270}},
		},
	}
}

// Validate reports every structural problem of the scene.
func (c *Config) Validate() error {
	var errs []error
	if c.Playback.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.Playback.TickRate))
	}
	if c.Playback.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: negative duration %v", ErrInvalid, c.Playback.Duration))
	}
	if c.Stream.Enabled && c.Stream.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: stream enabled without addr", ErrInvalid))
	}
	seen := make(map[string]bool, len(c.Movers))
	for i, m := range c.Movers {
		switch {
		case m.Name == "":
			errs = append(errs, fmt.Errorf("%w: mover %d has no name", ErrInvalid, i))
		case seen[m.Name]:
			errs = append(errs, fmt.Errorf("%w: duplicate mover name %q", ErrInvalid, m.Name))
		}
		seen[m.Name] = true
	}
	return errors.Join(errs...)
}

// TickInterval returns the duration of one tick.
func (c *Config) TickInterval() time.Duration {
	if c.Playback.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Playback.TickRate)
}
