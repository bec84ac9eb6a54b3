package mover

import (
	"github.com/Faultbox/automover/pkg/noise"
	"github.com/Faultbox/automover/pkg/path"
)

// Settings returns the current settings.
func (p *Player) Settings() Settings { return p.settings }

// Apply replaces all settings at once. Playback restarts if the new
// settings change the path or the precompute flag.
func (p *Player) Apply(s Settings) {
	s = s.Clamped()
	old := p.settings
	update := func() {
		p.settings = s
		if old.geometry(s) {
			p.version++
		}
		p.noise.Position.SetSettings(s.PositionNoise)
		p.noise.Rotation.SetSettings(s.RotationNoise)
	}
	if old.playback(s) {
		p.restart("settings changed", update)
		return
	}
	update()
}

func (p *Player) modify(change func(*Settings)) {
	s := p.settings
	change(&s)
	p.Apply(s)
}

// SetLength sets the duration of one pass, clamped to MinLength.
func (p *Player) SetLength(seconds float32) {
	p.modify(func(s *Settings) { s.Length = seconds })
}

// SetPathMode sets how the anchors are joined.
func (p *Player) SetPathMode(m path.Mode) {
	p.modify(func(s *Settings) { s.PathMode = m })
}

// SetLoopStyle sets what happens at the end of a pass.
func (p *Player) SetLoopStyle(l path.LoopStyle) {
	p.modify(func(s *Settings) { s.LoopStyle = l })
}

// SetRotationMode sets how anchor rotations are interpolated.
func (p *Player) SetRotationMode(r path.RotationMode) {
	p.modify(func(s *Settings) { s.RotationMode = r })
}

// SetCurveWeight sets the spline control point weight.
func (p *Player) SetCurveWeight(w float32) {
	p.modify(func(s *Settings) { s.CurveWeight = w })
}

// SetPrecompute switches between precomputed and live path sampling.
func (p *Player) SetPrecompute(on bool) {
	p.modify(func(s *Settings) { s.Precompute = on })
}

// SetStepsPerSecond sets the precompute resolution.
func (p *Player) SetStepsPerSecond(steps float32) {
	p.modify(func(s *Settings) { s.StepsPerSecond = steps })
}

// SetStopAfter sets the number of runs after which playback stops.
func (p *Player) SetStopAfter(runs uint) {
	p.modify(func(s *Settings) { s.StopAfter = runs })
}

// SetDelay sets the random pause between runs. hi is raised to lo if
// lower.
func (p *Player) SetDelay(lo, hi float32) {
	p.modify(func(s *Settings) {
		s.DelayMin = lo
		s.DelayMax = hi
	})
}

// SetRunOnStart sets whether Ready starts playback.
func (p *Player) SetRunOnStart(on bool) {
	p.modify(func(s *Settings) { s.RunOnStart = on })
}

// SetPositionNoise replaces the position noise settings.
func (p *Player) SetPositionNoise(n noise.Settings) {
	p.modify(func(s *Settings) { s.PositionNoise = n })
}

// SetRotationNoise replaces the rotation noise settings.
func (p *Player) SetRotationNoise(n noise.Settings) {
	p.modify(func(s *Settings) { s.RotationNoise = n })
}
