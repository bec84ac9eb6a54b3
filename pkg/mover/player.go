// Package mover plays a motion path: it advances along the anchors of a
// path at constant speed on every tick and hands the resulting pose to an
// actor.
package mover

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/noise"
	"github.com/Faultbox/automover/pkg/path"
)

// Actor applies poses to whatever is being moved.
type Actor interface {
	// Pose returns the current pose of the moved object.
	Pose() path.Pose
	// SetPose moves the object.
	SetPose(path.Pose)
}

// State is the playback state of a player.
type State int

const (
	Idle State = iota
	Playing
	Paused
	// Stopped is entered when the configured number of runs completed.
	Stopped
)

var stateNames = []string{"idle", "playing", "paused", "stopped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Option configures a player.
type Option func(*Player)

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(p *Player) {
		if log != nil {
			p.log = log
		}
	}
}

// WithName names the player in logs.
func WithName(name string) Option {
	return func(p *Player) { p.name = name }
}

// WithID sets the player id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(p *Player) { p.id = id }
}

// WithRand sets the random source used for noise and delays.
func WithRand(rng *rand.Rand) Option {
	return func(p *Player) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(p *Player) { p.settings = s.Clamped() }
}

// WithAnchors sets the initial anchors.
func WithAnchors(anchors ...path.Anchor) Option {
	return func(p *Player) { p.anchors = path.NewAnchorList(anchors...) }
}

// RunFunc is called after each completed run with the number of runs so far.
type RunFunc func(runs uint)

// Player moves an actor along a path. It is driven by Tick and is not safe
// for concurrent use.
type Player struct {
	id    uuid.UUID
	name  string
	log   *zap.Logger
	rng   *rand.Rand
	actor Actor

	anchors  *path.AnchorList
	settings Settings
	noise    *noise.Generator

	// OnRunComplete, if set, is called after every completed run.
	OnRunComplete RunFunc

	state  State
	origin path.Pose
	last   path.Pose
	runs   uint
	// gen changes on every Start and Stop so a run callback can tell it
	// restarted or stopped the player.
	gen uint64

	clock    float32
	runStart float32
	elapsed  float32
	backward bool
	delay    float32
	table    *path.Table

	version      uint64
	cache        *path.Table
	cacheVersion uint64
	liveLength   float32
	liveVersion  uint64
}

// New creates an idle player for actor.
func New(actor Actor, opts ...Option) *Player {
	p := &Player{
		id:       uuid.New(),
		log:      zap.NewNop(),
		actor:    actor,
		anchors:  &path.AnchorList{},
		settings: DefaultSettings(),
		version:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p.log = p.log.With(zap.String("mover", p.name), zap.Stringer("id", p.id))
	p.noise = noise.NewGenerator(p.settings.PositionNoise, p.settings.RotationNoise, p.rng)
	p.last = actor.Pose()
	return p
}

// ID returns the unique id of the player.
func (p *Player) ID() uuid.UUID { return p.id }

// Name returns the player name.
func (p *Player) Name() string { return p.name }

// State returns the playback state.
func (p *Player) State() State { return p.state }

// IsPlaying reports whether playback is active, paused or not.
func (p *Player) IsPlaying() bool {
	return p.state == Playing || p.state == Paused
}

// IsPaused reports whether playback is paused.
func (p *Player) IsPaused() bool { return p.state == Paused }

// Runs returns the number of runs completed since the last Start.
func (p *Player) Runs() uint { return p.runs }

// Pose returns the last pose handed to the actor.
func (p *Player) Pose() path.Pose { return p.last }

// Origin returns the pose captured by the last Start.
func (p *Player) Origin() path.Pose { return p.origin }

// Ready starts playback if the settings ask to run on start. Hosts call it
// once the moved object is live.
func (p *Player) Ready() {
	if p.settings.RunOnStart {
		p.Start()
	}
}

// Start begins playback from the first anchor. Calling Start while
// playing or paused does nothing.
func (p *Player) Start() {
	if p.IsPlaying() {
		return
	}
	p.origin = p.actor.Pose()
	p.last = p.origin
	p.runs = 0
	p.clock = 0
	p.delay = 0
	p.gen++
	p.noise.Reset()
	p.state = Playing
	p.beginRun()
	p.log.Debug("playback started",
		zap.Int("anchors", p.anchors.Len()),
		zap.Stringer("mode", p.settings.PathMode),
		zap.Stringer("loop", p.settings.LoopStyle))
}

// Stop halts playback and puts the actor back at its origin pose.
func (p *Player) Stop() {
	switch p.state {
	case Idle:
		return
	case Stopped:
		p.state = Idle
		return
	}
	p.state = Idle
	p.gen++
	p.table = nil
	p.emitBase(p.origin)
	p.log.Debug("playback stopped", zap.Uint("runs", p.runs))
}

// Pause freezes playback. It does nothing unless playing.
func (p *Player) Pause() {
	if p.state != Playing {
		return
	}
	p.state = Paused
	p.log.Debug("playback paused")
}

// Resume continues paused playback. It does nothing unless paused.
func (p *Player) Resume() {
	if p.state != Paused {
		return
	}
	p.state = Playing
	p.log.Debug("playback resumed")
}

// Tick advances playback by dt seconds and moves the actor.
func (p *Player) Tick(dt float32) {
	if dt < 0 {
		dt = 0
	}
	switch p.state {
	case Paused:
		p.clock += dt
		p.runStart += dt
		return
	case Playing:
	default:
		return
	}
	p.clock += dt

	if n := p.anchors.Len(); n < 2 {
		base := p.origin
		if n == 1 {
			a, _ := p.anchors.Get(0)
			base = a.Pose()
		}
		// Restored anchors start a fresh run.
		p.table = nil
		p.emit(base, dt)
		return
	}
	if p.table == nil {
		p.beginRun()
	}

	if p.delay > 0 {
		p.delay -= dt
		if p.delay > 0 {
			return
		}
		leftover := -p.delay
		p.delay = 0
		p.beginRun()
		p.elapsed = leftover
	} else {
		p.elapsed += dt
	}
	p.advance(dt)
}

func (p *Player) advance(dt float32) {
	length := p.settings.Length
	if p.elapsed < length {
		p.emit(p.poseAt(p.elapsed/length), dt)
		return
	}

	if p.settings.LoopStyle == path.Bounce && !p.backward {
		p.backward = true
		p.elapsed -= length
		if p.elapsed < length {
			p.emit(p.poseAt(p.elapsed/length), dt)
			return
		}
	}

	p.emit(p.poseAt(1), dt)
	p.completeRun(p.elapsed - length)
}

func (p *Player) completeRun(leftover float32) {
	p.runs++
	p.log.Debug("run completed", zap.Uint("runs", p.runs))

	gen := p.gen
	if p.OnRunComplete != nil {
		p.OnRunComplete(p.runs)
		if p.gen != gen {
			return
		}
	}

	if p.settings.StopAfter > 0 && p.runs >= p.settings.StopAfter {
		p.finish()
		return
	}

	if d := p.randomDelay(); d > 0 {
		p.delay = d - leftover
		if p.delay > 0 {
			return
		}
		leftover = -p.delay
		p.delay = 0
	}
	p.beginRun()
	p.elapsed = leftover
}

// finish ends playback after the last run.
func (p *Player) finish() {
	p.state = Stopped
	p.gen++
	p.table = nil
	p.emitBase(p.origin)
	p.log.Debug("playback finished", zap.Uint("runs", p.runs))
}

func (p *Player) randomDelay() float32 {
	lo, hi := p.settings.DelayMin, p.settings.DelayMax
	if hi <= lo {
		return lo
	}
	return lo + p.rng.Float32()*(hi-lo)
}

func (p *Player) beginRun() {
	p.elapsed = 0
	p.backward = false
	p.runStart = p.clock
	p.table = p.runTable()
}

// runTable returns the table for the next run. Precomputed tables are
// reused until the configuration changes; live tables are always fresh.
func (p *Player) runTable() *path.Table {
	if p.anchors.Len() < 2 {
		return nil
	}
	if p.settings.Precompute {
		return p.cached()
	}
	return p.liveTable()
}

func (p *Player) liveTable() *path.Table {
	c := path.Build(p.anchors.Anchors(), p.settings.curveOptions())
	t := path.NewTable(c, LiveStepsPerSegment*len(c.Segments))
	p.liveLength = t.Length()
	p.liveVersion = p.version
	return t
}

func (p *Player) cached() *path.Table {
	if p.cache != nil && p.cacheVersion == p.version {
		return p.cache
	}
	c := path.Build(p.anchors.Anchors(), p.settings.curveOptions())
	p.cache = path.NewTable(c, p.settings.precomputeSteps())
	p.cacheVersion = p.version
	p.log.Debug("path precomputed",
		zap.Int("samples", p.cache.Len()),
		zap.Float32("length", p.cache.Length()))
	return p.cache
}

func (p *Player) poseAt(f float32) path.Pose {
	if p.backward {
		f = 1 - f
	}
	return p.table.AtFraction(f)
}

func (p *Player) emit(base path.Pose, dt float32) {
	pos, rot := p.noise.Next(dt, p.clock-p.runStart)
	p.emitBase(path.Pose{
		Position: base.Position.Add(pos),
		Rotation: base.Rotation.Add(rot),
	})
}

func (p *Player) emitBase(pose path.Pose) {
	p.last = pose
	p.actor.SetPose(pose)
}

// SamplePath returns n points along the current path, spread uniformly in
// the curve parameter. Rotations are not unwrapped, so the result only
// depends on positions.
func (p *Player) SamplePath(n int) []math.Vec3 {
	opts := p.settings.curveOptions()
	opts.Rotation = path.AbsoluteValue
	return path.Build(p.anchors.Anchors(), opts).Sample(n)
}

// PathLength returns the arc length of the path as it would be played.
func (p *Player) PathLength() float32 {
	if p.anchors.Len() < 2 {
		return 0
	}
	if p.settings.Precompute {
		return p.cached().Length()
	}
	if p.liveVersion != p.version {
		p.liveTable()
	}
	return p.liveLength
}

// restart runs mutate and, if playback was active, restarts it from the
// beginning of the path. A paused player stays paused.
func (p *Player) restart(reason string, mutate func()) {
	playing, paused := p.IsPlaying(), p.IsPaused()
	if playing {
		p.Stop()
	}
	mutate()
	if playing {
		p.log.Debug("playback restarted", zap.String("reason", reason))
		p.Start()
		if paused {
			p.Pause()
		}
	}
}
