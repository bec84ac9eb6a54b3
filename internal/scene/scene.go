// Package scene runs every mover of a scene from one tick loop.
package scene

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/automover/internal/actor"
	"github.com/Faultbox/automover/internal/config"
	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/mover"
	"github.com/Faultbox/automover/pkg/path"
)

var (
	// ErrUnknownMover is returned for commands naming a mover not in the scene.
	ErrUnknownMover = errors.New("unknown mover")
	// ErrUnknownCommand is returned when a command name cannot be parsed.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is a playback control request.
type Command int

const (
	Start Command = iota
	Stop
	Pause
	Resume
)

var commandNames = []string{"start", "stop", "pause", "resume"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand converts a command name.
func ParseCommand(name string) (Command, error) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Status is a snapshot of one mover taken after a tick.
type Status struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	State       string    `json:"state"`
	Runs        uint      `json:"runs"`
	Pose        path.Pose `json:"pose"`
	Orientation math.Quat `json:"orientation"`
	Anchors     int       `json:"anchors"`
	PathLength  float32   `json:"path_length"`
}

// Wrapper decorates the actor of a mover, for example to publish its poses.
type Wrapper func(name string, id uuid.UUID, a mover.Actor) mover.Actor

// Option configures a scene.
type Option func(*Scene)

// WithLogger sets the scene logger. Players log through named children.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scene) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWrapper decorates every mover actor with w.
func WithWrapper(w Wrapper) Option {
	return func(s *Scene) { s.wrap = w }
}

// WithSeed makes noise and delays reproducible. Zero keeps random seeds.
func WithSeed(seed uint64) Option {
	return func(s *Scene) { s.seed = seed }
}

type entry struct {
	player *mover.Player
	node   *actor.Node
}

type request struct {
	name  string
	cmd   Command
	reply chan error
}

// Scene owns the players of a scene. Step and Run must be called from one
// goroutine; Do, Statuses and Status may be called from any.
type Scene struct {
	log  *zap.Logger
	wrap Wrapper
	seed uint64

	entries  []*entry
	byName   map[string]*entry
	commands chan request

	mu     sync.RWMutex
	status []Status
}

// New builds a scene from mover configs.
func New(movers []config.MoverConfig, opts ...Option) (*Scene, error) {
	s := &Scene{
		log:      zap.NewNop(),
		byName:   make(map[string]*entry, len(movers)),
		commands: make(chan request, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, mc := range movers {
		if _, ok := s.byName[mc.Name]; ok {
			return nil, fmt.Errorf("duplicate mover %q", mc.Name)
		}
		id := uuid.New()
		node := actor.NewNode(mc.Origin)
		var a mover.Actor = actor.NewTracer(node, s.log.Named("actor").With(zap.String("mover", mc.Name)))
		if s.wrap != nil {
			a = s.wrap(mc.Name, id, a)
		}

		popts := []mover.Option{
			mover.WithID(id),
			mover.WithName(mc.Name),
			mover.WithLogger(s.log.Named("mover")),
			mover.WithSettings(mc.Settings),
			mover.WithAnchors(mc.Anchors...),
		}
		if s.seed != 0 {
			popts = append(popts, mover.WithRand(rand.New(rand.NewPCG(s.seed, uint64(i)))))
		}
		e := &entry{player: mover.New(a, popts...), node: node}
		s.entries = append(s.entries, e)
		s.byName[mc.Name] = e
	}
	s.snapshot()
	return s, nil
}

// Ready starts every mover configured to run on start.
func (s *Scene) Ready() {
	for _, e := range s.entries {
		e.player.Ready()
	}
	s.snapshot()
	s.log.Info("scene ready", zap.Int("movers", len(s.entries)))
}

// Player returns the player of the named mover.
func (s *Scene) Player(name string) (*mover.Player, bool) {
	e, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return e.player, true
}

// Step applies queued commands, advances every mover by dt seconds and
// refreshes the status snapshot.
func (s *Scene) Step(dt float32) {
	s.drain()
	for _, e := range s.entries {
		e.player.Tick(dt)
	}
	s.snapshot()
}

// Run steps the scene at interval until ctx is done or, if duration is
// positive, until duration has passed. Every step uses the measured time
// since the previous one.
func (s *Scene) Run(ctx context.Context, interval, duration time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	s.log.Info("scene running",
		zap.Duration("interval", interval),
		zap.Duration("duration", duration))

	last := time.Now()
	var steps uint64
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scene interrupted", zap.Uint64("steps", steps))
			return nil
		case <-deadline:
			s.log.Info("scene finished", zap.Uint64("steps", steps))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			s.Step(float32(dt.Seconds()))
			steps++
		}
	}
}

// Do queues cmd for the named mover and waits until the tick loop applied it.
func (s *Scene) Do(ctx context.Context, name string, cmd Command) error {
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMover, name)
	}
	req := request{name: name, cmd: cmd, reply: make(chan error, 1)}
	select {
	case s.commands <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scene) drain() {
	for {
		select {
		case req := <-s.commands:
			req.reply <- s.apply(req.name, req.cmd)
		default:
			return
		}
	}
}

func (s *Scene) apply(name string, cmd Command) error {
	e, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMover, name)
	}
	switch cmd {
	case Start:
		e.player.Start()
	case Stop:
		e.player.Stop()
	case Pause:
		e.player.Pause()
	case Resume:
		e.player.Resume()
	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd)
	}
	s.log.Debug("command applied", zap.String("mover", name), zap.Stringer("command", cmd))
	return nil
}

func (s *Scene) snapshot() {
	status := make([]Status, len(s.entries))
	for i, e := range s.entries {
		p := e.player
		status[i] = Status{
			Name:        p.Name(),
			ID:          p.ID().String(),
			State:       p.State().String(),
			Runs:        p.Runs(),
			Pose:        e.node.Pose(),
			Orientation: e.node.Orientation(),
			Anchors:     p.AnchorCount(),
			PathLength:  p.PathLength(),
		}
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Statuses returns the latest snapshot of every mover.
func (s *Scene) Statuses() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Status(nil), s.status...)
}

// Status returns the latest snapshot of the named mover.
func (s *Scene) Status(name string) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.status {
		if st.Name == name {
			return st, true
		}
	}
	return Status{}, false
}
