package scene

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/automover/internal/config"
	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/mover"
	"github.com/Faultbox/automover/pkg/path"
)

func lineMover(name string) config.MoverConfig {
	s := mover.DefaultSettings()
	s.Length = 1
	s.PathMode = path.Linear
	return config.MoverConfig{
		Name:     name,
		Settings: s,
		Anchors: []path.Anchor{
			{Position: math.Vec3{}},
			{Position: math.Vec3{X: 4}},
		},
	}
}

func TestScene_Step(t *testing.T) {
	idle := lineMover("idle")
	idle.Settings.RunOnStart = false
	idle.Origin = path.Pose{Position: math.Vec3{Y: 9}}

	s, err := New([]config.MoverConfig{lineMover("line"), idle})
	require.NoError(t, err)
	s.Ready()

	s.Step(0.5)
	st, ok := s.Status("line")
	require.True(t, ok)
	assert.Equal(t, "playing", st.State)
	assert.InDelta(t, 2, st.Pose.Position.X, 1e-5)
	assert.Equal(t, 2, st.Anchors)
	assert.Equal(t, float32(4), st.PathLength)

	st, ok = s.Status("idle")
	require.True(t, ok)
	assert.Equal(t, "idle", st.State)
	assert.Equal(t, math.Vec3{Y: 9}, st.Pose.Position)

	_, ok = s.Status("missing")
	assert.False(t, ok)
	assert.Len(t, s.Statuses(), 2)
}

func TestScene_DuplicateNames(t *testing.T) {
	_, err := New([]config.MoverConfig{lineMover("a"), lineMover("a")})
	assert.Error(t, err)
}

func TestScene_CommandsApplyOnStep(t *testing.T) {
	s, err := New([]config.MoverConfig{lineMover("line")})
	require.NoError(t, err)
	p, ok := s.Player("line")
	require.True(t, ok)

	done := make(chan error, 1)
	go func() { done <- s.Do(context.Background(), "line", Start) }()

	var doErr error
	deadline := time.Now().Add(time.Second)
	for applied := false; !applied; {
		require.True(t, time.Now().Before(deadline), "command was never applied")
		s.Step(0)
		select {
		case doErr = <-done:
			applied = true
		case <-time.After(time.Millisecond):
		}
	}
	require.NoError(t, doErr)
	assert.Equal(t, mover.Playing, p.State())
}

func TestScene_DoUnknownMover(t *testing.T) {
	s, err := New([]config.MoverConfig{lineMover("line")})
	require.NoError(t, err)
	assert.ErrorIs(t, s.Do(context.Background(), "nope", Start), ErrUnknownMover)
	assert.ErrorIs(t, s.apply("nope", Stop), ErrUnknownMover)
	assert.ErrorIs(t, s.apply("line", Command(42)), ErrUnknownCommand)
}

func TestScene_DoHonoursContext(t *testing.T) {
	s, err := New([]config.MoverConfig{lineMover("line")})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Do(ctx, "line", Pause), context.DeadlineExceeded)
}

func TestScene_Run(t *testing.T) {
	s, err := New([]config.MoverConfig{lineMover("line")})
	require.NoError(t, err)
	s.Ready()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx, 5*time.Millisecond, 0) }()

	require.NoError(t, s.Do(ctx, "line", Pause))
	assert.Eventually(t, func() bool {
		st, _ := s.Status("line")
		return st.State == "paused"
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestScene_RunDuration(t *testing.T) {
	s, err := New([]config.MoverConfig{lineMover("line")})
	require.NoError(t, err)
	s.Ready()

	start := time.Now()
	require.NoError(t, s.Run(context.Background(), time.Millisecond, 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	st, _ := s.Status("line")
	assert.Greater(t, st.Pose.Position.X, float32(0))

	assert.Error(t, s.Run(context.Background(), 0, 0))
}

func TestScene_SeedIsReproducible(t *testing.T) {
	noisy := lineMover("noisy")
	noisy.Settings.PositionNoise.Amplitude = math.Vec3{X: 1, Y: 1, Z: 1}

	poses := func() []path.Pose {
		s, err := New([]config.MoverConfig{noisy}, WithSeed(99))
		require.NoError(t, err)
		s.Ready()
		var out []path.Pose
		for range 30 {
			s.Step(1.0 / 30)
			st, _ := s.Status("noisy")
			out = append(out, st.Pose)
		}
		return out
	}
	assert.Equal(t, poses(), poses())
}

func TestScene_Wrapper(t *testing.T) {
	var names []string
	var ids []uuid.UUID
	s, err := New([]config.MoverConfig{lineMover("a"), lineMover("b")},
		WithWrapper(func(name string, id uuid.UUID, a mover.Actor) mover.Actor {
			names = append(names, name)
			ids = append(ids, id)
			return a
		}))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, names)
	for i, st := range s.Statuses() {
		assert.Equal(t, ids[i].String(), st.ID)
	}
}

func TestParseCommand(t *testing.T) {
	for _, c := range []Command{Start, Stop, Pause, Resume} {
		got, err := ParseCommand(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCommand("jump")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
