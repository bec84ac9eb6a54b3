package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/automover/internal/scene"
	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/path"
)

type fakeController struct {
	mu       sync.Mutex
	statuses []scene.Status
	commands []string
	err      error
}

func (f *fakeController) Statuses() []scene.Status { return f.statuses }

func (f *fakeController) Status(name string) (scene.Status, bool) {
	for _, st := range f.statuses {
		if st.Name == name {
			return st, true
		}
	}
	return scene.Status{}, false
}

func (f *fakeController) Do(_ context.Context, name string, cmd scene.Command) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.Status(name); !ok {
		return scene.ErrUnknownMover
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, name+":"+cmd.String())
	return nil
}

func newFake() *fakeController {
	return &fakeController{statuses: []scene.Status{
		{Name: "lift", ID: "1", State: "playing", Runs: 2, Pose: path.Pose{Position: math.Vec3{Y: 3}}},
		{Name: "door", ID: "2", State: "idle"},
	}}
}

type recorder struct {
	pose path.Pose
}

func (r *recorder) Pose() path.Pose     { return r.pose }
func (r *recorder) SetPose(p path.Pose) { r.pose = p }

type collector struct {
	frames []Frame
	err    error
}

func (c *collector) Publish(v any) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, v.(Frame))
	return nil
}

func request(t *testing.T, s *Server, method, target string) (int, []byte) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestServer_List(t *testing.T) {
	s := NewServer(newFake(), NewHub(nil), nil)

	code, body := request(t, s, http.MethodGet, "/api/movers")
	require.Equal(t, http.StatusOK, code)
	var got []scene.Status
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "lift", got[0].Name)
	assert.Equal(t, float32(3), got[0].Pose.Position.Y)
}

func TestServer_Get(t *testing.T) {
	s := NewServer(newFake(), NewHub(nil), nil)

	code, body := request(t, s, http.MethodGet, "/api/movers/lift")
	require.Equal(t, http.StatusOK, code)
	var got scene.Status
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, uint(2), got.Runs)

	code, _ = request(t, s, http.MethodGet, "/api/movers/crane")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_Command(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{"start", "/api/movers/lift/start", nil, http.StatusOK},
		{"pause", "/api/movers/door/pause", nil, http.StatusOK},
		{"bad command", "/api/movers/lift/jump", nil, http.StatusBadRequest},
		{"unknown mover", "/api/movers/crane/stop", nil, http.StatusNotFound},
		{"timeout", "/api/movers/lift/stop", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"failure", "/api/movers/lift/stop", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := newFake()
			ctl.err = tt.err
			s := NewServer(ctl, NewHub(nil), nil)

			code, _ := request(t, s, http.MethodPost, tt.target)
			assert.Equal(t, tt.code, code)
			if tt.code == http.StatusOK {
				assert.Len(t, ctl.commands, 1)
			} else {
				assert.Empty(t, ctl.commands)
			}
		})
	}
}

func TestServer_WebSocketRequiresUpgrade(t *testing.T) {
	s := NewServer(newFake(), NewHub(nil), nil)
	code, _ := request(t, s, http.MethodGet, "/ws/poses")
	assert.Equal(t, http.StatusUpgradeRequired, code)
}

func TestTap(t *testing.T) {
	pub := &collector{}
	next := &recorder{pose: path.Pose{Position: math.Vec3{Z: 1}}}
	id := uuid.New()
	tap := NewTap(pub, "lift", id, next, nil)
	tap.now = func() time.Time { return time.UnixMilli(1234) }

	assert.Equal(t, next.pose, tap.Pose())

	p := path.Pose{Position: math.Vec3{X: 2}, Rotation: math.Vec3{Z: 90}}
	tap.SetPose(p)
	tap.SetPose(p)

	assert.Equal(t, p, next.pose)
	require.Len(t, pub.frames, 2)
	f := pub.frames[1]
	assert.Equal(t, "lift", f.Mover)
	assert.Equal(t, id.String(), f.ID)
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, int64(1234), f.Time)
	assert.Equal(t, p.Position, f.Position)
	assert.InDelta(t, 0.7071, f.Orientation.Z, 1e-3)
}

func TestTap_LogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	next := &recorder{}
	tap := NewTap(&collector{err: errors.New("encode failed")}, "lift", uuid.New(), next, zap.New(core))

	p := path.Pose{Position: math.Vec3{Y: 1}}
	tap.SetPose(p)

	assert.Equal(t, p, next.pose, "the pose still reaches the actor")
	entries := logs.FilterMessage("publishing frame").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lift", entries[0].ContextMap()["mover"])
	assert.Equal(t, "encode failed", entries[0].ContextMap()["error"])
}

func TestHub_PublishDropsWhenFull(t *testing.T) {
	h := NewHub(nil)
	for range sendBuffer + 3 {
		require.NoError(t, h.Publish(Frame{Mover: "x"}))
	}
	assert.Equal(t, uint64(3), h.Dropped())
	assert.Error(t, h.Publish(func() {}))
}

func TestServer_StreamsFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)
	s := NewServer(newFake(), hub, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go s.App().Listener(ln)
	defer s.Shutdown()

	conn, _, err := fws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/poses", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var greeting struct {
		Movers []scene.Status `json:"movers"`
	}
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Len(t, greeting.Movers, 2)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 5*time.Second, 5*time.Millisecond)

	tap := NewTap(hub, "lift", uuid.New(), &recorder{}, nil)
	tap.SetPose(path.Pose{Position: math.Vec3{X: 7}})

	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "lift", f.Mover)
	assert.Equal(t, float32(7), f.Position.X)

	cancel()
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "connection closes when the hub stops")
}
