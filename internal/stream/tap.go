package stream

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/mover"
	"github.com/Faultbox/automover/pkg/path"
)

// Frame is one pose update sent to stream clients.
type Frame struct {
	Mover       string    `json:"mover"`
	ID          string    `json:"id"`
	Seq         uint64    `json:"seq"`
	Time        int64     `json:"time"` // Unix milliseconds
	Position    math.Vec3 `json:"position"`
	Rotation    math.Vec3 `json:"rotation"`
	Orientation math.Quat `json:"orientation"`
}

// Publisher accepts messages for clients.
type Publisher interface {
	Publish(v any) error
}

// Tap forwards poses to an actor and publishes each one as a Frame.
type Tap struct {
	next mover.Actor
	pub  Publisher
	log  *zap.Logger
	name string
	id   string
	seq  uint64
	now  func() time.Time
}

// NewTap wraps next so every pose of the named mover is published.
// Frames that cannot be published are logged to log, which may be nil.
func NewTap(pub Publisher, name string, id uuid.UUID, next mover.Actor, log *zap.Logger) *Tap {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tap{next: next, pub: pub, log: log, name: name, id: id.String(), now: time.Now}
}

// Pose returns the pose of the wrapped actor.
func (t *Tap) Pose() path.Pose {
	return t.next.Pose()
}

// SetPose forwards p and publishes it.
func (t *Tap) SetPose(p path.Pose) {
	t.next.SetPose(p)
	t.seq++
	err := t.pub.Publish(Frame{
		Mover:       t.name,
		ID:          t.id,
		Seq:         t.seq,
		Time:        t.now().UnixMilli(),
		Position:    p.Position,
		Rotation:    p.Rotation,
		Orientation: math.QuatFromEuler(p.Rotation),
	})
	if err != nil {
		t.log.Warn("publishing frame", zap.String("mover", t.name), zap.Uint64("seq", t.seq), zap.Error(err))
	}
}
