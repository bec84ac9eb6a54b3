// Package actor provides the objects movers apply their poses to.
package actor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/automover/pkg/math"
	"github.com/Faultbox/automover/pkg/mover"
	"github.com/Faultbox/automover/pkg/path"
)

// Node is an in-memory scene node. It is safe to read from other
// goroutines while a mover updates it.
type Node struct {
	mu    sync.RWMutex
	pose  path.Pose
	moves uint64
}

// NewNode creates a node at pose.
func NewNode(pose path.Pose) *Node {
	return &Node{pose: pose}
}

// Pose returns the current pose.
func (n *Node) Pose() path.Pose {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.pose
}

// SetPose moves the node.
func (n *Node) SetPose(p path.Pose) {
	n.mu.Lock()
	n.pose = p
	n.moves++
	n.mu.Unlock()
}

// Orientation returns the rotation as a quaternion.
func (n *Node) Orientation() math.Quat {
	return math.QuatFromEuler(n.Pose().Rotation)
}

// Moves returns how many times the node was moved.
func (n *Node) Moves() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.moves
}

// Tracer logs every pose passed to the wrapped actor at debug level.
type Tracer struct {
	next mover.Actor
	log  *zap.Logger
}

// NewTracer wraps next. A nil log discards the trace.
func NewTracer(next mover.Actor, log *zap.Logger) *Tracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracer{next: next, log: log}
}

// Pose returns the pose of the wrapped actor.
func (t *Tracer) Pose() path.Pose {
	return t.next.Pose()
}

// SetPose logs p and forwards it.
func (t *Tracer) SetPose(p path.Pose) {
	if ce := t.log.Check(zap.DebugLevel, "pose"); ce != nil {
		ce.Write(
			zap.Float32("x", p.Position.X),
			zap.Float32("y", p.Position.Y),
			zap.Float32("z", p.Position.Z),
			zap.Float32("rx", p.Rotation.X),
			zap.Float32("ry", p.Rotation.Y),
			zap.Float32("rz", p.Rotation.Z),
		)
	}
	t.next.SetPose(p)
}
