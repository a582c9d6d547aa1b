// Package components defines ECS components for the simulation.
package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/geom"
)

// AgentHandle is the opaque collider handle passed to the collision world.
type AgentHandle uint64

// Phase is the implicit locomotion state derived from Grounded and the jump
// cooldown.
type Phase uint8

const (
	PhaseGrounded Phase = iota // standing on a surface
	PhaseRising                // post-jump, probing suspended
	PhaseFalling               // airborne, probing active
)

// AgentState is the locomotion state of one agent. It is owned by the
// locomotion tick and mutated once per tick.
type AgentState struct {
	Position r3.Vec      `inspect:"vec,fmt:%.2f"`
	Rotation quat.Number `inspect:"skip"`

	CurrentUp r3.Vec `inspect:"vec,fmt:%.3f"` // unit, moves only by bounded interpolation
	TargetUp  r3.Vec `inspect:"vec,fmt:%.3f"` // unit, last accepted surface normal

	Velocity       r3.Vec `inspect:"vec,fmt:%.2f"` // along-up component is jump/fall energy
	PlanarVelocity r3.Vec `inspect:"vec,fmt:%.2f"` // lies in the plane orthogonal to CurrentUp

	Yaw   float64 `inspect:"label,fmt:%.1f°"` // degrees around CurrentUp
	Pitch float64 `inspect:"label,fmt:%.1f°"` // degrees, camera only

	Grounded              bool    `inspect:"bool"`
	JumpCooldownRemaining float64 `inspect:"label,fmt:%.2fs"`
	StrafeTilt            float64 `inspect:"label,fmt:%.2f°"`
}

// NewAgentState initialises state from an agent's transform. Up is taken from
// the pose and yaw is recovered from the pose's forward axis.
func NewAgentState(position r3.Vec, rotation quat.Number) AgentState {
	var s AgentState
	s.Reset(position, rotation)
	return s
}

// Reset reinitialises the state exactly as NewAgentState does.
func (s *AgentState) Reset(position r3.Vec, rotation quat.Number) {
	rotation = geom.NormalizeQuat(rotation)
	up, ok := geom.Normalize(geom.Up(rotation))
	if !ok {
		up = geom.WorldUp
	}

	*s = AgentState{
		Position:  position,
		Rotation:  rotation,
		CurrentUp: up,
		TargetUp:  up,
		Yaw:       YawFromForward(geom.Forward(rotation), up),
	}
}

// Phase returns the implicit locomotion state.
func (s *AgentState) Phase() Phase {
	switch {
	case s.JumpCooldownRemaining > 0:
		return PhaseRising
	case s.Grounded:
		return PhaseGrounded
	default:
		return PhaseFalling
	}
}

// UpSpeed returns the component of Velocity along CurrentUp.
func (s *AgentState) UpSpeed() float64 {
	return r3.Dot(s.Velocity, s.CurrentUp)
}

// YawFromForward returns the yaw in degrees that, applied around up to the
// reference direction, yields forward.
func YawFromForward(forward, up r3.Vec) float64 {
	ref := geom.YawReference(up)
	f, ok := geom.Normalize(geom.ProjectOnPlane(forward, up))
	if !ok {
		return 0
	}
	return geom.SignedAngle(ref, f, up)
}
