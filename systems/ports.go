package systems

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/geom"
)

// InputPort supplies one tick of player intent.
type InputPort interface {
	SampleMove() r2.Vec
	SampleLookDelta() r2.Vec
	IsSprintHeld() bool
	WasJumpPressedThisTick() bool
}

// CollisionWorld answers geometric queries and resolves capsule moves. A
// query error is treated by callers as a miss.
type CollisionWorld interface {
	Raycast(origin, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error)
	SphereCast(origin r3.Vec, radius float64, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error)
	MoveCapsule(handle components.AgentHandle, disp r3.Vec) (r3.Vec, error)
}

// TransformPort receives the committed pose at the end of a tick.
type TransformPort interface {
	SetPose(position r3.Vec, rotation, cameraLocal quat.Number)
}

// Intent is one sanitised input sample.
type Intent struct {
	Move   r2.Vec
	Look   r2.Vec
	Sprint bool
	Jump   bool
}

// sampleInput reads the port once. A nil port is neutral input.
func sampleInput(in InputPort) Intent {
	if in == nil {
		return Intent{}
	}
	return Intent{
		Move:   geom.SanitizeMove(in.SampleMove()),
		Look:   geom.SanitizeDelta(in.SampleLookDelta()),
		Sprint: in.IsSprintHeld(),
		Jump:   in.WasJumpPressedThisTick(),
	}
}
