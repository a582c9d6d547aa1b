package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// OrientationBlender turns the agent's up axis toward the surface normal and
// rebuilds its rotation from up and yaw.
type OrientationBlender struct {
	rotationSpeed float64
	singleStage   bool
}

// NewOrientationBlender creates a blender from the surface tunables.
func NewOrientationBlender(cfg config.SurfaceConfig) *OrientationBlender {
	return &OrientationBlender{
		rotationSpeed: cfg.RotationSpeed,
		singleStage:   cfg.SingleStage,
	}
}

// AdaptiveSpeed returns the blend rate for the angle between current and
// target up: large reorientations turn faster, small corrections settle
// slowly.
func (b *OrientationBlender) AdaptiveSpeed(current, target r3.Vec) float64 {
	return b.rotationSpeed * geom.Clamp01(geom.AngleBetween(current, target)/45+0.3)
}

// Update advances CurrentUp toward TargetUp by dt and re-derives Rotation.
// Both the axis and the full rotation are interpolated at the adaptive rate.
func (b *OrientationBlender) Update(state *components.AgentState, dt float64) {
	target, ok := geom.Normalize(state.TargetUp)
	if !ok {
		target = state.CurrentUp
	}
	current, ok := geom.Normalize(state.CurrentUp)
	if !ok {
		current = target
	}

	speed := b.AdaptiveSpeed(current, target)
	up, ok := geom.Normalize(geom.Slerp(current, target, dt*speed))
	if !ok {
		up = current
	}
	state.CurrentUp = up
	state.TargetUp = target

	forward, _ := Frame(up, state.Yaw)
	rot := geom.LookRotation(forward, up)
	if b.singleStage {
		state.Rotation = rot
		return
	}
	state.Rotation = geom.SlerpQuat(state.Rotation, rot, dt*speed)
}

// Frame returns the forward and right axes for yaw degrees around up. The
// reference direction is world forward projected onto the plane of up, or
// world right when that projection degenerates.
func Frame(up r3.Vec, yaw float64) (forward, right r3.Vec) {
	ref := geom.YawReference(up)
	forward, ok := geom.Normalize(geom.Rotate(geom.AngleAxis(yaw, up), ref))
	if !ok {
		forward = ref
	}
	right, ok = geom.Normalize(r3.Cross(up, forward))
	if !ok {
		right = geom.Perpendicular(forward)
	}
	return forward, right
}
