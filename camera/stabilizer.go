// Package camera holds the first-person camera stabiliser that hides body
// reorientation from the player, and the orbit camera of the debug viewer.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// Stabilizer smooths the presented camera against abrupt changes of the
// body's up axis and adds cosmetic strafe tilt. It only writes presentation
// state: pitch, strafe tilt and the camera rig.
type Stabilizer struct {
	cam  config.CameraConfig
	look config.LookConfig
}

// NewStabilizer returns a stabiliser with its own copy of the tunables.
func NewStabilizer(cam config.CameraConfig, look config.LookConfig) *Stabilizer {
	return &Stabilizer{cam: cam, look: look}
}

// Look applies a look delta: X turns the body around its up axis, Y pitches
// the camera within the vertical look limit.
func (s *Stabilizer) Look(state *components.AgentState, delta r2.Vec) {
	delta = geom.SanitizeDelta(delta)
	state.Yaw = wrapDegrees(state.Yaw + delta.X*s.look.MouseSensitivity)
	limit := s.look.VerticalLookLimit
	state.Pitch = geom.Clamp(state.Pitch-delta.Y*s.look.MouseSensitivity, -limit, limit)
}

// Update advances the rig by dt toward the state's up axis, pitch and the
// strafe tilt implied by move.
func (s *Stabilizer) Update(rig *components.CameraRig, state *components.AgentState, move r2.Vec, dt float64) {
	rig.SmoothedUp = geom.Slerp(rig.SmoothedUp, state.CurrentUp, dt*s.cam.RollSmoothing)

	target := 0.0
	if s.cam.StrafeTilt {
		target = -move.X * s.cam.MaxStrafeTilt
	}
	state.StrafeTilt = geom.Lerp(state.StrafeTilt, target, geom.Clamp01(dt*s.cam.TiltSpeed))

	local := geom.Euler(state.Pitch, 0, state.StrafeTilt)
	rig.LocalRotation = geom.SlerpQuat(rig.LocalRotation, local, dt*s.cam.TransitionSpeed)
}

// wrapDegrees maps an angle into [-180, 180].
func wrapDegrees(a float64) float64 {
	return math.Remainder(a, 360)
}
