package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// Capsule holds the collider dimensions of an agent.
type Capsule struct {
	Handle AgentHandle `inspect:"label"`
	Height float64     `inspect:"label,fmt:%.2f"`
	Radius float64     `inspect:"label,fmt:%.2f"`
}

// CapsuleFromConfig returns a capsule sized from the surface config.
func CapsuleFromConfig(handle AgentHandle, cfg config.SurfaceConfig) Capsule {
	return Capsule{
		Handle: handle,
		Height: cfg.CapsuleHeight,
		Radius: cfg.CapsuleRadius,
	}
}

// CameraRig is presentation-only camera state. It never feeds back into
// locomotion.
type CameraRig struct {
	SmoothedUp    r3.Vec      `inspect:"vec,fmt:%.3f"`
	LocalRotation quat.Number `inspect:"skip"`
	EyeHeight     float64     `inspect:"label,fmt:%.2f"`
}

// NewCameraRig returns a rig settled on the given up axis.
func NewCameraRig(up r3.Vec, eyeHeight float64) CameraRig {
	u, ok := geom.Normalize(up)
	if !ok {
		u = geom.WorldUp
	}
	return CameraRig{
		SmoothedUp:    u,
		LocalRotation: geom.Identity(),
		EyeHeight:     eyeHeight,
	}
}
