package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/geom"
)

// Pose is the committed transform a renderer reads: the agent's world pose
// and the camera's pose relative to it.
type Pose struct {
	Position    r3.Vec
	Rotation    quat.Number
	CameraLocal quat.Number
}

// SetPose stores the committed pose.
func (p *Pose) SetPose(position r3.Vec, rotation, cameraLocal quat.Number) {
	p.Position = position
	p.Rotation = rotation
	p.CameraLocal = cameraLocal
}

// CameraWorld composes the camera's world rotation and eye position.
func (p *Pose) CameraWorld(eyeHeight float64) (r3.Vec, quat.Number) {
	rot := geom.NormalizeQuat(quat.Mul(p.Rotation, p.CameraLocal))
	eye := r3.Add(p.Position, r3.Scale(eyeHeight, geom.Up(p.Rotation)))
	return eye, rot
}

// Hit is the result of a ray or sphere cast against the collision world.
type Hit struct {
	Distance float64
	Normal   r3.Vec // unit, pointing away from the solid
	Point    r3.Vec
}
