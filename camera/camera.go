package camera

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/geom"
)

// Mode selects how the viewer camera is placed.
type Mode uint8

const (
	ModeOrbit       Mode = iota // orbit around the followed agent
	ModeFirstPerson             // through the agent's stabilised camera
)

// View is a resolved camera placement.
type View struct {
	Eye, Target, Up r3.Vec
}

// Camera is the debug viewer camera. It orbits a focus point with yaw,
// pitch and zoom, or sits at an agent's eye in first-person mode.
type Camera struct {
	Mode Mode

	// Orbit state
	Yaw, Pitch float64 // degrees
	Distance   float64

	// Zoom constraints
	MinDistance, MaxDistance float64

	focus r3.Vec
}

// New creates an orbit camera at the default distance.
func New() *Camera {
	c := &Camera{MinDistance: 2, MaxDistance: 40}
	c.Reset()
	return c
}

// Reset returns the camera to the default orbit.
func (c *Camera) Reset() {
	c.Yaw = 45
	c.Pitch = 30
	c.Distance = 12
}

// Pan orbits the camera by the given angles in degrees.
func (c *Camera) Pan(dYaw, dPitch float64) {
	c.Yaw = math.Remainder(c.Yaw+dYaw, 360)
	c.Pitch = geom.Clamp(c.Pitch+dPitch, -85, 85)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = geom.Clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the orbit distance by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// ToggleMode switches between orbit and first person.
func (c *Camera) ToggleMode() {
	if c.Mode == ModeOrbit {
		c.Mode = ModeFirstPerson
	} else {
		c.Mode = ModeOrbit
	}
}

// Follow resolves the view for an agent's committed pose and camera rig.
func (c *Camera) Follow(pose components.Pose, rig components.CameraRig) View {
	c.focus = pose.Position
	if c.Mode == ModeFirstPerson {
		return FirstPerson(pose, rig)
	}
	return c.orbit()
}

func (c *Camera) orbit() View {
	offset := geom.Rotate(geom.Euler(c.Pitch, c.Yaw, 0), r3.Vec{Z: -c.Distance})
	return View{
		Eye:    r3.Add(c.focus, offset),
		Target: c.focus,
		Up:     geom.WorldUp,
	}
}

// FirstPerson places the camera at the agent's eye. The camera's up is the
// rig's smoothed up so body reorientation reaches the view gradually.
func FirstPerson(pose components.Pose, rig components.CameraRig) View {
	eye := r3.Add(pose.Position, r3.Scale(rig.EyeHeight, rig.SmoothedUp))
	rot := geom.NormalizeQuat(quat.Mul(pose.Rotation, rig.LocalRotation))
	return View{
		Eye:    eye,
		Target: r3.Add(eye, geom.Forward(rot)),
		Up:     rig.SmoothedUp,
	}
}
