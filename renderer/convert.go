// Package renderer draws the collision level, agents and their locomotion
// gizmos with raylib in 3D.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/camera"
)

// Vec converts a simulation vector to raylib.
func Vec(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// FromRL converts a raylib vector to a simulation vector.
func FromRL(v rl.Vector3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Camera3D builds a raylib perspective camera from a resolved view.
func Camera3D(v camera.View, fovy float32) rl.Camera3D {
	return rl.Camera3D{
		Position:   Vec(v.Eye),
		Target:     Vec(v.Target),
		Up:         Vec(v.Up),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}

// arrow draws a line from base along dir scaled by length with a small
// sphere at the tip.
func arrow(base, dir r3.Vec, length float64, color rl.Color) {
	tip := r3.Add(base, r3.Scale(length, dir))
	rl.DrawLine3D(Vec(base), Vec(tip), color)
	rl.DrawSphere(Vec(tip), 0.04, color)
}
