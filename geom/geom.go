// Package geom provides the vector and rotation helpers used by the locomotion
// systems. Vectors are gonum r3/r2 values and rotations are unit quaternions
// (quat.Number). Angles taken or returned by this package are in degrees unless
// a name says otherwise.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// World reference axes. Local X is right, local Y is up and local Z is forward.
var (
	WorldRight   = r3.Vec{X: 1}
	WorldUp      = r3.Vec{Y: 1}
	WorldForward = r3.Vec{Z: 1}
)

// Epsilon below which squared lengths are treated as degenerate.
const degenerateSq = 1e-6

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b with an unclamped t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec linearly interpolates between two vectors with t clamped to [0, 1].
func LerpVec(a, b r3.Vec, t float64) r3.Vec {
	t = Clamp01(t)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Normalize returns the unit vector of v. ok is false when v is too short or
// not finite to have a direction, in which case the zero vector is returned.
func Normalize(v r3.Vec) (unit r3.Vec, ok bool) {
	if !Finite(v) {
		return r3.Vec{}, false
	}
	n2 := r3.Norm2(v)
	if n2 < degenerateSq*degenerateSq {
		return r3.Vec{}, false
	}
	return r3.Scale(1/math.Sqrt(n2), v), true
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n r3.Vec) r3.Vec {
	n2 := r3.Norm2(n)
	if n2 == 0 {
		return v
	}
	return r3.Sub(v, r3.Scale(r3.Dot(v, n)/n2, n))
}

// Project returns the component of v along n.
func Project(v, n r3.Vec) r3.Vec {
	n2 := r3.Norm2(n)
	if n2 == 0 {
		return r3.Vec{}
	}
	return r3.Scale(r3.Dot(v, n)/n2, n)
}

// AngleBetween returns the unsigned angle between a and b in degrees.
// atan2 keeps the result accurate for nearly parallel vectors where acos is not.
func AngleBetween(a, b r3.Vec) float64 {
	c := r3.Norm(r3.Cross(a, b))
	d := r3.Dot(a, b)
	if c == 0 && d == 0 {
		return 0
	}
	return math.Atan2(c, d) * 180 / math.Pi
}

// SignedAngle returns the angle in degrees that rotates from onto to around
// axis, both vectors being taken in the plane orthogonal to axis.
func SignedAngle(from, to, axis r3.Vec) float64 {
	f := ProjectOnPlane(from, axis)
	t := ProjectOnPlane(to, axis)
	angle := AngleBetween(f, t)
	if r3.Dot(axis, r3.Cross(f, t)) < 0 {
		return -angle
	}
	return angle
}

// Perpendicular returns some unit vector orthogonal to v.
func Perpendicular(v r3.Vec) r3.Vec {
	ref := WorldRight
	if math.Abs(v.X) > 0.9 {
		ref = WorldUp
	}
	p, ok := Normalize(r3.Cross(v, ref))
	if !ok {
		return WorldForward
	}
	return p
}

// Slerp spherically interpolates between directions a and b by t (clamped to
// [0, 1]). The inputs are normalised first; the result is unit length. For
// antiparallel inputs the rotation axis is an arbitrary perpendicular.
func Slerp(a, b r3.Vec, t float64) r3.Vec {
	ua, okA := Normalize(a)
	ub, okB := Normalize(b)
	switch {
	case !okA && !okB:
		return WorldUp
	case !okA:
		return ub
	case !okB:
		return ua
	}
	t = Clamp01(t)
	c := r3.Cross(ua, ub)
	cn := r3.Norm(c)
	angle := math.Atan2(cn, r3.Dot(ua, ub))
	if angle < 1e-9 {
		return ub
	}
	axis := Perpendicular(ua)
	if cn > 1e-12 {
		axis = r3.Scale(1/cn, c)
	}
	return r3.NewRotation(angle*t, axis).Rotate(ua)
}

// minReferenceSq is the squared length below which a projected reference
// axis is considered parallel to up.
const minReferenceSq = 1e-3

// YawReference returns the direction that yaw zero faces on a surface with
// the given up axis: world forward projected onto the surface plane, or
// world right when forward is (nearly) parallel to up.
func YawReference(up r3.Vec) r3.Vec {
	for _, ref := range []r3.Vec{WorldForward, WorldRight} {
		p := ProjectOnPlane(ref, up)
		if r3.Norm2(p) >= minReferenceSq {
			u, _ := Normalize(p)
			return u
		}
	}
	return Perpendicular(up)
}
