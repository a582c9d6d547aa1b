package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const deg2rad = math.Pi / 180

// Identity returns the identity rotation.
func Identity() quat.Number {
	return quat.Number{Real: 1}
}

// AngleAxis returns the rotation of deg degrees around axis.
func AngleAxis(deg float64, axis r3.Vec) quat.Number {
	u, ok := Normalize(axis)
	if !ok || deg == 0 {
		return Identity()
	}
	return quat.Number(r3.NewRotation(deg*deg2rad, u))
}

// Rotate applies the unit quaternion q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Forward returns the local forward axis of q in world space.
func Forward(q quat.Number) r3.Vec { return Rotate(q, WorldForward) }

// Up returns the local up axis of q in world space.
func Up(q quat.Number) r3.Vec { return Rotate(q, WorldUp) }

// Right returns the local right axis of q in world space.
func Right(q quat.Number) r3.Vec { return Rotate(q, WorldRight) }

// NormalizeQuat rescales q to unit length. A zero or non-finite q becomes
// the identity.
func NormalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < 1e-12 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Identity()
	}
	return quat.Scale(1/n, q)
}

func dot4(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// SlerpQuat spherically interpolates between rotations a and b by t, clamped
// to [0, 1], along the shorter arc.
func SlerpQuat(a, b quat.Number, t float64) quat.Number {
	t = Clamp01(t)
	d := dot4(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}
	if d > 0.9995 {
		return NormalizeQuat(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}
	theta := math.Acos(Clamp(d, -1, 1))
	s := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / s
	wb := math.Sin(t*theta) / s
	return NormalizeQuat(quat.Add(quat.Scale(wa, a), quat.Scale(wb, b)))
}

// QuatAngle returns the angle in degrees of the rotation taking a to b.
func QuatAngle(a, b quat.Number) float64 {
	d := math.Abs(dot4(NormalizeQuat(a), NormalizeQuat(b)))
	return 2 * math.Acos(Clamp(d, 0, 1)) / deg2rad
}

// LookRotation returns the rotation whose forward axis is forward and whose
// up axis is the component of up orthogonal to forward. If the two are
// parallel an arbitrary perpendicular up is used.
func LookRotation(forward, up r3.Vec) quat.Number {
	f, ok := Normalize(forward)
	if !ok {
		return Identity()
	}
	r, ok := Normalize(r3.Cross(up, f))
	if !ok {
		r, _ = Normalize(r3.Cross(Perpendicular(f), f))
	}
	u := r3.Cross(f, r)

	// Columns of the rotation matrix are r, u, f.
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	return NormalizeQuat(q)
}

// Euler builds a rotation from pitch (around local X), yaw (around local Y)
// and roll (around local Z), in degrees. Roll is applied first, then pitch,
// then yaw.
func Euler(pitch, yaw, roll float64) quat.Number {
	qx := AngleAxis(pitch, WorldRight)
	qy := AngleAxis(yaw, WorldUp)
	qz := AngleAxis(roll, WorldForward)
	return NormalizeQuat(quat.Mul(quat.Mul(qy, qx), qz))
}
