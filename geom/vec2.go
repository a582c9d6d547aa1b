package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SanitizeMove replaces non-finite components with zero and clamps the
// vector to the unit disk, keeping analog magnitudes below one.
func SanitizeMove(v r2.Vec) r2.Vec {
	v = SanitizeDelta(v)
	if n := r2.Norm(v); n > 1 {
		return r2.Scale(1/n, v)
	}
	return v
}

// SanitizeDelta replaces non-finite components with zero.
func SanitizeDelta(v r2.Vec) r2.Vec {
	if !finite(v.X) {
		v.X = 0
	}
	if !finite(v.Y) {
		v.Y = 0
	}
	return v
}

// Deadzone zeroes a component whose magnitude is below dz.
func Deadzone(x, dz float64) float64 {
	if math.Abs(x) < dz {
		return 0
	}
	return x
}
