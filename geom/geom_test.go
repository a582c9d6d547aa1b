package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func quatNorm(q quat.Number) float64 { return quat.Abs(q) }

func quatNeg(q quat.Number) quat.Number { return quat.Scale(-1, q) }

func vecNear(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestNormalizeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		in   r3.Vec
		ok   bool
	}{
		{"unit", r3.Vec{X: 1}, true},
		{"long", r3.Vec{X: 3, Y: 4}, true},
		{"zero", r3.Vec{}, false},
		{"tiny", r3.Vec{X: 1e-14}, false},
		{"nan", r3.Vec{X: math.NaN(), Y: 1}, false},
		{"inf", r3.Vec{Z: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := Normalize(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(r3.Norm(u)-1) > 1e-12 {
				t.Errorf("|u| = %f, want 1", r3.Norm(u))
			}
		})
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		a, b r3.Vec
		want float64
	}{
		{WorldUp, WorldUp, 0},
		{WorldUp, WorldRight, 90},
		{WorldUp, r3.Vec{Y: -1}, 180},
		{WorldUp, r3.Vec{X: 1, Y: 1}, 45},
	}
	for _, tt := range tests {
		if got := AngleBetween(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngleBetween(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSignedAngle(t *testing.T) {
	got := SignedAngle(WorldForward, WorldRight, WorldUp)
	if math.Abs(got-90) > 1e-9 {
		t.Errorf("forward->right around up = %f, want 90", got)
	}
	got = SignedAngle(WorldRight, WorldForward, WorldUp)
	if math.Abs(got+90) > 1e-9 {
		t.Errorf("right->forward around up = %f, want -90", got)
	}
}

func TestSlerpEndpointsAndMidpoint(t *testing.T) {
	a := WorldUp
	b := r3.Vec{X: -1}

	if got := Slerp(a, b, 0); !vecNear(got, a, 1e-12) {
		t.Errorf("Slerp t=0 = %v, want %v", got, a)
	}
	if got := Slerp(a, b, 1); !vecNear(got, b, 1e-12) {
		t.Errorf("Slerp t=1 = %v, want %v", got, b)
	}
	mid := Slerp(a, b, 0.5)
	if math.Abs(AngleBetween(mid, a)-45) > 1e-9 {
		t.Errorf("midpoint angle = %f, want 45", AngleBetween(mid, a))
	}
	if math.Abs(r3.Norm(mid)-1) > 1e-12 {
		t.Errorf("|mid| = %f, want 1", r3.Norm(mid))
	}
	// t outside [0,1] is clamped.
	if got := Slerp(a, b, 3); !vecNear(got, b, 1e-12) {
		t.Errorf("Slerp t=3 = %v, want %v", got, b)
	}
}

func TestSlerpAntiparallel(t *testing.T) {
	got := Slerp(WorldUp, r3.Vec{Y: -1}, 0.5)
	if math.Abs(r3.Norm(got)-1) > 1e-9 {
		t.Fatalf("|got| = %f, want 1", r3.Norm(got))
	}
	if math.Abs(AngleBetween(got, WorldUp)-90) > 1e-6 {
		t.Errorf("antiparallel midpoint at %f deg, want 90", AngleBetween(got, WorldUp))
	}
}

func TestLookRotationAxes(t *testing.T) {
	tests := []struct {
		name        string
		forward, up r3.Vec
	}{
		{"identity", WorldForward, WorldUp},
		{"facing right", WorldRight, WorldUp},
		{"on wall", r3.Vec{Y: 1}, r3.Vec{X: -1}},
		{"ceiling", r3.Vec{Z: -1}, r3.Vec{Y: -1}},
		{"oblique", r3.Vec{X: 1, Y: 1, Z: 0}, r3.Vec{X: -1, Y: 1, Z: 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := LookRotation(tt.forward, tt.up)
			wantF, _ := Normalize(tt.forward)
			if got := Forward(q); !vecNear(got, wantF, 1e-9) {
				t.Errorf("forward = %v, want %v", got, wantF)
			}
			if r3.Dot(Up(q), tt.up) <= 0 {
				t.Errorf("up %v points away from %v", Up(q), tt.up)
			}
			if d := r3.Dot(Up(q), Forward(q)); math.Abs(d) > 1e-9 {
				t.Errorf("up.forward = %f, want 0", d)
			}
		})
	}
}

func TestLookRotationParallelFallback(t *testing.T) {
	q := LookRotation(WorldUp, WorldUp)
	if math.Abs(quatNorm(q)-1) > 1e-9 {
		t.Fatalf("|q| = %f, want 1", quatNorm(q))
	}
	if !vecNear(Forward(q), WorldUp, 1e-9) {
		t.Errorf("forward = %v, want %v", Forward(q), WorldUp)
	}
}

func TestSlerpQuatShortestPath(t *testing.T) {
	a := Identity()
	b := AngleAxis(90, WorldUp)
	mid := SlerpQuat(a, b, 0.5)
	if got := QuatAngle(a, mid); math.Abs(got-45) > 1e-6 {
		t.Errorf("midpoint angle = %f, want 45", got)
	}
	// Negated quaternion is the same rotation; slerp must not take the long way.
	neg := SlerpQuat(a, quatNeg(b), 0.5)
	if got := QuatAngle(a, neg); math.Abs(got-45) > 1e-6 {
		t.Errorf("midpoint via negated target = %f, want 45", got)
	}
}

func TestEulerPitchRoll(t *testing.T) {
	q := Euler(90, 0, 0)
	// Positive pitch tips forward down toward -Y.
	if got := Forward(q); !vecNear(got, r3.Vec{Y: -1}, 1e-9) {
		t.Errorf("pitch 90 forward = %v, want (0,-1,0)", got)
	}
	q = Euler(0, 0, 90)
	if got := Right(q); !vecNear(got, WorldUp, 1e-9) {
		t.Errorf("roll 90 right = %v, want (0,1,0)", got)
	}
	q = Euler(0, 90, 0)
	if got := Forward(q); !vecNear(got, WorldRight, 1e-9) {
		t.Errorf("yaw 90 forward = %v, want (1,0,0)", got)
	}
}

func TestSanitizeMove(t *testing.T) {
	tests := []struct {
		name string
		in   r2.Vec
		want r2.Vec
	}{
		{"zero", r2.Vec{}, r2.Vec{}},
		{"analog kept", r2.Vec{X: 0.3, Y: 0.4}, r2.Vec{X: 0.3, Y: 0.4}},
		{"clamped", r2.Vec{X: 3, Y: 4}, r2.Vec{X: 0.6, Y: 0.8}},
		{"nan", r2.Vec{X: math.NaN(), Y: 1}, r2.Vec{Y: 1}},
		{"inf", r2.Vec{X: math.Inf(-1), Y: math.Inf(1)}, r2.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeMove(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("SanitizeMove(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
