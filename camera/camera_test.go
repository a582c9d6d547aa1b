package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

const dt = 1.0 / 60

func newTestStabilizer() *Stabilizer {
	cfg := config.Defaults()
	return NewStabilizer(cfg.Camera, cfg.Look)
}

func TestLookAccumulatesAndClamps(t *testing.T) {
	s := newTestStabilizer()
	state := components.NewAgentState(r3.Vec{}, geom.Identity())

	s.Look(&state, r2.Vec{X: 5, Y: 0})
	if math.Abs(state.Yaw-10) > 1e-12 {
		t.Errorf("Yaw = %f, want 10", state.Yaw)
	}

	// Mouse up (negative Y) pitches up to the limit and no further.
	for i := 0; i < 100; i++ {
		s.Look(&state, r2.Vec{Y: 10})
	}
	if state.Pitch != -85 {
		t.Errorf("Pitch = %f, want -85", state.Pitch)
	}
	for i := 0; i < 100; i++ {
		s.Look(&state, r2.Vec{Y: -10})
	}
	if state.Pitch != 85 {
		t.Errorf("Pitch = %f, want 85", state.Pitch)
	}

	s.Look(&state, r2.Vec{X: math.NaN(), Y: math.Inf(1)})
	if math.IsNaN(state.Yaw) || state.Pitch != 85 {
		t.Errorf("non-finite delta changed state: yaw=%f pitch=%f", state.Yaw, state.Pitch)
	}
}

func TestLookYawWraps(t *testing.T) {
	s := newTestStabilizer()
	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	state.Yaw = 170
	s.Look(&state, r2.Vec{X: 10})
	if math.Abs(state.Yaw-(-170)) > 1e-9 {
		t.Errorf("Yaw = %f, want -170", state.Yaw)
	}
}

func TestStrafeTiltLeansAway(t *testing.T) {
	s := newTestStabilizer()
	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	rig := components.NewCameraRig(state.CurrentUp, 0.6)

	for i := 0; i < 300; i++ {
		s.Update(&rig, &state, r2.Vec{X: 1}, dt)
	}
	if math.Abs(state.StrafeTilt-(-3)) > 1e-3 {
		t.Errorf("StrafeTilt = %f, want -3", state.StrafeTilt)
	}

	for i := 0; i < 300; i++ {
		s.Update(&rig, &state, r2.Vec{}, dt)
	}
	if math.Abs(state.StrafeTilt) > 1e-3 {
		t.Errorf("StrafeTilt = %f after release, want 0", state.StrafeTilt)
	}
}

func TestStrafeTiltDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Camera.StrafeTilt = false
	s := NewStabilizer(cfg.Camera, cfg.Look)
	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	rig := components.NewCameraRig(state.CurrentUp, 0.6)
	for i := 0; i < 60; i++ {
		s.Update(&rig, &state, r2.Vec{X: 1}, dt)
	}
	if state.StrafeTilt != 0 {
		t.Errorf("StrafeTilt = %f with tilt disabled", state.StrafeTilt)
	}
}

func TestLocalRotationConvergesToPitch(t *testing.T) {
	s := newTestStabilizer()
	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	state.Pitch = 40
	rig := components.NewCameraRig(state.CurrentUp, 0.6)

	prev := geom.QuatAngle(rig.LocalRotation, geom.Euler(40, 0, 0))
	for i := 0; i < 240; i++ {
		s.Update(&rig, &state, r2.Vec{}, dt)
		cur := geom.QuatAngle(rig.LocalRotation, geom.Euler(40, 0, 0))
		if cur > prev+1e-4 {
			t.Fatalf("tick %d: camera moved away from target (%f > %f)", i, cur, prev)
		}
		prev = cur
	}
	if prev > 0.1 {
		t.Errorf("camera %f° from target after 4s", prev)
	}
}

func TestSmoothedUpLagsAndConverges(t *testing.T) {
	s := newTestStabilizer()
	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	rig := components.NewCameraRig(geom.WorldUp, 0.6)
	state.CurrentUp = r3.Vec{X: -1}

	s.Update(&rig, &state, r2.Vec{}, dt)
	first := geom.AngleBetween(rig.SmoothedUp, geom.WorldUp)
	if first <= 0 || first >= 90 {
		t.Fatalf("after one tick smoothed up moved %f°, want a partial step", first)
	}
	for i := 0; i < 600; i++ {
		s.Update(&rig, &state, r2.Vec{}, dt)
		if math.Abs(r3.Norm(rig.SmoothedUp)-1) > 1e-9 {
			t.Fatalf("|SmoothedUp| = %f", r3.Norm(rig.SmoothedUp))
		}
	}
	if a := geom.AngleBetween(rig.SmoothedUp, state.CurrentUp); a > 1 {
		t.Errorf("smoothed up %f° from current up after 10s", a)
	}
}

func TestOrbitCamera(t *testing.T) {
	c := New()
	pose := components.Pose{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Rotation: geom.Identity(), CameraLocal: geom.Identity()}
	rig := components.NewCameraRig(geom.WorldUp, 0.6)

	v := c.Follow(pose, rig)
	if d := r3.Norm(r3.Sub(v.Eye, v.Target)); math.Abs(d-c.Distance) > 1e-9 {
		t.Errorf("eye distance = %f, want %f", d, c.Distance)
	}
	if v.Eye.Y <= v.Target.Y {
		t.Errorf("orbit eye %v not above target %v", v.Eye, v.Target)
	}

	c.ZoomBy(1000)
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %f, want clamp to %f", c.Distance, c.MinDistance)
	}
	c.Pan(0, 500)
	if c.Pitch != 85 {
		t.Errorf("Pitch = %f, want 85", c.Pitch)
	}
}

func TestFirstPersonUsesSmoothedUp(t *testing.T) {
	pose := components.Pose{Position: r3.Vec{}, Rotation: geom.Identity(), CameraLocal: geom.Identity()}
	rig := components.NewCameraRig(r3.Vec{X: -1}, 0.5)

	v := FirstPerson(pose, rig)
	if r3.Norm(r3.Sub(v.Eye, r3.Vec{X: -0.5})) > 1e-12 {
		t.Errorf("eye = %v, want (-0.5,0,0)", v.Eye)
	}
	if r3.Norm(r3.Sub(r3.Sub(v.Target, v.Eye), geom.WorldForward)) > 1e-9 {
		t.Errorf("look direction = %v, want world forward", r3.Sub(v.Target, v.Eye))
	}
}
