package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/collision"
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

const dt = 1.0 / 60

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func assertUnit(t *testing.T, v r3.Vec, field string) {
	t.Helper()
	if !geom.Finite(v) || math.Abs(r3.Norm(v)-1) > 1e-5 {
		t.Fatalf("|%s| = %f (%v), want 1", field, r3.Norm(v), v)
	}
}

// fakeInput is a fixed input sample.
type fakeInput struct {
	move, look   r2.Vec
	sprint, jump bool
}

func (f *fakeInput) SampleMove() r2.Vec           { return f.move }
func (f *fakeInput) SampleLookDelta() r2.Vec      { return f.look }
func (f *fakeInput) IsSprintHeld() bool           { return f.sprint }
func (f *fakeInput) WasJumpPressedThisTick() bool { return f.jump }

// scriptedWorld answers every query with the same result and records the
// ray directions it was asked about.
type scriptedWorld struct {
	hit     components.Hit
	ok      bool
	err     error
	moveErr error
	rays    []r3.Vec
}

func (w *scriptedWorld) Raycast(origin, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error) {
	w.rays = append(w.rays, dir)
	return w.hit, w.ok, w.err
}

func (w *scriptedWorld) SphereCast(origin r3.Vec, radius float64, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error) {
	return w.hit, w.ok, w.err
}

func (w *scriptedWorld) MoveCapsule(handle components.AgentHandle, disp r3.Vec) (r3.Vec, error) {
	if w.moveErr != nil {
		return r3.Vec{}, w.moveErr
	}
	return disp, nil
}

func floorHit() components.Hit {
	return components.Hit{Distance: 0.5, Normal: geom.WorldUp, Point: r3.Vec{}}
}

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Recompute(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// harness is one agent driven by a controller against a world.
type harness struct {
	ctrl  *Controller
	state *components.AgentState
	rig   *components.CameraRig
	pose  *components.Pose
	input *fakeInput
	agent Agent
	world CollisionWorld
}

func newHarness(t *testing.T, cfg *config.Config, world CollisionWorld, pos r3.Vec, rot quat.Number) *harness {
	t.Helper()
	ctrl := NewController(cfg, Options{})
	state, rig := ctrl.Spawn(pos, rot)
	h := &harness{
		ctrl:  ctrl,
		state: &state,
		rig:   &rig,
		pose:  &components.Pose{},
		input: &fakeInput{},
		world: world,
	}
	h.agent = Agent{
		State:   h.state,
		Rig:     h.rig,
		Capsule: components.CapsuleFromConfig(1, cfg.Surface),
		Input:   h.input,
		Pose:    h.pose,
	}
	if cw, ok := world.(*collision.World); ok {
		if err := cw.AddBody(1, pos, cfg.Surface.CapsuleRadius); err != nil {
			t.Fatalf("AddBody: %v", err)
		}
	}
	return h
}

func (h *harness) tick() TickReport {
	return h.ctrl.Tick(h.agent, h.world, dt)
}

// floorWorld is a single floor at y=0.
func floorWorld(t *testing.T) *collision.World {
	t.Helper()
	w := collision.NewWorld()
	if err := w.AddHalfSpace(geom.WorldUp, 0, 0); err != nil {
		t.Fatal(err)
	}
	return w
}

// cornerWorld is a floor at y=0 meeting a wall that fills x >= 3.
func cornerWorld(t *testing.T) *collision.World {
	t.Helper()
	w := floorWorld(t)
	if err := w.AddHalfSpace(r3.Vec{X: -1}, -3, 0); err != nil {
		t.Fatal(err)
	}
	return w
}
