package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/collision"
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

func TestUnitUpInvariantUnderRandomInput(t *testing.T) {
	cfg := testConfig(t, nil)
	world, err := collision.LoadLevel(cfg.Level)
	if err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, cfg, world, r3.Vec{Y: 1}, geom.Identity())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 3000; i++ {
		if i%20 == 0 {
			h.input.move = r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
			h.input.look = r2.Vec{X: rng.NormFloat64() * 3, Y: rng.NormFloat64()}
			h.input.sprint = rng.Intn(2) == 0
		}
		h.input.jump = rng.Float64() < 0.02
		h.tick()

		assertUnit(t, h.state.CurrentUp, "CurrentUp")
		assertUnit(t, h.state.TargetUp, "TargetUp")
		if !geom.Finite(h.state.Position) || !geom.Finite(h.state.Velocity) {
			t.Fatalf("tick %d: non-finite state %+v", i, *h.state)
		}
		if h.state.JumpCooldownRemaining < 0 {
			t.Fatalf("tick %d: cooldown %f < 0", i, h.state.JumpCooldownRemaining)
		}
		if h.state.JumpCooldownRemaining > 0 && h.state.Grounded {
			t.Fatalf("tick %d: grounded during cooldown", i)
		}
	}
}

func TestGroundedStickBound(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, floorWorld(t), r3.Vec{Y: 0.5}, geom.Identity())
	rng := rand.New(rand.NewSource(3))
	stick := cfg.Surface.StickForce

	grounded := 0
	for i := 0; i < 600; i++ {
		if i%15 == 0 {
			h.input.move = r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
		}
		h.tick()
		if !h.state.Grounded {
			continue
		}
		grounded++
		if v := h.state.UpSpeed(); v < -stick-1e-9 || v > 1e-9 {
			t.Fatalf("tick %d: along-up velocity %f outside [%f, 0]", i, v, -stick)
		}
	}
	if grounded != 600 {
		t.Errorf("grounded for %d of 600 ticks on a flat floor", grounded)
	}
}

func TestJumpRiseIsExact(t *testing.T) {
	cfg := testConfig(t, nil)
	integ := NewVelocityIntegrator(cfg.Movement, cfg.Jump, cfg.Surface)
	state := components.NewAgentState(r3.Vec{Y: 0.5}, geom.Identity())
	state.Grounded = true

	if !integ.Jump(&state, true) {
		t.Fatal("Jump returned false while grounded")
	}
	want := math.Sqrt(2 * cfg.Jump.Height * math.Abs(cfg.Jump.Gravity))
	if got := state.UpSpeed(); got != want {
		t.Errorf("along-up velocity = %v, want exactly %v", got, want)
	}
	if state.Grounded {
		t.Error("still grounded after jump")
	}
	if state.JumpCooldownRemaining != cfg.Jump.Cooldown {
		t.Errorf("cooldown = %f, want %f", state.JumpCooldownRemaining, cfg.Jump.Cooldown)
	}
	if want != cfg.Derived.JumpVelocity {
		t.Errorf("derived jump velocity %f differs from %f", cfg.Derived.JumpVelocity, want)
	}
}

func TestJumpRequiresGroundAndPress(t *testing.T) {
	cfg := testConfig(t, nil)
	integ := NewVelocityIntegrator(cfg.Movement, cfg.Jump, cfg.Surface)

	state := components.NewAgentState(r3.Vec{}, geom.Identity())
	if integ.Jump(&state, true) {
		t.Error("jumped while airborne")
	}
	state.Grounded = true
	if integ.Jump(&state, false) {
		t.Error("jumped without a press")
	}
	if state.Velocity != (r3.Vec{}) {
		t.Errorf("velocity changed to %v", state.Velocity)
	}
}

func TestJumpTickAppliesAirPull(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, floorWorld(t), r3.Vec{Y: 0.5}, geom.Identity())
	h.tick()
	if !h.state.Grounded {
		t.Fatal("not grounded on the floor")
	}

	h.input.jump = true
	report := h.tick()
	if !report.Jumped {
		t.Fatal("jump not reported")
	}
	want := cfg.Derived.JumpVelocity - cfg.Jump.AirGravity*dt
	approxEqual(t, h.state.UpSpeed(), want, 1e-9, "up speed after jump tick")
	approxEqual(t, report.Desired.Y, cfg.Derived.JumpVelocity*dt, 1e-9, "jump tick displacement")
	if report.Phase != components.PhaseRising {
		t.Errorf("phase = %v, want Rising", report.Phase)
	}
}

func TestCooldownGatesProbing(t *testing.T) {
	cfg := testConfig(t, nil)
	// Every query hits, so only the cooldown can keep the agent airborne.
	world := &scriptedWorld{hit: floorHit(), ok: true}
	h := newHarness(t, cfg, world, r3.Vec{Y: 0.5}, geom.Identity())
	h.tick()
	if !h.state.Grounded {
		t.Fatal("not grounded before jump")
	}

	h.input.jump = true
	if !h.tick().Jumped {
		t.Fatal("jump did not fire")
	}
	h.input.jump = false

	airborne := 1
	for i := 0; i < 60; i++ {
		report := h.tick()
		if h.state.Grounded {
			break
		}
		if !report.Probe.Skipped {
			t.Fatalf("tick %d: probe ran while ungrounded with an always-hit world", i)
		}
		airborne++
	}
	if elapsed := float64(airborne) * dt; elapsed < cfg.Jump.Cooldown-1e-9 {
		t.Errorf("airborne for %f s, want at least the %f s cooldown", elapsed, cfg.Jump.Cooldown)
	}
	if !h.state.Grounded {
		t.Error("never regrounded after the cooldown")
	}
	if airborne > int(math.Ceil(cfg.Jump.Cooldown/dt))+1 {
		t.Errorf("airborne %d ticks, longer than the cooldown requires", airborne)
	}
}

func TestCornerTransitionStaysGrounded(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, cornerWorld(t), r3.Vec{Y: 0.5}, geom.AngleAxis(90, geom.WorldUp))
	h.input.move = r2.Vec{Y: 1}
	wall := r3.Vec{X: -1}

	reached := -1
	for i := 0; i < 300; i++ {
		h.tick()
		if !h.state.Grounded {
			t.Fatalf("tick %d: ungrounded at %v with up %v", i, h.state.Position, h.state.CurrentUp)
		}
		if reached < 0 && r3.Norm(r3.Sub(h.state.TargetUp, wall)) < 1e-9 {
			reached = i
		}
	}
	if reached < 0 || reached > 120 {
		t.Fatalf("target up reached the wall normal at tick %d, want within 120", reached)
	}
	if a := geom.AngleBetween(h.state.CurrentUp, wall); a > 1 {
		t.Errorf("current up %f° from the wall normal", a)
	}
	if h.state.Position.Y < 2 {
		t.Errorf("agent did not climb the wall: %v", h.state.Position)
	}
}

func TestZeroInputIsIdempotent(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, floorWorld(t), r3.Vec{Y: 0.5}, geom.Identity())
	h.state.PlanarVelocity = r3.Vec{X: 3, Z: 1}

	prev := r3.Norm(h.state.PlanarVelocity)
	for i := 0; i < 120; i++ {
		h.tick()
		cur := r3.Norm(h.state.PlanarVelocity)
		if cur > prev {
			t.Fatalf("tick %d: planar speed grew %f -> %f", i, prev, cur)
		}
		prev = cur
	}
	if prev != 0 {
		t.Fatalf("planar speed %g did not settle to zero", prev)
	}

	rest := h.state.Position
	for i := 0; i < 60; i++ {
		report := h.tick()
		if h.state.Position != rest {
			t.Fatalf("tick %d: drifted from %v to %v", i, rest, h.state.Position)
		}
		if report.Actual != (r3.Vec{}) {
			t.Fatalf("tick %d: moved by %v at rest", i, report.Actual)
		}
	}
}

func TestPortFailuresDegradeToNeutral(t *testing.T) {
	cfg := testConfig(t, nil)
	world := &scriptedWorld{err: errors.New("broadphase offline"), moveErr: errors.New("no body")}
	h := newHarness(t, cfg, world, r3.Vec{Y: 1}, geom.Identity())
	h.agent.Input = nil

	for i := 0; i < 30; i++ {
		report := h.tick()
		if report.Probe.Grounded || h.state.Grounded {
			t.Fatal("grounded with a failing world")
		}
		if report.Probe.QueryErrors == 0 {
			t.Error("query errors not counted")
		}
		if !report.MoveError || report.Actual != (r3.Vec{}) {
			t.Fatalf("move error not degraded: %+v", report)
		}
	}
	if h.state.Position != (r3.Vec{Y: 1}) {
		t.Errorf("position changed to %v despite failing moves", h.state.Position)
	}
	assertUnit(t, h.state.CurrentUp, "CurrentUp")
}

func TestNonFiniteInputIsNeutral(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, floorWorld(t), r3.Vec{Y: 0.5}, geom.Identity())
	h.input.move = r2.Vec{X: math.NaN(), Y: math.Inf(1)}
	h.input.look = r2.Vec{X: math.Inf(-1), Y: math.NaN()}
	for i := 0; i < 10; i++ {
		h.tick()
	}
	if !geom.Finite(h.state.Position) || math.IsNaN(h.state.Yaw) || math.IsNaN(h.state.Pitch) {
		t.Fatalf("non-finite input leaked into state: %+v", *h.state)
	}
	if h.state.PlanarVelocity != (r3.Vec{}) {
		t.Errorf("planar velocity %v from non-finite input", h.state.PlanarVelocity)
	}
}

func TestTickWithoutWorldOrRig(t *testing.T) {
	cfg := testConfig(t, nil)
	ctrl := NewController(cfg, Options{})
	state, _ := ctrl.Spawn(r3.Vec{Y: 3}, geom.Identity())
	report := ctrl.Tick(Agent{State: &state}, nil, dt)
	if state.Grounded || !report.MoveError {
		t.Errorf("nil world: grounded=%v moveError=%v", state.Grounded, report.MoveError)
	}
	ctrl.Tick(Agent{State: &state}, nil, math.NaN())
	assertUnit(t, state.CurrentUp, "CurrentUp")
}

func TestPoseIsPublished(t *testing.T) {
	cfg := testConfig(t, nil)
	h := newHarness(t, cfg, floorWorld(t), r3.Vec{Y: 0.5}, geom.Identity())
	h.input.move = r2.Vec{Y: 1}
	for i := 0; i < 10; i++ {
		h.tick()
	}
	if h.pose.Position != h.state.Position || h.pose.Rotation != h.state.Rotation {
		t.Errorf("pose %+v does not match state", *h.pose)
	}
	if h.pose.CameraLocal != h.rig.LocalRotation {
		t.Error("camera local rotation not published")
	}
	if h.state.Position.Z <= 0 {
		t.Errorf("agent did not move forward: %v", h.state.Position)
	}
}

func TestRespawnRestoresInitialState(t *testing.T) {
	cfg := testConfig(t, nil)
	spawn := r3.Vec{Y: 0.5}
	rot := geom.AngleAxis(30, geom.WorldUp)
	h := newHarness(t, cfg, floorWorld(t), spawn, rot)
	fresh := *h.state

	h.input.move = r2.Vec{X: 1, Y: 1}
	h.input.look = r2.Vec{X: 4, Y: 2}
	for i := 0; i < 30; i++ {
		h.tick()
	}
	h.ctrl.Respawn(h.agent, spawn, rot)
	if *h.state != fresh {
		t.Errorf("respawned state %+v, want %+v", *h.state, fresh)
	}
	if h.rig.LocalRotation != geom.Identity() {
		t.Errorf("rig not reset: %+v", *h.rig)
	}
	if h.pose.Position != spawn {
		t.Errorf("pose position %v after respawn, want %v", h.pose.Position, spawn)
	}
}

func TestTransitionsReported(t *testing.T) {
	cfg := testConfig(t, func(c *config.Config) { c.Surface.EdgeProbing = false })
	world := &scriptedWorld{hit: floorHit(), ok: true}
	h := newHarness(t, cfg, world, r3.Vec{Y: 0.5}, geom.Identity())

	if r := h.tick(); !r.Landed {
		t.Error("first grounded tick not reported as landing")
	}
	world.ok = false
	if r := h.tick(); !r.LeftGround || r.Phase != components.PhaseFalling {
		t.Errorf("leaving ground not reported: %+v", r)
	}
	world.ok = true
	world.hit.Normal = r3.Vec{X: -1}
	if r := h.tick(); !r.Landed || !r.SurfaceChanged {
		t.Errorf("landing on a new surface not reported: %+v", r)
	}
}
