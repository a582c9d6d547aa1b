// Package systems contains the locomotion controller and the systems it runs
// each tick.
package systems

import (
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/camera"
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/telemetry"
)

// surfaceChangeAngle is the change of TargetUp, in degrees, reported as a
// new surface.
const surfaceChangeAngle = 1.0

// PhaseTimer receives the start of each tick phase. telemetry.PerfCollector
// implements it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Agent bundles the per-agent data a tick reads and writes.
type Agent struct {
	State   *components.AgentState
	Rig     *components.CameraRig
	Capsule components.Capsule
	Input   InputPort
	Pose    TransformPort
}

// TickReport summarises one tick for telemetry and tests.
type TickReport struct {
	Probe          ProbeResult
	Phase          components.Phase
	Jumped         bool
	Landed         bool
	LeftGround     bool
	SurfaceChanged bool
	Desired        r3.Vec // displacement submitted to the collision world
	Actual         r3.Vec // displacement applied
	MoveError      bool
}

// Options configures a Controller.
type Options struct {
	Logger *slog.Logger
	Perf   PhaseTimer
}

// Controller runs the locomotion tick. It holds only immutable tunables, so
// one controller can drive any number of agents.
type Controller struct {
	probe      *SurfaceProbe
	blender    *OrientationBlender
	stabilizer *camera.Stabilizer
	integrator *VelocityIntegrator
	eyeHeight  float64

	logger *slog.Logger
	perf   PhaseTimer
}

// NewController builds a controller from a copy of the relevant config
// sections; later changes to cfg do not affect it.
func NewController(cfg *config.Config, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		probe:      NewSurfaceProbe(cfg.Surface, cfg.Movement, logger),
		blender:    NewOrientationBlender(cfg.Surface),
		stabilizer: camera.NewStabilizer(cfg.Camera, cfg.Look),
		integrator: NewVelocityIntegrator(cfg.Movement, cfg.Jump, cfg.Surface),
		eyeHeight:  cfg.Camera.EyeHeight,
		logger:     logger,
		perf:       opts.Perf,
	}
}

// Spawn returns fresh state and camera rig for an agent placed at the
// given transform.
func (c *Controller) Spawn(position r3.Vec, rotation quat.Number) (components.AgentState, components.CameraRig) {
	state := components.NewAgentState(position, rotation)
	return state, components.NewCameraRig(state.CurrentUp, c.eyeHeight)
}

// Respawn reinitialises an agent exactly as at creation and publishes the
// new pose.
func (c *Controller) Respawn(a Agent, position r3.Vec, rotation quat.Number) {
	*a.State, *a.Rig = c.Spawn(position, rotation)
	if a.Pose != nil {
		a.Pose.SetPose(a.State.Position, a.State.Rotation, a.Rig.LocalRotation)
	}
}

// Tick advances one agent by dt. It never fails: missing input is neutral,
// failed queries are misses and a failed move commits no displacement.
func (c *Controller) Tick(a Agent, world CollisionWorld, dt float64) TickReport {
	if world == nil {
		world = emptyWorld{}
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	s := a.State
	if a.Rig == nil {
		rig := components.NewCameraRig(s.CurrentUp, c.eyeHeight)
		a.Rig = &rig
	}
	wasGrounded := s.Grounded
	prevTarget := s.TargetUp

	c.phase(telemetry.PhaseProbe)
	s.JumpCooldownRemaining = math.Max(0, s.JumpCooldownRemaining-dt)
	in := sampleInput(a.Input)
	var report TickReport
	report.Probe = c.probe.Probe(world, s, a.Capsule, in.Move)

	c.phase(telemetry.PhaseOrientation)
	c.blender.Update(s, dt)

	c.phase(telemetry.PhaseLook)
	c.stabilizer.Look(s, in.Look)

	c.phase(telemetry.PhaseCamera)
	c.stabilizer.Update(a.Rig, s, in.Move, dt)

	c.phase(telemetry.PhaseMovement)
	forward, right := Frame(s.CurrentUp, s.Yaw)
	c.integrator.Move(s, in.Move, in.Sprint, forward, right, dt)

	c.phase(telemetry.PhaseJump)
	report.Jumped = c.integrator.Jump(s, in.Jump)

	c.phase(telemetry.PhaseCommit)
	report.Desired = c.integrator.Commit(s, dt)
	actual, err := world.MoveCapsule(a.Capsule.Handle, report.Desired)
	if err != nil || !geom.Finite(actual) {
		c.logger.Debug("capsule move failed", "handle", a.Capsule.Handle, "error", err)
		actual = r3.Vec{}
		report.MoveError = true
	}
	s.Position = r3.Add(s.Position, actual)
	report.Actual = actual

	if a.Pose != nil {
		a.Pose.SetPose(s.Position, s.Rotation, a.Rig.LocalRotation)
	}

	report.Phase = s.Phase()
	report.Landed = !wasGrounded && s.Grounded
	report.LeftGround = wasGrounded && !s.Grounded && !report.Jumped
	report.SurfaceChanged = report.Probe.Grounded && geom.AngleBetween(prevTarget, s.TargetUp) > surfaceChangeAngle
	if report.Landed || report.LeftGround || report.Jumped {
		c.logger.Debug("locomotion transition",
			"handle", a.Capsule.Handle,
			"phase", report.Phase.String(),
			"jumped", report.Jumped,
			"source", report.Probe.Source.String(),
		)
	}
	return report
}

func (c *Controller) phase(name string) {
	if c.perf != nil {
		c.perf.StartPhase(name)
	}
}

var errNoWorld = errors.New("no collision world")

// emptyWorld stands in for a missing collision world: nothing is hit and
// nothing moves.
type emptyWorld struct{}

func (emptyWorld) Raycast(r3.Vec, r3.Vec, float64, uint32) (components.Hit, bool, error) {
	return components.Hit{}, false, nil
}

func (emptyWorld) SphereCast(r3.Vec, float64, r3.Vec, float64, uint32) (components.Hit, bool, error) {
	return components.Hit{}, false, nil
}

func (emptyWorld) MoveCapsule(components.AgentHandle, r3.Vec) (r3.Vec, error) {
	return r3.Vec{}, errNoWorld
}
