package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// noInputSq is the squared move magnitude below which the stop damping
// applies on top of the approach filter.
const noInputSq = 0.01

// VelocityIntegrator owns planar movement, jumping and the split between
// grounded stick and airborne pull.
type VelocityIntegrator struct {
	mv           config.MovementConfig
	jump         config.JumpConfig
	stickForce   float64
	jumpVelocity float64
}

// NewVelocityIntegrator creates an integrator with its own copy of the
// tunables.
func NewVelocityIntegrator(mv config.MovementConfig, jump config.JumpConfig, surface config.SurfaceConfig) *VelocityIntegrator {
	return &VelocityIntegrator{
		mv:           mv,
		jump:         jump,
		stickForce:   surface.StickForce,
		jumpVelocity: JumpVelocity(jump.Height, jump.Gravity),
	}
}

// JumpVelocity is the launch speed that rises height under |gravity|.
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * 2 * math.Abs(gravity))
}

// Move filters PlanarVelocity toward the velocity requested by move and
// returns the desired velocity.
func (v *VelocityIntegrator) Move(state *components.AgentState, move r2.Vec, sprint bool, forward, right r3.Vec, dt float64) r3.Vec {
	up := state.CurrentUp
	speed := v.mv.MoveSpeed
	if sprint {
		speed = v.mv.SprintSpeed
	}

	dir := r3.Add(r3.Scale(move.Y, forward), r3.Scale(move.X, right))
	desired := geom.ProjectOnPlane(r3.Scale(speed, dir), up)

	pv := geom.LerpVec(state.PlanarVelocity, desired, v.mv.Responsiveness*dt)
	if r2.Norm2(move) < noInputSq {
		pv = geom.LerpVec(pv, r3.Vec{}, v.mv.StopDamping*dt)
	}
	pv = geom.ProjectOnPlane(pv, up)
	if r3.Norm(pv) < v.mv.ResidualSpeed {
		pv = r3.Vec{}
	}
	state.PlanarVelocity = pv
	return desired
}

// Jump launches the agent along CurrentUp when grounded and pressed. The
// along-up velocity is set, not added, and probing is suspended for the
// cooldown.
func (v *VelocityIntegrator) Jump(state *components.AgentState, pressed bool) bool {
	if !pressed || !state.Grounded {
		return false
	}
	up := state.CurrentUp
	planar := r3.Sub(state.Velocity, r3.Scale(r3.Dot(state.Velocity, up), up))
	state.Velocity = r3.Add(planar, r3.Scale(v.jumpVelocity, up))
	state.JumpCooldownRemaining = v.jump.Cooldown
	state.Grounded = false
	return true
}

// Commit returns this tick's displacement and advances Velocity. Grounded
// agents keep only a bounded inward along-up velocity and are pressed onto
// the surface by the stick term; airborne agents are pulled along -up.
func (v *VelocityIntegrator) Commit(state *components.AgentState, dt float64) r3.Vec {
	up := state.CurrentUp
	disp := r3.Scale(dt, r3.Add(state.PlanarVelocity, state.Velocity))

	if state.Grounded {
		upVel := geom.Clamp(r3.Dot(state.Velocity, up), -v.stickForce, 0)
		state.Velocity = r3.Scale(upVel, up)
		disp = r3.Add(disp, r3.Scale(-v.stickForce*dt, up))
		return disp
	}

	state.Velocity = r3.Add(state.Velocity, r3.Scale(-v.jump.AirGravity*dt, up))
	return disp
}
