package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/sim"
	"github.com/pthm-cable/wallwalk/systems"
)

// Gizmo colors
var (
	ColorBody       = rl.Color{R: 200, G: 200, B: 210, A: 255}
	ColorBodyAir    = rl.Color{R: 150, G: 150, B: 180, A: 255}
	ColorSelected   = rl.Color{R: 255, G: 220, B: 80, A: 255}
	ColorCurrentUp  = rl.Color{R: 80, G: 220, B: 120, A: 255}
	ColorTargetUp   = rl.Color{R: 240, G: 90, B: 90, A: 255}
	ColorSmoothedUp = rl.Color{R: 90, G: 160, B: 255, A: 255}
	ColorForward    = rl.Color{R: 80, G: 140, B: 255, A: 255}
	ColorRight      = rl.Color{R: 255, G: 100, B: 100, A: 255}
	ColorVelocity   = rl.Color{R: 255, G: 200, B: 60, A: 255}
	ColorEye        = rl.Color{R: 200, G: 120, B: 255, A: 255}
)

// ProbeColor returns the gizmo color for a probe source.
func ProbeColor(src systems.ProbeSource) rl.Color {
	switch src {
	case systems.SourceDown:
		return rl.Color{R: 80, G: 220, B: 220, A: 255}
	case systems.SourceDirection:
		return rl.Color{R: 255, G: 150, B: 50, A: 255}
	case systems.SourceEdge:
		return rl.Color{R: 220, G: 80, B: 220, A: 255}
	default:
		return rl.Gray
	}
}

// Gizmos selects which per-agent overlays are drawn.
type Gizmos struct {
	UpAxes    bool
	Frame     bool
	Probe     bool
	Velocity  bool
	CameraRig bool
}

// AgentRenderer draws agent capsules and their locomotion gizmos.
type AgentRenderer struct {
	axisLength float64
}

// NewAgentRenderer creates a new agent renderer.
func NewAgentRenderer() *AgentRenderer {
	return &AgentRenderer{axisLength: 1.2}
}

// Draw renders every agent. hidden names an agent not drawn at all, used
// for the agent the first-person camera sits in; pass false for hasHidden
// to draw everything. Must be called inside BeginMode3D.
func (r *AgentRenderer) Draw(views []sim.AgentView, g Gizmos, selected uint32, hasSelected bool, hidden uint32, hasHidden bool) {
	for i := range views {
		v := &views[i]
		if hasHidden && v.Agent.ID == hidden {
			continue
		}
		isSelected := hasSelected && v.Agent.ID == selected
		r.drawBody(v, isSelected)
		r.drawGizmos(v, g)
	}
}

func (r *AgentRenderer) drawBody(v *sim.AgentView, selected bool) {
	up := v.State.CurrentUp
	half := max(v.Capsule.Height/2-v.Capsule.Radius, 0)
	bottom := r3.Sub(v.Pose.Position, r3.Scale(half, up))
	top := r3.Add(v.Pose.Position, r3.Scale(half, up))
	radius := float32(v.Capsule.Radius)

	color := ColorBody
	if !v.State.Grounded {
		color = ColorBodyAir
	}
	rl.DrawCapsule(Vec(bottom), Vec(top), radius, 10, 6, color)
	wire := rl.DarkGray
	if selected {
		wire = ColorSelected
	}
	rl.DrawCapsuleWires(Vec(bottom), Vec(top), radius*1.01, 10, 6, wire)
}

func (r *AgentRenderer) drawGizmos(v *sim.AgentView, g Gizmos) {
	pos := v.Pose.Position
	st := &v.State
	tip := r3.Add(pos, r3.Scale(v.Capsule.Height/2, st.CurrentUp))

	if g.UpAxes {
		arrow(tip, st.CurrentUp, r.axisLength*0.5, ColorCurrentUp)
		arrow(tip, st.TargetUp, r.axisLength*0.6, ColorTargetUp)
	}

	if g.Frame {
		forward, right := systems.Frame(st.CurrentUp, st.Yaw)
		arrow(pos, forward, r.axisLength, ColorForward)
		arrow(pos, right, r.axisLength*0.6, ColorRight)
	}

	if g.Velocity {
		if speed := r3.Norm(st.Velocity); speed > 1e-3 {
			dir := r3.Scale(1/speed, st.Velocity)
			arrow(pos, dir, speed*0.25, ColorVelocity)
		}
	}

	if g.Probe {
		r.drawProbe(v)
	}

	if g.CameraRig {
		eye, rot := v.Pose.CameraWorld(v.Rig.EyeHeight)
		rl.DrawSphere(Vec(eye), 0.06, ColorEye)
		arrow(eye, geom.Forward(rot), r.axisLength*0.5, ColorEye)
		arrow(eye, v.Rig.SmoothedUp, r.axisLength*0.4, ColorSmoothedUp)
	}
}

// drawProbe marks the accepted surface normal. Down hits are drawn at the
// contact; side and edge hits are drawn at the body since only their
// distance is reported.
func (r *AgentRenderer) drawProbe(v *sim.AgentView) {
	p := v.Report.Probe
	if p.Skipped || p.Source == systems.SourceNone {
		return
	}
	color := ProbeColor(p.Source)
	contact := v.Pose.Position
	if p.Source == systems.SourceDown {
		contact = r3.Sub(contact, r3.Scale(p.Distance, v.State.CurrentUp))
		rl.DrawLine3D(Vec(v.Pose.Position), Vec(contact), Fade(color, 0.5))
	}
	rl.DrawSphere(Vec(contact), 0.05, color)
	arrow(contact, p.Normal, r.axisLength*0.4, color)
}

// Fade returns c with its alpha scaled by a in [0, 1].
func Fade(c rl.Color, a float64) rl.Color {
	c.A = uint8(float64(c.A) * geom.Clamp(a, 0, 1))
	return c
}
