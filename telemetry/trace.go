package telemetry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
)

// TraceRow is one sampled agent state.
type TraceRow struct {
	Tick     uint64  `csv:"tick"`
	AgentID  uint32  `csv:"agent"`
	Phase    string  `csv:"phase"`
	Grounded bool    `csv:"grounded"`
	PosX     float64 `csv:"pos_x"`
	PosY     float64 `csv:"pos_y"`
	PosZ     float64 `csv:"pos_z"`
	UpX      float64 `csv:"up_x"`
	UpY      float64 `csv:"up_y"`
	UpZ      float64 `csv:"up_z"`
	TargetX  float64 `csv:"target_x"`
	TargetY  float64 `csv:"target_y"`
	TargetZ  float64 `csv:"target_z"`
	Speed    float64 `csv:"speed"`
	Planar   float64 `csv:"planar_speed"`
	Yaw      float64 `csv:"yaw"`
	Pitch    float64 `csv:"pitch"`
	Cooldown float64 `csv:"cooldown"`
}

// NewTraceRow samples s.
func NewTraceRow(tick uint64, agentID uint32, s *components.AgentState) TraceRow {
	return TraceRow{
		Tick:     tick,
		AgentID:  agentID,
		Phase:    s.Phase().String(),
		Grounded: s.Grounded,
		PosX:     s.Position.X,
		PosY:     s.Position.Y,
		PosZ:     s.Position.Z,
		UpX:      s.CurrentUp.X,
		UpY:      s.CurrentUp.Y,
		UpZ:      s.CurrentUp.Z,
		TargetX:  s.TargetUp.X,
		TargetY:  s.TargetUp.Y,
		TargetZ:  s.TargetUp.Z,
		Speed:    r3.Norm(s.Velocity),
		Planar:   r3.Norm(s.PlanarVelocity),
		Yaw:      s.Yaw,
		Pitch:    s.Pitch,
		Cooldown: s.JumpCooldownRemaining,
	}
}
