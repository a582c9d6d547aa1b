package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/geom"
)

func TestNewAgentStateRecoversYaw(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
	}{
		{"zero", 0},
		{"quarter", 90},
		{"negative", -45},
		{"behind", 170},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAgentState(r3.Vec{Y: 1}, geom.AngleAxis(tt.yaw, geom.WorldUp))
			if math.Abs(s.Yaw-tt.yaw) > 1e-6 {
				t.Errorf("Yaw = %f, want %f", s.Yaw, tt.yaw)
			}
			if r3.Norm(r3.Sub(s.CurrentUp, geom.WorldUp)) > 1e-9 {
				t.Errorf("CurrentUp = %v, want world up", s.CurrentUp)
			}
			if s.CurrentUp != s.TargetUp {
				t.Errorf("TargetUp %v differs from CurrentUp %v", s.TargetUp, s.CurrentUp)
			}
		})
	}
}

func TestNewAgentStateTiltedPose(t *testing.T) {
	// Standing on a wall whose normal is -X.
	rot := geom.LookRotation(r3.Vec{Y: 1}, r3.Vec{X: -1})
	s := NewAgentState(r3.Vec{}, rot)
	if r3.Norm(r3.Sub(s.CurrentUp, r3.Vec{X: -1})) > 1e-9 {
		t.Errorf("CurrentUp = %v, want (-1,0,0)", s.CurrentUp)
	}
	if math.Abs(r3.Norm(s.TargetUp)-1) > 1e-12 {
		t.Errorf("|TargetUp| = %f, want 1", r3.Norm(s.TargetUp))
	}
}

func TestResetMatchesNew(t *testing.T) {
	rot := geom.AngleAxis(30, geom.WorldUp)
	s := NewAgentState(r3.Vec{X: 1}, rot)
	s.Velocity = r3.Vec{Y: 3}
	s.Grounded = true
	s.JumpCooldownRemaining = 0.1
	s.Reset(r3.Vec{X: 1}, rot)
	if s != NewAgentState(r3.Vec{X: 1}, rot) {
		t.Errorf("Reset state %+v differs from fresh state", s)
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		grounded bool
		cooldown float64
		want     Phase
	}{
		{true, 0, PhaseGrounded},
		{false, 0, PhaseFalling},
		{false, 0.1, PhaseRising},
	}
	for _, tt := range tests {
		s := AgentState{Grounded: tt.grounded, JumpCooldownRemaining: tt.cooldown}
		if got := s.Phase(); got != tt.want {
			t.Errorf("Phase(grounded=%v, cooldown=%v) = %v, want %v", tt.grounded, tt.cooldown, got, tt.want)
		}
	}
}

func TestFieldValueCoversDescriptors(t *testing.T) {
	s := NewAgentState(r3.Vec{}, geom.Identity())
	s.PlanarVelocity = r3.Vec{X: 3, Z: 4}
	s.Velocity = r3.Vec{Y: -2}
	s.TargetUp = r3.Vec{X: 1}
	s.JumpCooldownRemaining = 0.15

	want := map[string]float64{
		"speed":    5,
		"up_speed": -2,
		"up_error": 90,
		"cooldown": 0.15,
	}
	for _, fd := range AgentStateFieldDescriptors() {
		got, ok := s.FieldValue(fd.ID)
		if !ok {
			t.Errorf("descriptor %q has no value", fd.ID)
			continue
		}
		if w, ok := want[fd.ID]; ok && math.Abs(got-w) > 1e-9 {
			t.Errorf("%s = %f, want %f", fd.ID, got, w)
		}
	}
	if _, ok := s.FieldValue("energy"); ok {
		t.Error("unknown field reported a value")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseFalling.String() != "Falling" || Phase(9).String() != "Unknown" {
		t.Errorf("names = %q, %q", PhaseFalling.String(), Phase(9).String())
	}
	if PhaseCount() != 3 {
		t.Errorf("PhaseCount = %d, want 3", PhaseCount())
	}
}
