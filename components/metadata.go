package components

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/geom"
)

// FieldDescriptor describes a state field for UI display.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float32 // Minimum value (for bars)
	Max          float32 // Maximum value (for bars)
	IsCentered   bool    // True for centered bar display
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
	Group        string  // Logical grouping
}

// String returns the display name for a Phase.
func (p Phase) String() string {
	names := PhaseNames()
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// PhaseNames returns the display names for all phases.
// The order matches the Phase constants.
func PhaseNames() []string {
	return []string{"Grounded", "Rising", "Falling"}
}

// PhaseCount returns the number of phases.
func PhaseCount() int {
	return len(PhaseNames())
}

// AgentStateFieldDescriptors returns metadata for the scalar AgentState
// fields shown in the debug panel.
func AgentStateFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: 8, IsBar: true, ShowWhenZero: true, Group: "motion"},
		{ID: "up_speed", Label: "Up Speed", Format: "%.2f", Min: -10, Max: 10, IsCentered: true, ShowWhenZero: true, Group: "motion"},
		{ID: "yaw", Label: "Yaw", Format: "%.1f", Min: -180, Max: 180, IsCentered: true, Group: "look"},
		{ID: "pitch", Label: "Pitch", Format: "%.1f", Min: -90, Max: 90, IsCentered: true, ShowWhenZero: true, Group: "look"},
		{ID: "up_error", Label: "Up Error", Format: "%.1f°", Min: 0, Max: 180, IsBar: true, ShowWhenZero: true, Group: "surface"},
		{ID: "cooldown", Label: "Cooldown", Format: "%.2fs", Min: 0, Max: 0.5, IsBar: true, Group: "surface"},
		{ID: "tilt", Label: "Tilt", Format: "%.2f", Min: -3, Max: 3, IsCentered: true, Group: "look"},
	}
}

// FieldValue returns the value of the field a descriptor names.
func (s *AgentState) FieldValue(id string) (float64, bool) {
	switch id {
	case "speed":
		return r3.Norm(s.PlanarVelocity), true
	case "up_speed":
		return s.UpSpeed(), true
	case "yaw":
		return s.Yaw, true
	case "pitch":
		return s.Pitch, true
	case "up_error":
		return geom.AngleBetween(s.CurrentUp, s.TargetUp), true
	case "cooldown":
		return s.JumpCooldownRemaining, true
	case "tilt":
		return s.StrafeTilt, true
	default:
		return 0, false
	}
}
