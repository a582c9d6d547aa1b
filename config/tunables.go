package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tunable is a numeric controller parameter with the range the tuning
// panel and the optimizer may move it in.
type Tunable struct {
	Path   string  // YAML path, section.key
	Label  string  // display name
	Min    float64 // lower bound
	Max    float64 // upper bound
	Format string  // printf format for display
	Field  func(*Config) *float64
}

// Get returns the tunable's value in cfg.
func (t Tunable) Get(cfg *Config) float64 { return *t.Field(cfg) }

// Set stores v in cfg, clamped to the tunable's range.
func (t Tunable) Set(cfg *Config, v float64) {
	*t.Field(cfg) = min(max(v, t.Min), t.Max)
}

// Tunables returns the controller parameters exposed for live tuning, in
// display order.
func Tunables() []Tunable {
	return []Tunable{
		{Path: "surface.rotation_speed", Label: "Rotation Speed", Min: 1, Max: 30, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Surface.RotationSpeed }},
		{Path: "surface.stick_force", Label: "Stick Force", Min: 0, Max: 10, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Surface.StickForce }},
		{Path: "surface.sphere_blend", Label: "Sphere Blend", Min: 0, Max: 1, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Surface.SphereBlend }},
		{Path: "surface.ground_check_distance", Label: "Ground Check", Min: 0.05, Max: 1, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Surface.GroundCheckDistance }},
		{Path: "surface.surface_check_distance", Label: "Surface Check", Min: 0.2, Max: 3, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Surface.SurfaceCheckDistance }},
		{Path: "surface.edge_probe_distance", Label: "Edge Probe", Min: 0.2, Max: 3, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Surface.EdgeProbeDistance }},
		{Path: "surface.min_wrap_angle", Label: "Min Wrap Angle", Min: 0, Max: 45, Format: "%.0f°",
			Field: func(c *Config) *float64 { return &c.Surface.MinWrapAngle }},
		{Path: "surface.max_wrap_angle", Label: "Max Wrap Angle", Min: 90, Max: 180, Format: "%.0f°",
			Field: func(c *Config) *float64 { return &c.Surface.MaxWrapAngle }},
		{Path: "movement.move_speed", Label: "Move Speed", Min: 0.5, Max: 12, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Movement.MoveSpeed }},
		{Path: "movement.responsiveness", Label: "Responsiveness", Min: 1, Max: 40, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Movement.Responsiveness }},
		{Path: "movement.stop_damping", Label: "Stop Damping", Min: 0, Max: 30, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Movement.StopDamping }},
		{Path: "jump.height", Label: "Jump Height", Min: 0, Max: 4, Format: "%.2f",
			Field: func(c *Config) *float64 { return &c.Jump.Height }},
		{Path: "jump.air_gravity", Label: "Air Gravity", Min: 0, Max: 30, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Jump.AirGravity }},
		{Path: "camera.transition_speed", Label: "Camera Transition", Min: 0.5, Max: 30, Format: "%.1f",
			Field: func(c *Config) *float64 { return &c.Camera.TransitionSpeed }},
	}
}

// LookupTunable returns the tunable with the given path.
func LookupTunable(path string) (Tunable, bool) {
	for _, t := range Tunables() {
		if t.Path == path {
			return t, true
		}
	}
	return Tunable{}, false
}

// TunablesYAML renders the given tunables' current values as a YAML
// fragment that can be pasted into a config file. Sections and keys are
// sorted.
func (c *Config) TunablesYAML(tunables []Tunable) ([]byte, error) {
	doc := make(map[string]map[string]float64)
	for _, t := range tunables {
		section, key, ok := strings.Cut(t.Path, ".")
		if !ok {
			return nil, fmt.Errorf("tunable path %q has no section", t.Path)
		}
		if doc[section] == nil {
			doc[section] = make(map[string]float64)
		}
		doc[section][key] = t.Get(c)
	}
	return yaml.Marshal(doc)
}
