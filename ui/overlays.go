package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayUpAxes      OverlayID = "up_axes"
	OverlayFrame       OverlayID = "frame"
	OverlayProbe       OverlayID = "probe"
	OverlayVelocity    OverlayID = "velocity"
	OverlayCameraRig   OverlayID = "camera_rig"
	OverlayTrails      OverlayID = "trails"
	OverlayGrid        OverlayID = "grid"
	OverlayWireframe   OverlayID = "wireframe"
	OverlayStatsPanel  OverlayID = "stats_panel"
	OverlayPerfPanel   OverlayID = "perf_panel"
	OverlayTuningPanel OverlayID = "tuning_panel"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "U", "P")
	Category    string      // Grouping (e.g., "gizmos", "level", "panels")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
	Default     bool        // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayUpAxes,
		Name:        "Up Axes",
		Description: "Current up, target up and smoothed camera up",
		Key:         rl.KeyU,
		KeyLabel:    "U",
		Category:    "gizmos",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFrame,
		Name:        "Movement Frame",
		Description: "Forward and right axes the move input maps to",
		Key:         rl.KeyX,
		KeyLabel:    "X",
		Category:    "gizmos",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayProbe,
		Name:        "Surface Probe",
		Description: "Accepted hit point and normal, colored by probe source",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "gizmos",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity",
		Description: "Planar velocity and the along-up component",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "gizmos",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCameraRig,
		Name:        "Camera Rig",
		Description: "Eye point and view direction of the stabilised camera",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "gizmos",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayTrails,
		Name:        "Trails",
		Description: "Recent positions of every agent",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "gizmos",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Floor Grid",
		Description: "Unit grid on the room floor",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "level",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayWireframe,
		Name:        "Wireframe",
		Description: "Draw level boxes as wires only",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "level",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayStatsPanel,
		Name:        "Stats Panel",
		Description: "Last telemetry window",
		Key:         rl.KeyF1,
		KeyLabel:    "F1",
		Category:    "panels",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerfPanel,
		Name:        "Perf Panel",
		Description: "Per-phase tick timing",
		Key:         rl.KeyF2,
		KeyLabel:    "F2",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayTuningPanel},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayTuningPanel,
		Name:        "Tuning Panel",
		Description: "Sliders for the controller tunables",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "panels",
		Exclusive:   []OverlayID{OverlayPerfPanel},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
