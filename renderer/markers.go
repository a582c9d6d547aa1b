package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/telemetry"
)

// Marker is a short-lived effect at the place a locomotion event happened.
type Marker struct {
	Position r3.Vec
	Normal   r3.Vec
	Type     telemetry.EventType
	Life     int32
	MaxLife  int32
	Size     float32
}

// MarkerRenderer turns telemetry events into fading markers.
type MarkerRenderer struct {
	markers []Marker
	life    int32
}

// NewMarkerRenderer creates markers that last life frames.
func NewMarkerRenderer(life int32) *MarkerRenderer {
	return &MarkerRenderer{life: max(life, 1)}
}

// Emit adds a marker for each visual event. locate returns an agent's
// current position; events for unknown agents are dropped.
func (r *MarkerRenderer) Emit(events []telemetry.Event, locate func(id uint32) (r3.Vec, bool)) {
	for _, e := range events {
		size, ok := markerSize(e.Type)
		if !ok {
			continue
		}
		pos, ok := locate(e.AgentID)
		if !ok {
			continue
		}
		r.markers = append(r.markers, Marker{
			Position: pos,
			Normal:   e.Normal(),
			Type:     e.Type,
			Life:     r.life,
			MaxLife:  r.life,
			Size:     size,
		})
	}
}

// Update ages markers by one frame and drops expired ones.
func (r *MarkerRenderer) Update() {
	alive := r.markers[:0]
	for _, m := range r.markers {
		m.Life--
		if m.Life > 0 {
			alive = append(alive, m)
		}
	}
	r.markers = alive
}

// Markers returns the live markers.
func (r *MarkerRenderer) Markers() []Marker { return r.markers }

// Draw renders all markers. Must be called inside BeginMode3D.
func (r *MarkerRenderer) Draw() {
	for i := range r.markers {
		m := &r.markers[i]
		lifeRatio := float64(m.Life) / float64(m.MaxLife)
		color := Fade(markerColor(m.Type), lifeRatio)

		// Markers grow as they fade.
		size := m.Size * float32(2-lifeRatio)
		rl.DrawSphereWires(Vec(m.Position), size, 6, 8, color)
		if m.Type == telemetry.EventLand || m.Type == telemetry.EventSurfaceChange {
			arrow(m.Position, m.Normal, 0.5, color)
		}
	}
}

func markerSize(t telemetry.EventType) (float32, bool) {
	switch t {
	case telemetry.EventJump, telemetry.EventLand:
		return 0.25, true
	case telemetry.EventSurfaceChange:
		return 0.15, true
	case telemetry.EventRespawn, telemetry.EventMoveError:
		return 0.4, true
	default:
		return 0, false
	}
}

func markerColor(t telemetry.EventType) rl.Color {
	switch t {
	case telemetry.EventJump:
		return rl.Color{R: 255, G: 200, B: 60, A: 220}
	case telemetry.EventLand:
		return rl.Color{R: 80, G: 220, B: 120, A: 220}
	case telemetry.EventSurfaceChange:
		return rl.Color{R: 80, G: 200, B: 255, A: 200}
	case telemetry.EventRespawn:
		return rl.Color{R: 200, G: 120, B: 255, A: 220}
	default:
		return rl.Color{R: 240, G: 80, B: 80, A: 220}
	}
}
