package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wallwalk/renderer"
	"github.com/pthm-cable/wallwalk/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			on := g.overlays.Toggle(desc.ID)
			if desc.ID == ui.OverlayTuningPanel && on {
				// Start editing from what is running now.
				g.tuning.Reset(g.cfg)
			}
			if desc.ID == ui.OverlayTrails && !on {
				g.trails.Clear()
			}
		}
	}
}

// gizmos maps enabled overlays to agent gizmo flags.
func gizmos(reg *ui.OverlayRegistry) renderer.Gizmos {
	return renderer.Gizmos{
		UpAxes:    reg.IsEnabled(ui.OverlayUpAxes),
		Frame:     reg.IsEnabled(ui.OverlayFrame),
		Probe:     reg.IsEnabled(ui.OverlayProbe),
		Velocity:  reg.IsEnabled(ui.OverlayVelocity),
		CameraRig: reg.IsEnabled(ui.OverlayCameraRig),
	}
}

func (g *Game) gizmos() renderer.Gizmos { return gizmos(g.overlays) }
