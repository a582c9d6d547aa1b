package game

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/camera"
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/renderer"
	"github.com/pthm-cable/wallwalk/telemetry"
	"github.com/pthm-cable/wallwalk/ui"
)

var colorBackground = rl.Color{R: 18, G: 20, B: 26, A: 255}

// Draw renders one frame.
func (g *Game) Draw() {
	start := time.Now()

	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	g.cam3d = renderer.Camera3D(g.cameraView(), FieldOfView)
	rl.BeginMode3D(g.cam3d)
	g.drawWorld()
	rl.EndMode3D()

	g.drawUI()
	rl.EndDrawing()

	g.frameTimes.Record("draw", time.Since(start))
}

// cameraView resolves the viewer camera for the followed agent, or orbits
// the room center when there are no agents.
func (g *Game) cameraView() camera.View {
	if v, ok := g.followed(); ok {
		return g.camera.Follow(v.Pose, v.Rig)
	}
	g.camera.Mode = camera.ModeOrbit
	room := g.cfg.Level.Room
	center := r3.Scale(0.5, r3.Add(room.Min.Vec(), room.Max.Vec()))
	return g.camera.Follow(components.Pose{Position: center}, components.CameraRig{})
}

// drawWorld renders the level, agents and 3D overlays.
func (g *Game) drawWorld() {
	g.level.Draw(g.sim.Collision(), g.overlays.IsEnabled(ui.OverlayGrid), g.overlays.IsEnabled(ui.OverlayWireframe))

	if g.overlays.IsEnabled(ui.OverlayTrails) {
		g.trails.Draw()
	}

	selected, hasSelected := g.inspector.Selected()
	var hidden uint32
	hide := false
	if g.camera.Mode == camera.ModeFirstPerson {
		if v, ok := g.followed(); ok {
			hidden, hide = v.Agent.ID, true
		}
	}
	g.agents.Draw(g.views, g.gizmos(), selected, hasSelected, hidden, hide)
	g.markers.Draw()
}

// drawUI renders the HUD and the left-hand panel column.
func (g *Game) drawUI() {
	g.uiRects = g.uiRects[:0]

	followed := "-"
	if v, ok := g.followed(); ok {
		followed = fmt.Sprintf("%d %s [%s]", v.Agent.ID, v.Agent.Name, v.State.Phase())
	}
	mode := "orbit"
	if g.camera.Mode == camera.ModeFirstPerson {
		mode = "first person"
	}
	g.hud.Draw(ui.HUDData{
		Title:      "Wallwalk",
		Agents:     g.sim.AgentCount(),
		Tick:       g.sim.Tick(),
		SimTime:    float64(g.sim.Tick()) * g.cfg.Sim.DT,
		Speed:      g.speed,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
		CameraMode: mode,
		Followed:   followed,
		Driving:    g.driving,
	})

	const x, column = int32(10), int32(320)
	y := int32(100)
	if g.controls.IsVisible() {
		top := y
		y = g.controls.Draw(g.overlays) + 10
		g.addRect(x, top, column, y-top)
	}
	if g.overlays.IsEnabled(ui.OverlayStatsPanel) {
		top := y
		g.statsPanel.SetPosition(x, y)
		y = g.statsPanel.Draw(g.sim.LastStats()) + 10
		g.addRect(x, top, column, y-top)
	}
	if g.overlays.IsEnabled(ui.OverlayPerfPanel) {
		g.perfPanel.SetPosition(x+6, y+6)
		g.perfPanel.Draw(g.sim.Perf().Stats())
		g.drawFrameTimes(x, y+66+14*int32(len(telemetry.Phases)))
	}
	if g.overlays.IsEnabled(ui.OverlayTuningPanel) {
		g.tuning.SetPosition(x, y)
		g.addRect(x, y, column, g.tuning.Height())
		if cfg, ok := g.tuning.Draw(); ok {
			g.retune(cfg)
		}
	}

	g.inspector.Draw(g.sim)
	g.hud.DrawControls(g.screenWidth, g.screenHeight,
		"F12 controls | Tab select | F camera | K drive | M mouse | Enter pause | N step")
}

// drawFrameTimes lists the viewer's own frame phases.
func (g *Game) drawFrameTimes(x, y int32) {
	parts := make([]string, 0, 3)
	for _, name := range g.frameTimes.SortedNames() {
		parts = append(parts, fmt.Sprintf("%s %s", name, g.frameTimes.Avg(name).Round(time.Microsecond)))
	}
	rl.DrawText("Frame: "+strings.Join(parts, "  "), x, y, 12, rl.Gray)
}

func (g *Game) addRect(x, y, w, h int32) {
	g.uiRects = append(g.uiRects, rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)})
}
