// Package game runs the locomotion simulation either headless or inside the
// raylib debug viewer.
package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/camera"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/input"
	"github.com/pthm-cable/wallwalk/inspector"
	"github.com/pthm-cable/wallwalk/renderer"
	"github.com/pthm-cable/wallwalk/sim"
	"github.com/pthm-cable/wallwalk/telemetry"
	"github.com/pthm-cable/wallwalk/ui"
)

// Viewer constants
const (
	MaxSpeed      = 10   // steps per frame
	TrailLength   = 240  // points per agent
	TrailEvery    = 3    // ticks between trail samples
	TrailTeleport = 2.0  // a larger jump between samples restarts a trail
	MarkerLife    = 45   // frames
	FieldOfView   = 60.0 // degrees
)

// Options configures a Game.
type Options struct {
	Logger         *slog.Logger
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game owns the simulation and, in graphical mode, the viewer state.
type Game struct {
	sim    *sim.Sim
	cfg    *config.Config
	logger *slog.Logger

	// Rendering
	camera    *camera.Camera
	cam3d     rl.Camera3D
	level     *renderer.LevelRenderer
	agents    *renderer.AgentRenderer
	trails    *renderer.TrailRenderer
	markers   *renderer.MarkerRenderer
	inspector *inspector.Inspector

	// UI
	hud        *ui.HUD
	overlays   *ui.OverlayRegistry
	controls   *ui.ControlsPanel
	statsPanel *ui.StatsPanel
	perfPanel  *ui.PerfPanel
	tuning     *ui.TuningPanel
	uiRects    []rl.Rectangle // panels drawn last frame, for click routing
	frameTimes *PerfStats

	views []sim.AgentView

	// State
	headless      bool
	paused        bool
	stepOnce      bool
	speed         int
	driving       bool
	drivenID      uint32
	prevInput     input.Source
	mouseCaptured bool

	screenWidth, screenHeight int32
}

// NewGameWithOptions builds the simulation from cfg. In graphical mode the
// raylib window must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s, err := sim.New(cfg, sim.Options{
		Logger:    logger,
		OutputDir: opts.OutputDir,
		LogStats:  opts.LogStats,
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	g := &Game{
		sim:        s,
		cfg:        cfg,
		logger:     logger,
		headless:   opts.Headless,
		speed:      max(opts.StepsPerUpdate, 1),
		frameTimes: NewPerfStats(),
	}
	g.views = s.Snapshot()
	if g.headless {
		return g, nil
	}

	g.screenWidth = int32(rl.GetScreenWidth())
	g.screenHeight = int32(rl.GetScreenHeight())
	g.speed = min(g.speed, MaxSpeed)

	g.camera = camera.New()
	g.level = renderer.NewLevelRenderer(cfg.Level.Room)
	g.agents = renderer.NewAgentRenderer()
	g.trails = renderer.NewTrailRenderer(TrailLength, TrailEvery)
	g.markers = renderer.NewMarkerRenderer(MarkerLife)
	g.inspector = inspector.NewInspector(g.screenWidth, g.screenHeight)

	g.hud = ui.NewHUD()
	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.NewControlsPanel(10, 100, 260)
	g.statsPanel = ui.NewStatsPanel(10, 100)
	g.perfPanel = ui.NewPerfPanel(16, 100)
	g.tuning = ui.NewTuningPanel(10, 100, 320, cfg)
	g.cam3d = renderer.Camera3D(g.cameraView(), FieldOfView)

	return g, nil
}

// Update runs one frame of input handling and simulation in graphical
// mode.
func (g *Game) Update() {
	start := time.Now()
	g.sim.Perf().RecordFrame()
	g.handleInput()
	g.frameTimes.Record("input", time.Since(start))

	start = time.Now()
	steps := g.speed
	if g.paused {
		steps = 0
		if g.stepOnce {
			steps = 1
			g.stepOnce = false
		}
	}
	for range steps {
		g.step()
	}
	g.markers.Update()
	g.frameTimes.Record("simulate", time.Since(start))
}

// UpdateHeadless advances the simulation without any rendering.
func (g *Game) UpdateHeadless() {
	for range g.speed {
		g.sim.Step()
	}
}

// step advances one tick and feeds the viewer's history renderers.
func (g *Game) step() {
	g.sim.Step()
	g.views = g.sim.Snapshot()
	g.trails.Record(g.sim.Tick(), g.views, TrailTeleport)
	g.markers.Emit(g.sim.Events(), g.locate)
}

// locate returns an agent's position from the latest views.
func (g *Game) locate(id uint32) (r3.Vec, bool) {
	for i := range g.views {
		if g.views[i].Agent.ID == id {
			return g.views[i].Pose.Position, true
		}
	}
	return r3.Vec{}, false
}

// followed returns the agent the camera tracks: the inspector selection,
// or the first agent.
func (g *Game) followed() (sim.AgentView, bool) {
	if g.inspector != nil {
		if id, ok := g.inspector.Selected(); ok {
			for _, v := range g.views {
				if v.Agent.ID == id {
					return v, true
				}
			}
		}
	}
	if len(g.views) == 0 {
		return sim.AgentView{}, false
	}
	return g.views[0], true
}

// retune applies a config from the tuning panel.
func (g *Game) retune(cfg *config.Config) {
	if err := g.sim.Retune(cfg); err != nil {
		g.logger.Error("retune failed", "error", err)
		return
	}
	g.cfg = cfg
}

// respawnFollowed puts the followed agent back at its spawn pose.
func (g *Game) respawnFollowed() {
	v, ok := g.followed()
	if !ok {
		return
	}
	if err := g.sim.Respawn(v.Agent.ID); err != nil {
		g.logger.Error("respawn failed", "id", v.Agent.ID, "error", err)
		return
	}
	g.views = g.sim.Snapshot()
	g.markers.Emit([]telemetry.Event{telemetry.NewRespawnEvent(g.sim.Tick(), v.Agent.ID)}, g.locate)
}

// Restore puts agents back to a saved state and drops viewer history.
func (g *Game) Restore(snap *telemetry.Snapshot) error {
	if err := g.sim.Restore(snap); err != nil {
		return err
	}
	g.views = g.sim.Snapshot()
	if g.trails != nil {
		g.trails.Clear()
	}
	return nil
}

// SaveSnapshot writes the current state to the output directory.
func (g *Game) SaveSnapshot() {
	path, err := g.sim.SaveSnapshot()
	switch {
	case err != nil:
		g.logger.Error("snapshot failed", "error", err)
	case path == "":
		g.logger.Warn("snapshot skipped, no output directory")
	default:
		g.logger.Info("snapshot saved", "path", path, "tick", g.sim.Tick())
	}
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Sim { return g.sim }

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 { return g.sim.Tick() }

// Unload closes telemetry output.
func (g *Game) Unload() {
	if err := g.sim.Close(); err != nil {
		g.logger.Error("closing simulation", "error", err)
	}
}
