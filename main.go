package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/game"
	"github.com/pthm-cable/wallwalk/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window and perf stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", 0, "Seed for wander inputs (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	snapshotPath := flag.String("snapshot", "", "Restore agent state from a snapshot file before running")
	finalSnapshot := flag.Bool("final-snapshot", false, "Save a snapshot when a headless run ends")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger, err := game.NewLogger(cfg.Logging, os.Stdout)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// CLI overrides
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if err := cfg.Recompute(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Logger:         logger,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *snapshotPath, *maxTicks, *finalSnapshot))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wallwalk")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape deselects in the inspector

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()
	if err := restore(g, *snapshotPath); err != nil {
		logger.Error("failed to restore snapshot", "error", err)
		return
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
	if *logStats {
		g.LogFrameStats()
	}
}

// runHeadless steps the simulation until max ticks and returns the exit
// code.
func runHeadless(cfg *config.Config, opts game.Options, snapshotPath string, maxTicks int, finalSnapshot bool) int {
	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()
	if err := restore(g, snapshotPath); err != nil {
		slog.Error("failed to restore snapshot", "error", err)
		return 1
	}

	if maxTicks <= 0 {
		slog.Warn("headless run without -max-ticks runs until interrupted")
	}
	slog.Info("starting headless simulation",
		"seed", cfg.Sim.Seed,
		"agents", g.Sim().AgentCount(),
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	start := time.Now()
	for maxTicks <= 0 || int(g.Tick()) < maxTicks {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick(), "elapsed", time.Since(start).Round(time.Millisecond))

	if finalSnapshot {
		g.SaveSnapshot()
	}
	return 0
}

// restore loads a snapshot into the game when a path is given.
func restore(g *game.Game, path string) error {
	if path == "" {
		return nil
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := g.Restore(snap); err != nil {
		return err
	}
	slog.Info("snapshot restored", "path", path, "tick", snap.Tick)
	return nil
}
