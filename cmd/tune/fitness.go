package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/input"
	"github.com/pthm-cable/wallwalk/sim"
	"github.com/pthm-cable/wallwalk/telemetry"
)

// Corner scenario geometry: a closed room, agent on the floor at the
// origin walking toward the +X wall.
var (
	roomMin    = config.Vec3{-6, 0, -6}
	roomMax    = config.Vec3{6, 12, 6}
	wallNormal = r3.Vec{X: -1}
)

// Score weights
const (
	reachTolerance  = 1.0   // degrees between current up and the wall normal
	ungroundedCost  = 2.0   // per ungrounded tick
	overshootCost   = 1.0   // per degree the up axis drifts after reaching
	extraChangeCost = 10.0  // per surface change beyond the first
	failureCost     = 200.0 // per respawn or rejected move
	missCost        = 100.0 // per 90 degrees still to turn when time runs out
	settleTicks     = 60    // ticks watched for overshoot after reaching
)

// ScenarioResult summarises one scripted corner run.
type ScenarioResult struct {
	Ticks          int
	ReachTick      int     // first tick within tolerance of the wall, -1 if never
	FinalAngle     float64 // degrees between final up and the wall normal
	Ungrounded     int
	Overshoot      float64 // worst drift after reaching, degrees
	SurfaceChanges int
	Failures       int
}

// Score returns the scenario cost; lower is better.
func (r ScenarioResult) Score() float64 {
	score := float64(r.Ungrounded)*ungroundedCost +
		r.Overshoot*overshootCost +
		float64(max(r.SurfaceChanges-1, 0))*extraChangeCost +
		float64(r.Failures)*failureCost
	if r.ReachTick < 0 {
		return score + float64(r.Ticks) + missCost*r.FinalAngle/90
	}
	return score + float64(r.ReachTick)
}

// FitnessEvaluator runs headless corner scenarios and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	approaches []float64 // yaw offsets from straight at the wall, degrees
	baseConfig *config.Config

	mu          sync.Mutex
	lastResults []ScenarioResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, approaches []float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		approaches: approaches,
		baseConfig: baseCfg,
	}
}

// LastResults returns the per-approach results of the most recent Evaluate
// call.
func (fe *FitnessEvaluator) LastResults() []ScenarioResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResults
}

// Evaluate computes fitness for raw parameter values (lower = better). An
// invalid parameter set scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.scenarioConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return math.Inf(1)
	}

	results := make([]ScenarioResult, len(fe.approaches))
	errs := make([]error, len(fe.approaches))
	var wg sync.WaitGroup
	for i, yaw := range fe.approaches {
		wg.Add(1)
		go func(idx int, offset float64) {
			defer wg.Done()
			results[idx], errs[idx] = RunCorner(cfg, offset, fe.maxTicks)
		}(i, yaw)
	}
	wg.Wait()

	var total float64
	for i, r := range results {
		if errs[i] != nil {
			return math.Inf(1)
		}
		total += r.Score()
	}

	fe.mu.Lock()
	fe.lastResults = results
	fe.mu.Unlock()

	return total / float64(len(results))
}

// scenarioConfig copies the base config with the corner level and no
// configured agents.
func (fe *FitnessEvaluator) scenarioConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Level = config.LevelConfig{Room: config.RoomConfig{Min: roomMin, Max: roomMax}}
	cfg.Agents = nil
	cfg.Telemetry.TraceEvery = 0
	return &cfg
}

// RunCorner walks one agent from the floor into the +X wall, approaching
// yawOffset degrees off perpendicular, and measures the transition until
// it has settled on the wall or maxTicks pass. cfg is read only; each run
// builds its own simulation.
func RunCorner(cfg *config.Config, yawOffset float64, maxTicks int) (ScenarioResult, error) {
	s, err := sim.New(cfg, sim.Options{Logger: slog.New(slog.DiscardHandler)})
	if err != nil {
		return ScenarioResult{}, err
	}
	defer s.Close()

	start := r3.Vec{Y: cfg.Surface.CapsuleRadius}
	walk := input.NewScript([]input.Frame{{Tick: 1, MoveY: 1}})
	id, err := s.Spawn("corner", start, geom.AngleAxis(90+yawOffset, geom.WorldUp), walk)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("spawning corner agent: %w", err)
	}

	res := ScenarioResult{Ticks: maxTicks, ReachTick: -1}
	for tick := 1; tick <= maxTicks; tick++ {
		s.Step()
		for _, e := range s.Events() {
			switch e.Type {
			case telemetry.EventSurfaceChange:
				res.SurfaceChanges++
			case telemetry.EventRespawn, telemetry.EventMoveError:
				res.Failures++
			}
		}

		st := s.State(id)
		if !st.Grounded {
			res.Ungrounded++
		}
		angle := geom.AngleBetween(st.CurrentUp, wallNormal)
		res.FinalAngle = angle
		if res.ReachTick < 0 {
			if angle <= reachTolerance {
				res.ReachTick = tick
			}
			continue
		}
		res.Overshoot = max(res.Overshoot, angle-reachTolerance)
		if tick-res.ReachTick >= settleTicks {
			break
		}
	}
	return res, nil
}
