// Package sim hosts locomotion agents in an ark ECS world against the
// analytic collision level and drives them one fixed tick at a time.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/collision"
	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/input"
	"github.com/pthm-cable/wallwalk/systems"
	"github.com/pthm-cable/wallwalk/telemetry"
)

// ErrUnknownAgent is returned for agent IDs that were never spawned.
var ErrUnknownAgent = errors.New("unknown agent")

// escapeMargin is how far outside the room an agent may drift before it is
// respawned.
const escapeMargin = 1.0

// Options configures a Sim.
type Options struct {
	Logger    *slog.Logger
	OutputDir string // empty disables CSV output
	LogStats  bool   // log window and perf stats at info level
}

// Sim holds the complete simulation state.
type Sim struct {
	cfg    *config.Config
	logger *slog.Logger

	world *ecs.World
	// Entity mapper and filter over every agent component
	agentMapper *ecs.Map5[
		components.Agent,
		components.AgentState,
		components.CameraRig,
		components.Capsule,
		components.Pose,
	]
	agentFilter *ecs.Filter5[
		components.Agent,
		components.AgentState,
		components.CameraRig,
		components.Capsule,
		components.Pose,
	]
	stateMap *ecs.Map1[components.AgentState]

	collision  *collision.World
	controller *systems.Controller

	// Per-agent data that does not live in components
	entities []ecs.Entity // spawn order
	byID     map[uint32]ecs.Entity
	inputs   map[uint32]input.Source
	reports  map[uint32]systems.TickReport

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	events           []telemetry.Event
	trace            []telemetry.TraceRow
	lastStats        telemetry.WindowStats
	logStats         bool

	tick   uint64
	nextID uint32
}

// New builds the collision level and spawns every agent listed in cfg.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level, err := collision.LoadLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("loading level: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s := &Sim{
		cfg:    cfg,
		logger: logger,
		world:  world,
		agentMapper: ecs.NewMap5[
			components.Agent,
			components.AgentState,
			components.CameraRig,
			components.Capsule,
			components.Pose,
		](world),
		agentFilter: ecs.NewFilter5[
			components.Agent,
			components.AgentState,
			components.CameraRig,
			components.Capsule,
			components.Pose,
		](world),
		stateMap:   ecs.NewMap1[components.AgentState](world),
		collision:  level,
		controller: systems.NewController(cfg, systems.Options{Logger: logger, Perf: perf}),
		byID:       make(map[uint32]ecs.Entity),
		inputs:     make(map[uint32]input.Source),
		reports:    make(map[uint32]systems.TickReport),

		perfCollector:    perf,
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Sim.DT),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    output,
		logStats:         opts.LogStats,
		nextID:           1,
	}

	for i, ac := range cfg.Agents {
		seed := ac.Seed
		if seed == 0 {
			seed = cfg.Sim.Seed + int64(i)
		}
		src, err := input.FromSpec(ac.Input, input.Options{Seed: seed})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("agent %d (%s): %w", i, ac.Name, err)
		}
		rot := geom.AngleAxis(ac.Yaw, geom.WorldUp)
		if _, err := s.Spawn(ac.Name, ac.Position.Vec(), rot, src); err != nil {
			s.Close()
			return nil, fmt.Errorf("agent %d (%s): %w", i, ac.Name, err)
		}
	}

	return s, nil
}

// Spawn adds an agent at the given transform and returns its ID. A nil
// source drives the agent with neutral input.
func (s *Sim) Spawn(name string, position r3.Vec, rotation quat.Number, src input.Source) (uint32, error) {
	id := s.nextID
	handle := components.AgentHandle(id)
	if err := s.collision.AddBody(handle, position, s.cfg.Surface.CapsuleRadius); err != nil {
		return 0, err
	}
	s.nextID++

	agent := components.Agent{
		ID:            id,
		Name:          name,
		SpawnPosition: position,
		SpawnRotation: rotation,
	}
	state, rig := s.controller.Spawn(position, rotation)
	capsule := components.CapsuleFromConfig(handle, s.cfg.Surface)
	var pose components.Pose
	pose.SetPose(state.Position, state.Rotation, rig.LocalRotation)

	entity := s.agentMapper.NewEntity(&agent, &state, &rig, &capsule, &pose)
	s.entities = append(s.entities, entity)
	s.byID[id] = entity
	if src == nil {
		src = input.Neutral{}
	}
	s.inputs[id] = src

	s.logger.Debug("agent spawned", "id", id, "name", name, "position", position)
	return id, nil
}

// SetInput replaces the input source driving an agent.
func (s *Sim) SetInput(id uint32, src input.Source) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	if src == nil {
		src = input.Neutral{}
	}
	s.inputs[id] = src
	return nil
}

// Input returns the source currently driving an agent.
func (s *Sim) Input(id uint32) (input.Source, bool) {
	src, ok := s.inputs[id]
	return src, ok
}

// Step advances every agent by one fixed tick.
func (s *Sim) Step() {
	s.tick++
	s.perfCollector.StartTick()
	for _, src := range s.inputs {
		src.Begin(s.tick)
	}

	s.events = s.events[:0]
	s.trace = s.trace[:0]
	var escaped []uint32

	query := s.agentFilter.Query()
	for query.Next() {
		agent, state, rig, capsule, pose := query.Get()
		report := s.controller.Tick(systems.Agent{
			State:   state,
			Rig:     rig,
			Capsule: *capsule,
			Input:   s.inputs[agent.ID],
			Pose:    pose,
		}, s.collision, s.cfg.Sim.DT)
		s.reports[agent.ID] = report

		s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
		s.record(agent.ID, state, report)
		if s.escaped(state.Position) {
			escaped = append(escaped, agent.ID)
		}
	}

	// Structural and bulk updates wait until the query is closed.
	for _, id := range escaped {
		s.logger.Warn("agent left the level, respawning", "id", id)
		if err := s.Respawn(id); err != nil {
			s.logger.Error("respawn failed", "id", id, "error", err)
		}
	}
	s.flushTelemetry()
	s.perfCollector.EndTick()
}

// Respawn reinitialises an agent at its spawn transform.
func (s *Sim) Respawn(id uint32) error {
	entity, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAgent, id)
	}
	agent, state, rig, capsule, pose := s.agentMapper.Get(entity)
	if err := s.collision.Teleport(capsule.Handle, agent.SpawnPosition); err != nil {
		return fmt.Errorf("respawn %d: %w", id, err)
	}
	s.controller.Respawn(systems.Agent{
		State:   state,
		Rig:     rig,
		Capsule: *capsule,
		Pose:    pose,
	}, agent.SpawnPosition, agent.SpawnRotation)
	agent.Respawns++
	delete(s.reports, id)

	e := telemetry.NewRespawnEvent(s.tick, id)
	s.events = append(s.events, e)
	s.collector.RecordEvent(e)
	return nil
}

// Restore puts every agent in the snapshot back to its recorded state.
// Agents missing from the snapshot are left alone.
func (s *Sim) Restore(snap *telemetry.Snapshot) error {
	for _, as := range snap.Agents {
		entity, ok := s.byID[as.ID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownAgent, as.ID)
		}
		agent, state, rig, capsule, pose := s.agentMapper.Get(entity)
		restored := as.State()
		if err := s.collision.Teleport(capsule.Handle, restored.Position); err != nil {
			return fmt.Errorf("restore %d: %w", as.ID, err)
		}
		*state = restored
		*rig = components.NewCameraRig(state.CurrentUp, s.cfg.Camera.EyeHeight)
		agent.Respawns = as.Respawns
		pose.SetPose(state.Position, state.Rotation, rig.LocalRotation)
		delete(s.reports, as.ID)
	}
	s.tick = snap.Tick
	return nil
}

// Retune validates cfg and rebuilds the controller from it. Level geometry,
// telemetry windows and agent state are kept. Capsules take the new
// dimensions but collision bodies keep the radius they were spawned with.
func (s *Sim) Retune(cfg *config.Config) error {
	if err := cfg.Recompute(); err != nil {
		return fmt.Errorf("retune: %w", err)
	}
	s.controller = systems.NewController(cfg, systems.Options{Logger: s.logger, Perf: s.perfCollector})

	query := s.agentFilter.Query()
	for query.Next() {
		_, _, rig, capsule, _ := query.Get()
		*capsule = components.CapsuleFromConfig(capsule.Handle, cfg.Surface)
		rig.EyeHeight = cfg.Camera.EyeHeight
	}
	s.cfg = cfg
	s.logger.Info("controller retuned",
		"rotation_speed", cfg.Surface.RotationSpeed,
		"stick_force", cfg.Surface.StickForce,
		"sphere_blend", cfg.Surface.SphereBlend,
	)
	return nil
}

func (s *Sim) escaped(p r3.Vec) bool {
	lo, hi := s.cfg.Level.Room.Min.Vec(), s.cfg.Level.Room.Max.Vec()
	return !geom.Finite(p) ||
		p.X < lo.X-escapeMargin || p.Y < lo.Y-escapeMargin || p.Z < lo.Z-escapeMargin ||
		p.X > hi.X+escapeMargin || p.Y > hi.Y+escapeMargin || p.Z > hi.Z+escapeMargin
}

// Tick returns the number of completed steps.
func (s *Sim) Tick() uint64 { return s.tick }

// Config returns the configuration the simulation was built with.
func (s *Sim) Config() *config.Config { return s.cfg }

// Collision returns the collision world, for drawing.
func (s *Sim) Collision() *collision.World { return s.collision }

// Perf returns the tick timing collector.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perfCollector }

// Events returns the events recorded during the last step.
func (s *Sim) Events() []telemetry.Event { return s.events }

// LastStats returns the most recently flushed window.
func (s *Sim) LastStats() telemetry.WindowStats { return s.lastStats }

// AgentCount returns the number of spawned agents.
func (s *Sim) AgentCount() int { return len(s.entities) }

// Close flushes and closes telemetry output.
func (s *Sim) Close() error {
	return s.outputManager.Close()
}
