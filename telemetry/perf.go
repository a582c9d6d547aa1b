package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the locomotion tick, in execution order, followed by the
// host's own bookkeeping.
const (
	PhaseProbe       = "probe"
	PhaseOrientation = "orientation"
	PhaseLook        = "look"
	PhaseCamera      = "camera"
	PhaseMovement    = "movement"
	PhaseJump        = "jump"
	PhaseCommit      = "commit"
	PhaseTelemetry   = "telemetry"
)

// Phases lists every phase name in tick order.
var Phases = []string{
	PhaseProbe, PhaseOrientation, PhaseLook, PhaseCamera,
	PhaseMovement, PhaseJump, PhaseCommit, PhaseTelemetry,
}

const phaseCount = 8

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

// tickSample is the timing of one host step: every agent's locomotion tick
// plus telemetry, with phase time summed across agents.
type tickSample struct {
	total  time.Duration
	agents int
	phases [phaseCount]time.Duration
}

// PerfCollector times locomotion phases over a rolling window of steps.
// Phase names outside Phases are not tracked; the time they cover still
// counts toward the step total.
type PerfCollector struct {
	now func() time.Time

	window []tickSample
	next   int
	filled int

	current    tickSample
	stepStart  time.Time
	phaseStart time.Time
	phase      int // index into Phases, -1 when none is running

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector returns a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:    time.Now,
		window: make([]tickSample, windowSize),
		phase:  -1,
	}
}

// StartTick begins timing a host step.
func (p *PerfCollector) StartTick() {
	p.current = tickSample{}
	p.stepStart = p.now()
	p.phase = -1
}

// StartPhase closes the running phase and opens name. The controller calls
// it once per phase per agent, so agents add up within a step.
func (p *PerfCollector) StartPhase(name string) {
	now := p.now()
	p.closePhase(now)
	if i, ok := phaseIndex[name]; ok {
		p.phase = i
		p.phaseStart = now
		if i == 0 {
			p.current.agents++
		}
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndTick closes the step and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.current.total = now.Sub(p.stepStart)
	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

// RecordFrame marks a rendered frame in the viewer.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	AgentTick       time.Duration // average locomotion cost of one agent

	PhaseAvg map[string]time.Duration // per step, summed over agents
	PhasePct map[string]float64       // share of the average step
	Slowest  string                   // phase with the largest share

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, phaseCount),
		PhasePct:      make(map[string]float64, phaseCount),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total, locomotion time.Duration
	var sums [phaseCount]time.Duration
	agents := 0
	for i, sample := range p.window[:p.filled] {
		total += sample.total
		agents += sample.agents
		if i == 0 || sample.total < s.MinTickDuration {
			s.MinTickDuration = sample.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, sample.total)
		for j, d := range sample.phases {
			sums[j] += d
			if Phases[j] != PhaseTelemetry {
				locomotion += d
			}
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	if agents > 0 {
		s.AgentTick = locomotion / time.Duration(agents)
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	var slowest time.Duration
	for j, sum := range sums {
		if sum == 0 {
			continue
		}
		name := Phases[j]
		s.PhaseAvg[name] = sum / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(s.PhaseAvg[name]) / float64(s.AvgTickDuration) * 100
		}
		if sum > slowest {
			slowest, s.Slowest = sum, name
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("agent_tick_ns", s.AgentTick.Nanoseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.String("slowest", s.Slowest),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range Phases {
		if pct, ok := s.PhasePct[name]; ok {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("perf", "perf", s)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      uint64  `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	AgentTickNS    int64   `csv:"agent_tick_ns"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	Slowest        string  `csv:"slowest"`
	ProbePct       float64 `csv:"probe_pct"`
	OrientationPct float64 `csv:"orientation_pct"`
	LookPct        float64 `csv:"look_pct"`
	CameraPct      float64 `csv:"camera_pct"`
	MovementPct    float64 `csv:"movement_pct"`
	JumpPct        float64 `csv:"jump_pct"`
	CommitPct      float64 `csv:"commit_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		AgentTickNS:    s.AgentTick.Nanoseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		Slowest:        s.Slowest,
		ProbePct:       s.PhasePct[PhaseProbe],
		OrientationPct: s.PhasePct[PhaseOrientation],
		LookPct:        s.PhasePct[PhaseLook],
		CameraPct:      s.PhasePct[PhaseCamera],
		MovementPct:    s.PhasePct[PhaseMovement],
		JumpPct:        s.PhasePct[PhaseJump],
		CommitPct:      s.PhasePct[PhaseCommit],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
