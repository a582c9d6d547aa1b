package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/systems"
	"github.com/pthm-cable/wallwalk/telemetry"
)

// record turns one agent's tick report into events, a trace row and window
// samples.
func (s *Sim) record(id uint32, state *components.AgentState, r systems.TickReport) {
	speed := r3.Norm(state.Velocity)
	source := r.Probe.Source.String()

	var events []telemetry.Event
	if r.Jumped {
		events = append(events, telemetry.NewJumpEvent(s.tick, id, speed))
	}
	if r.Landed {
		events = append(events, telemetry.NewLandEvent(s.tick, id, source, r.Probe.Normal, speed))
	}
	if r.LeftGround {
		events = append(events, telemetry.NewLeaveGroundEvent(s.tick, id, speed))
	}
	if r.SurfaceChanged {
		events = append(events, telemetry.NewSurfaceChangeEvent(s.tick, id, source, r.Probe.Normal))
	}
	if r.Probe.QueryErrors > 0 {
		events = append(events, telemetry.NewQueryErrorEvent(s.tick, id, r.Probe.QueryErrors))
	}
	if r.MoveError {
		events = append(events, telemetry.NewMoveErrorEvent(s.tick, id))
	}
	for _, e := range events {
		s.collector.RecordEvent(e)
	}
	s.events = append(s.events, events...)

	s.collector.RecordSample(state.Grounded, speed, geom.AngleBetween(state.CurrentUp, geom.WorldUp))

	if every := uint64(s.cfg.Telemetry.TraceEvery); every > 0 && s.tick%every == 0 {
		s.trace = append(s.trace, telemetry.NewTraceRow(s.tick, id, state))
	}
}

// flushTelemetry writes this step's rows and, at the end of a stats window,
// the aggregated stats, perf figures and any bookmarks.
func (s *Sim) flushTelemetry() {
	if err := s.outputManager.WriteTrace(s.trace); err != nil {
		s.logger.Error("failed to write trace", "error", err)
	}
	if err := s.outputManager.WriteEvents(s.events); err != nil {
		s.logger.Error("failed to write events", "error", err)
	}

	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, len(s.entities))
	perfStats := s.perfCollector.Stats()
	s.lastStats = stats

	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	if err := s.outputManager.WriteStats(stats); err != nil {
		s.logger.Error("failed to write stats", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
		if _, err := s.outputManager.WriteSnapshot(s.snapshot(&bm)); err != nil {
			s.logger.Error("failed to write snapshot", "error", err)
		}
	}
}
