package telemetry

import "math"

// Collector accumulates samples and events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks uint64
	dt                  float64

	windowStartTick uint64

	samples  int
	grounded int
	speeds   []float64
	maxUp    float64
	counts   map[EventType]int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := uint64(1)
	if dt > 0 {
		if n := math.Round(windowDurationSec / dt); n > 1 {
			ticks = uint64(n)
		}
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
		counts:              make(map[EventType]int),
	}
}

// RecordSample records one agent's state after a tick.
func (c *Collector) RecordSample(grounded bool, speed, upAngle float64) {
	c.samples++
	if grounded {
		c.grounded++
	}
	c.speeds = append(c.speeds, speed)
	c.maxUp = math.Max(c.maxUp, upAngle)
}

// RecordEvent counts e in the current window.
func (c *Collector) RecordEvent(e Event) {
	if e.Type == EventQueryError {
		c.counts[e.Type] += max(e.Count, 1)
		return
	}
	c.counts[e.Type]++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, agents int) WindowStats {
	mean, p50, p90 := ComputeSpeedStats(c.speeds)
	var groundedFrac float64
	if c.samples > 0 {
		groundedFrac = float64(c.grounded) / float64(c.samples)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents: agents,

		GroundedFraction: groundedFrac,
		SpeedMean:        mean,
		SpeedP50:         p50,
		SpeedP90:         p90,
		MaxUpAngle:       c.maxUp,

		Jumps:          c.counts[EventJump],
		Landings:       c.counts[EventLand],
		LeftGround:     c.counts[EventLeaveGround],
		SurfaceChanges: c.counts[EventSurfaceChange],
		QueryErrors:    c.counts[EventQueryError],
		MoveErrors:     c.counts[EventMoveError],
		Respawns:       c.counts[EventRespawn],
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.samples = 0
	c.grounded = 0
	c.speeds = c.speeds[:0]
	c.maxUp = 0
	clear(c.counts)

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
