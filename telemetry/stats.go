package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Agents int `csv:"agents"`

	// Per agent-tick samples
	GroundedFraction float64 `csv:"grounded_fraction"`
	SpeedMean        float64 `csv:"speed_mean"`
	SpeedP50         float64 `csv:"speed_p50"`
	SpeedP90         float64 `csv:"speed_p90"`
	MaxUpAngle       float64 `csv:"max_up_angle"` // degrees between CurrentUp and world up

	// Events during window
	Jumps          int `csv:"jumps"`
	Landings       int `csv:"landings"`
	LeftGround     int `csv:"left_ground"`
	SurfaceChanges int `csv:"surface_changes"`
	QueryErrors    int `csv:"query_errors"`
	MoveErrors     int `csv:"move_errors"`
	Respawns       int `csv:"respawns"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates the mean and median and 90th percentile of
// speed samples.
func ComputeSpeedStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Float64("grounded_fraction", s.GroundedFraction),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("max_up_angle", s.MaxUpAngle),
		slog.Int("jumps", s.Jumps),
		slog.Int("landings", s.Landings),
		slog.Int("surface_changes", s.SurfaceChanges),
		slog.Int("query_errors", s.QueryErrors),
	)
}

// LogStats logs the window stats at info level.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"grounded_fraction", s.GroundedFraction,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"max_up_angle", s.MaxUpAngle,
		"jumps", s.Jumps,
		"landings", s.Landings,
		"left_ground", s.LeftGround,
		"surface_changes", s.SurfaceChanges,
		"query_errors", s.QueryErrors,
		"move_errors", s.MoveErrors,
		"respawns", s.Respawns,
	)
}
