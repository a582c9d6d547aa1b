package ui

import (
	"fmt"

	"github.com/pthm-cable/wallwalk/telemetry"
)

func windowStats(data any) telemetry.WindowStats {
	switch s := data.(type) {
	case telemetry.WindowStats:
		return s
	case *telemetry.WindowStats:
		if s != nil {
			return *s
		}
	}
	return telemetry.WindowStats{}
}

func statsCount(get func(telemetry.WindowStats) int) func(any) float32 {
	return func(d any) float32 { return float32(get(windowStats(d))) }
}

// StatsPanelDescriptor lays out the most recent telemetry window.
func StatsPanelDescriptor() PanelDescriptor {
	return PanelDescriptor{
		ID:    "stats",
		Title: "Window Stats",
		Width: 300,
		Sections: []SectionDescriptor{
			{
				ID:    "window",
				Title: "Window",
				Fields: []FieldDescriptor{
					{ID: "ticks", Label: "Ticks", Widget: WidgetText, TextGetter: func(d any) string {
						s := windowStats(d)
						return fmt.Sprintf("%d-%d", s.WindowStartTick, s.WindowEndTick)
					}},
					{ID: "time", Label: "Sim Time", Widget: WidgetText, Format: "%.1fs",
						Getter: func(d any) float32 { return float32(windowStats(d).SimTimeSec) }},
					{ID: "agents", Label: "Agents", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.Agents })},
				},
			},
			{
				ID:    "motion",
				Title: "Motion",
				Fields: []FieldDescriptor{
					{ID: "grounded", Label: "Grounded", Widget: WidgetBar, Range: DefaultRange(),
						Getter: func(d any) float32 { return float32(windowStats(d).GroundedFraction) }},
					{ID: "speed_mean", Label: "Speed Mean", Widget: WidgetBar, Range: FieldRange{Max: 8},
						Getter: func(d any) float32 { return float32(windowStats(d).SpeedMean) }},
					{ID: "speed_p90", Label: "Speed P90", Widget: WidgetBar, Range: FieldRange{Max: 8},
						Getter: func(d any) float32 { return float32(windowStats(d).SpeedP90) }},
					{ID: "max_up", Label: "Max Up Angle", Widget: WidgetBar, Range: FieldRange{Max: 180}, Format: "%.0f°",
						Getter: func(d any) float32 { return float32(windowStats(d).MaxUpAngle) }},
				},
			},
			{
				ID:    "events",
				Title: "Events",
				Fields: []FieldDescriptor{
					{ID: "jumps", Label: "Jumps", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.Jumps })},
					{ID: "landings", Label: "Landings", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.Landings })},
					{ID: "left_ground", Label: "Left Ground", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.LeftGround })},
					{ID: "surface_changes", Label: "Surface Changes", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.SurfaceChanges })},
					{ID: "respawns", Label: "Respawns", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.Respawns })},
				},
			},
			{
				ID:    "errors",
				Title: "Errors",
				Visible: func(d any) bool {
					s := windowStats(d)
					return s.QueryErrors+s.MoveErrors > 0
				},
				Fields: []FieldDescriptor{
					{ID: "query_errors", Label: "Query Errors", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.QueryErrors })},
					{ID: "move_errors", Label: "Move Errors", Widget: WidgetText, Format: "%.0f",
						Getter: statsCount(func(s telemetry.WindowStats) int { return s.MoveErrors })},
				},
			},
		},
	}
}

// StatsPanel renders the last flushed telemetry window.
type StatsPanel struct {
	renderer *Renderer
	desc     PanelDescriptor
	x, y     int32
}

// NewStatsPanel creates a stats panel at (x, y).
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		desc:     StatsPanelDescriptor(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *StatsPanel) Draw(stats telemetry.WindowStats) int32 {
	return p.renderer.DrawPanelDescriptor(p.x, p.y, p.desc, stats)
}
