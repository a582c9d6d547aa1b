package game

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/ui"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"defaults", config.LoggingConfig{}, false},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, false},
		{"text warn", config.LoggingConfig{Level: "WARN", Format: "Text"}, false},
		{"bad level", config.LoggingConfig{Level: "loud"}, true},
		{"bad format", config.LoggingConfig{Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(tt.cfg, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && logger == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNewLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "tick", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["tick"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestPerfStats(t *testing.T) {
	p := NewPerfStats()
	p.maxSamples = 2
	p.Record("draw", 3*time.Millisecond)
	p.Record("draw", 1*time.Millisecond)
	p.Record("draw", 5*time.Millisecond) // evicts the first
	p.Record("input", 1*time.Millisecond)
	p.Record("simulate", 1*time.Millisecond)

	if got := p.Avg("draw"); got != 3*time.Millisecond {
		t.Errorf("Avg(draw) = %v, want 3ms", got)
	}
	if got := p.Avg("missing"); got != 0 {
		t.Errorf("Avg(missing) = %v", got)
	}
	if got := p.Total(); got != 5*time.Millisecond {
		t.Errorf("Total = %v, want 5ms", got)
	}
	want := []string{"draw", "input", "simulate"}
	got := p.SortedNames()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedNames = %v, want %v", got, want)
		}
	}
}

func TestGizmosFollowOverlays(t *testing.T) {
	reg := ui.NewOverlayRegistry()
	reg.SetEnabled(ui.OverlayUpAxes, false)
	reg.SetEnabled(ui.OverlayVelocity, true)

	g := gizmos(reg)
	if g.UpAxes || !g.Velocity {
		t.Errorf("gizmos = %+v", g)
	}
	if g.Probe != reg.IsEnabled(ui.OverlayProbe) {
		t.Error("probe gizmo does not follow its overlay")
	}
}

func TestHeadlessGame(t *testing.T) {
	cfg := config.Defaults()
	g, err := NewGameWithOptions(cfg, Options{Headless: true, StepsPerUpdate: 4})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	g.UpdateHeadless()
	g.UpdateHeadless()
	if g.Tick() != 8 {
		t.Errorf("Tick = %d, want 8", g.Tick())
	}
	if g.Sim().AgentCount() != len(cfg.Agents) {
		t.Errorf("agents = %d, want %d", g.Sim().AgentCount(), len(cfg.Agents))
	}

	v, ok := g.followed()
	if !ok || v.Agent.ID != 1 {
		t.Errorf("followed = %d, %v; want first agent", v.Agent.ID, ok)
	}
	if _, ok := g.locate(99); ok {
		t.Error("located an unknown agent")
	}
}
