package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Every method is safe on a nil manager.
	if err := om.WriteEvents([]Event{NewJumpEvent(1, 1, 0)}); err != nil {
		t.Error(err)
	}
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if path, err := om.WriteSnapshot(&Snapshot{}); path != "" || err != nil {
		t.Errorf("WriteSnapshot = %q, %v", path, err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should have no dir and close cleanly")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	state := components.NewAgentState(r3.Vec{Y: 1}, geom.Identity())
	state.Grounded = true
	for tick := uint64(1); tick <= 3; tick++ {
		if err := om.WriteTrace([]TraceRow{NewTraceRow(tick, 1, &state)}); err != nil {
			t.Fatal(err)
		}
	}
	events := []Event{
		NewJumpEvent(1, 1, 6.7),
		NewSurfaceChangeEvent(2, 1, "direction", r3.Vec{X: -1}),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteStats(WindowStats{WindowEndTick: 300, Agents: 1, GroundedFraction: 1}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 300); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFirstWall, Tick: 300, Description: "wall"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	trace := readLines(t, filepath.Join(dir, "trace.csv"))
	if len(trace) != 4 {
		t.Fatalf("trace.csv has %d lines, want header plus 3", len(trace))
	}
	if !strings.HasPrefix(trace[0], "tick,agent,phase,grounded,pos_x") {
		t.Errorf("trace header = %q", trace[0])
	}

	f, err := os.Open(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var got []Event
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading events.csv: %v", err)
	}
	if len(got) != 2 || got[0].Type != EventJump || got[1].Type != EventSurfaceChange {
		t.Fatalf("events = %+v", got)
	}
	if got[1].Normal() != (r3.Vec{X: -1}) || got[1].Source != "direction" {
		t.Errorf("surface change = %+v", got[1])
	}

	for _, name := range []string{"stats.csv", "perf.csv", "bookmarks.csv"} {
		if lines := readLines(t, filepath.Join(dir, name)); len(lines) != 2 {
			t.Errorf("%s has %d lines, want 2", name, len(lines))
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}
