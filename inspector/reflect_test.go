package inspector

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/geom"
	"github.com/pthm-cable/wallwalk/sim"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"vec,fmt:%.3f", WidgetVec, map[string]string{"fmt": "%.3f"}},
		{"bar, min:-1, max:8", WidgetBar, map[string]string{"min": "-1", "max": "8"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"dial", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget {
			t.Errorf("ParseTag(%q) widget = %v, want %v", tt.tag, w, tt.widget)
		}
		if len(opts) != len(tt.options) {
			t.Errorf("ParseTag(%q) options = %v, want %v", tt.tag, opts, tt.options)
			continue
		}
		for k, v := range tt.options {
			if opts[k] != v {
				t.Errorf("ParseTag(%q) %s = %q, want %q", tt.tag, k, opts[k], v)
			}
		}
	}
}

func TestExtractFieldsAgentState(t *testing.T) {
	s := components.NewAgentState(r3.Vec{X: 1, Y: 2, Z: 3}, geom.Identity())
	fields := ExtractFields(&s)

	byName := make(map[string]Field)
	for _, f := range fields {
		byName[f.Name] = f
	}
	if _, ok := byName["Rotation"]; ok {
		t.Error("Rotation should be skipped")
	}
	pos, ok := byName["Position"]
	if !ok || pos.Widget != WidgetVec {
		t.Fatalf("Position field = %+v", pos)
	}
	if got := FormatValue(pos.Value, pos.Options["fmt"]); got != "(1.00, 2.00, 3.00)" {
		t.Errorf("Position formatted = %q", got)
	}
	if g := byName["Grounded"]; g.Widget != WidgetBool {
		t.Errorf("Grounded widget = %v, want bool", g.Widget)
	}
	if y := byName["Yaw"]; y.Widget != WidgetLabel || y.Options["fmt"] != "%.1f°" {
		t.Errorf("Yaw field = %+v", y)
	}
}

func TestExtractFieldsNonStruct(t *testing.T) {
	if got := ExtractFields(3); got != nil {
		t.Errorf("ExtractFields(int) = %v, want nil", got)
	}
	var nilState *components.AgentState
	if got := ExtractFields(nilState); got != nil {
		t.Errorf("ExtractFields(nil) = %v, want nil", got)
	}
}

func TestFormatValueDefaults(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{1.234, "", "1.23"},
		{float32(2), "", "2.00"},
		{int32(7), "", "7"},
		{0.5, "%.1fs", "0.5s"},
		{r3.Vec{X: 1}, "", "(1.00, 0.00, 0.00)"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func TestBarRatio(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 10, 0.5},
		{-10, -10, 10, 0},
		{20, -10, 10, 1},
		{0, -10, 10, 0.5},
		{1, 1, 1, 0},
	}
	for _, tt := range tests {
		if got := BarRatio(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("BarRatio(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func testViews() []sim.AgentView {
	mk := func(id uint32, p r3.Vec) sim.AgentView {
		var v sim.AgentView
		v.Agent.ID = id
		v.Pose.Position = p
		v.Capsule = components.Capsule{Height: 2, Radius: 0.5}
		return v
	}
	return []sim.AgentView{
		mk(1, r3.Vec{Z: 10}),
		mk(2, r3.Vec{Z: 5}),
		mk(3, r3.Vec{X: 5, Z: 5}),
	}
}

func TestPickNearest(t *testing.T) {
	views := testViews()
	tests := []struct {
		name   string
		origin r3.Vec
		dir    r3.Vec
		want   uint32
		ok     bool
	}{
		{"nearest along ray", r3.Vec{}, r3.Vec{Z: 1}, 2, true},
		{"offset within radius", r3.Vec{X: 0.9}, r3.Vec{Z: 2}, 2, true},
		{"other column", r3.Vec{X: 5}, r3.Vec{Z: 1}, 3, true},
		{"behind origin", r3.Vec{Z: 20}, r3.Vec{Z: 1}, 0, false},
		{"miss", r3.Vec{X: 2.5}, r3.Vec{Z: 1}, 0, false},
		{"zero direction", r3.Vec{}, r3.Vec{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Pick(tt.origin, tt.dir, views)
			if ok != tt.ok || id != tt.want {
				t.Errorf("Pick = %d, %v; want %d, %v", id, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCycleWraps(t *testing.T) {
	views := testViews()
	ins := NewInspector(1280, 720)

	ins.Cycle(views, 1)
	if id, ok := ins.Selected(); !ok || id != 1 {
		t.Fatalf("first cycle selected %d, %v; want 1", id, ok)
	}
	ins.Cycle(views, -1)
	if id, _ := ins.Selected(); id != 3 {
		t.Errorf("cycle back from first = %d, want 3", id)
	}
	ins.Cycle(views, 1)
	ins.Cycle(views, 1)
	if id, _ := ins.Selected(); id != 2 {
		t.Errorf("cycle forward = %d, want 2", id)
	}

	ins.Select(99)
	ins.Cycle(views, 1)
	if id, _ := ins.Selected(); id != 1 {
		t.Errorf("cycle from stale selection = %d, want 1", id)
	}
	ins.Cycle(nil, 1)
	if _, ok := ins.Selected(); ok {
		t.Error("cycling an empty list should deselect")
	}
}
