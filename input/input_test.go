package input

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const scriptCSV = `tick,move_x,move_y,look_x,look_y,jump,sprint
0,0,1,0,0,false,false
3,0,1,0,0,true,true
5,3,4,NaN,0,false,false
`

func TestParseScriptHoldsAndEdges(t *testing.T) {
	s, err := ParseScript(strings.NewReader(scriptCSV))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	tests := []struct {
		tick   uint64
		moveY  float64
		jump   bool
		sprint bool
	}{
		{0, 1, false, false},
		{1, 1, false, false},
		{2, 1, false, false},
		{3, 1, true, true},
		{4, 1, false, true},
		{5, 0.8, false, false},
		{6, 0.8, false, false},
	}
	for _, tt := range tests {
		s.Begin(tt.tick)
		if got := s.SampleMove().Y; math.Abs(got-tt.moveY) > 1e-12 {
			t.Errorf("tick %d: move.y = %f, want %f", tt.tick, got, tt.moveY)
		}
		if got := s.WasJumpPressedThisTick(); got != tt.jump {
			t.Errorf("tick %d: jump = %v, want %v", tt.tick, got, tt.jump)
		}
		if got := s.IsSprintHeld(); got != tt.sprint {
			t.Errorf("tick %d: sprint = %v, want %v", tt.tick, got, tt.sprint)
		}
	}
	if !s.Done() {
		t.Error("Done = false after last frame")
	}
	if l := s.SampleLookDelta(); l.X != 0 {
		t.Errorf("NaN look delta not sanitised: %v", l)
	}
}

func TestParseScriptSkippedJumpTick(t *testing.T) {
	// A jump listed on a tick that is never begun must not fire later.
	s := NewScript([]Frame{{Tick: 2, Jump: true}})
	s.Begin(0)
	s.Begin(5)
	if s.WasJumpPressedThisTick() {
		t.Error("jump fired on a later tick")
	}
}

func TestScriptDuplicateTickLastWins(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
		jump   bool
		moveY  float64
	}{
		{"jump then plain", []Frame{{Tick: 1, Jump: true, MoveY: 1}, {Tick: 1, MoveY: 0.5}}, false, 0.5},
		{"plain then jump", []Frame{{Tick: 1, MoveY: 0.5}, {Tick: 1, Jump: true, MoveY: 1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScript(tt.frames)
			s.Begin(1)
			if got := s.WasJumpPressedThisTick(); got != tt.jump {
				t.Errorf("jump = %v, want %v", got, tt.jump)
			}
			if got := s.SampleMove().Y; got != tt.moveY {
				t.Errorf("move.y = %v, want %v", got, tt.moveY)
			}
		})
	}
}

func TestScriptRewindReplaysFrames(t *testing.T) {
	s := NewScript([]Frame{
		{Tick: 1, MoveY: 1},
		{Tick: 4, MoveX: 1, Jump: true},
		{Tick: 8, MoveY: -1},
	})
	for tick := uint64(1); tick <= 10; tick++ {
		s.Begin(tick)
	}
	if !s.Done() {
		t.Fatal("script not consumed")
	}

	// Going back to tick 3 restores the frame held then and replays the rest.
	s.Begin(3)
	if m := s.SampleMove(); m.Y != 1 || m.X != 0 {
		t.Errorf("tick 3 move = %v, want (0, 1)", m)
	}
	if s.Done() {
		t.Error("Done after rewind")
	}
	s.Begin(4)
	if !s.WasJumpPressedThisTick() {
		t.Error("jump at tick 4 not replayed")
	}
	if m := s.SampleMove(); m.X != 1 {
		t.Errorf("tick 4 move = %v, want (1, 0)", m)
	}

	// Rewinding onto a listed tick fires that tick's jump.
	s.Begin(4)
	if !s.WasJumpPressedThisTick() {
		t.Error("jump not fired when rewinding onto its tick")
	}

	s.Begin(0)
	if m := s.SampleMove(); m.X != 0 || m.Y != 0 {
		t.Errorf("tick 0 move = %v, want zero before the first frame", m)
	}
}

func TestWriteScriptRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.csv")
	rec := NewRecorder(NewScript([]Frame{
		{Tick: 0, MoveX: 0.5, LookX: 1},
		{Tick: 2, Jump: true, Sprint: true},
	}))
	for tick := uint64(0); tick < 4; tick++ {
		rec.Begin(tick)
	}
	if len(rec.Frames()) != 4 {
		t.Fatalf("recorded %d frames, want 4", len(rec.Frames()))
	}
	if err := WriteScript(path, rec.Frames()); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	replay, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	for tick := uint64(0); tick < 4; tick++ {
		replay.Begin(tick)
		if got, want := replay.WasJumpPressedThisTick(), tick == 2; got != want {
			t.Errorf("tick %d: jump = %v, want %v", tick, got, want)
		}
	}
}

func TestLoadScriptMissing(t *testing.T) {
	if _, err := LoadScript(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("LoadScript succeeded on a missing file")
	}
}

func TestWanderDeterministicAndBounded(t *testing.T) {
	a, b := NewWander(7), NewWander(7)
	for tick := uint64(0); tick < 500; tick++ {
		a.Begin(tick)
		b.Begin(tick)
		if a.Last() != b.Last() {
			t.Fatalf("tick %d: same seed diverged", tick)
		}
		m := a.SampleMove()
		if n := math.Hypot(m.X, m.Y); n > 1+1e-12 {
			t.Fatalf("tick %d: |move| = %f > 1", tick, n)
		}
	}
}

func TestPerlinDeterministicBoundedSmooth(t *testing.T) {
	a, b, c := NewPerlin(3), NewPerlin(3), NewPerlin(4)
	differs := false
	prev := a.At(0, 0.5)
	for i := 1; i < 2000; i++ {
		x := float64(i) * 0.01
		v := a.At(x, 0.5)
		if v != b.At(x, 0.5) {
			t.Fatalf("x=%.2f: same seed diverged", x)
		}
		if v != c.At(x, 0.5) {
			differs = true
		}
		if v < -1.01 || v > 1.01 {
			t.Fatalf("x=%.2f: value %f out of range", x, v)
		}
		if math.Abs(v-prev) > 0.05 {
			t.Fatalf("x=%.2f: jump %f between adjacent samples", x, v-prev)
		}
		prev = v
	}
	if !differs {
		t.Error("different seeds produced identical noise")
	}
	if v := a.At(3, 7); v != 0 {
		t.Errorf("lattice point = %f, want 0", v)
	}
}

func TestNeutral(t *testing.T) {
	var n Neutral
	n.Begin(0)
	if m := n.SampleMove(); m.X != 0 || m.Y != 0 {
		t.Errorf("move = %v", m)
	}
	if n.WasJumpPressedThisTick() || n.IsSprintHeld() {
		t.Error("neutral reported a button")
	}
}

func TestFromSpec(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"", false},
		{"neutral", false},
		{"wander", false},
		{"script:/does/not/exist.csv", true},
		{"joystick", true},
	}
	for _, tt := range tests {
		_, err := FromSpec(tt.spec, Options{Seed: 1})
		if (err != nil) != tt.wantErr {
			t.Errorf("FromSpec(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
		}
	}
}
