// Package input provides input sources for the locomotion controller:
// neutral, scripted from CSV, procedural wander, and live keyboard/mouse.
package input

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/wallwalk/geom"
)

// Source is an input port that is latched once per tick. Begin is called
// before the tick samples it; every Sample call within the tick returns the
// same values.
type Source interface {
	Begin(tick uint64)
	SampleMove() r2.Vec
	SampleLookDelta() r2.Vec
	IsSprintHeld() bool
	WasJumpPressedThisTick() bool
}

// Frame is one tick of input. It is also the row format of script files.
type Frame struct {
	Tick   uint64  `csv:"tick"`
	MoveX  float64 `csv:"move_x"`
	MoveY  float64 `csv:"move_y"`
	LookX  float64 `csv:"look_x"`
	LookY  float64 `csv:"look_y"`
	Jump   bool    `csv:"jump"`
	Sprint bool    `csv:"sprint"`
}

// Move returns the sanitised move vector.
func (f Frame) Move() r2.Vec {
	return geom.SanitizeMove(r2.Vec{X: f.MoveX, Y: f.MoveY})
}

// Look returns the sanitised look delta.
func (f Frame) Look() r2.Vec {
	return geom.SanitizeDelta(r2.Vec{X: f.LookX, Y: f.LookY})
}

// Sanitize returns f with non-finite values zeroed and move clamped to the
// unit disk.
func Sanitize(f Frame) Frame {
	m, l := f.Move(), f.Look()
	f.MoveX, f.MoveY = m.X, m.Y
	f.LookX, f.LookY = l.X, l.Y
	return f
}

// latched implements the sampling half of Source over a stored frame.
type latched struct {
	frame Frame
}

func (l *latched) SampleMove() r2.Vec           { return l.frame.Move() }
func (l *latched) SampleLookDelta() r2.Vec      { return l.frame.Look() }
func (l *latched) IsSprintHeld() bool           { return l.frame.Sprint }
func (l *latched) WasJumpPressedThisTick() bool { return l.frame.Jump }

// Last returns the frame latched by the most recent Begin.
func (l *latched) Last() Frame { return l.frame }

// Neutral is a source with no input at all.
type Neutral struct{}

func (Neutral) Begin(uint64)                 {}
func (Neutral) SampleMove() r2.Vec           { return r2.Vec{} }
func (Neutral) SampleLookDelta() r2.Vec      { return r2.Vec{} }
func (Neutral) IsSprintHeld() bool           { return false }
func (Neutral) WasJumpPressedThisTick() bool { return false }

// Options configures FromSpec.
type Options struct {
	Seed int64
}

// FromSpec builds a source from its config name: "neutral", "wander",
// "keyboard", or "script:<path>".
func FromSpec(spec string, opts Options) (Source, error) {
	switch {
	case spec == "" || spec == "neutral":
		return Neutral{}, nil
	case spec == "wander":
		return NewWander(opts.Seed), nil
	case spec == "keyboard":
		return NewKeyboard(), nil
	case strings.HasPrefix(spec, "script:"):
		s, err := LoadScript(strings.TrimPrefix(spec, "script:"))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown input source %q", spec)
	}
}
