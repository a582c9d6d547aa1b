package input

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// Script replays frames keyed by tick. Move, look and sprint hold their last
// listed value; jump fires only on the tick its frame is listed.
type Script struct {
	latched
	frames []Frame
	next   int
	held   Frame
	begun  bool
	last   uint64
}

// NewScript returns a script over frames. Frames are sorted by tick; for
// duplicate ticks the last one wins, jump included.
func NewScript(frames []Frame) *Script {
	fs := make([]Frame, len(frames))
	for i, f := range frames {
		fs[i] = Sanitize(f)
	}
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].Tick < fs[j].Tick })
	return &Script{frames: fs}
}

// ParseScript reads script frames in CSV form.
func ParseScript(r io.Reader) (*Script, error) {
	var frames []Frame
	if err := gocsv.Unmarshal(r, &frames); err != nil {
		return nil, fmt.Errorf("parsing input script: %w", err)
	}
	return NewScript(frames), nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input script: %w", err)
	}
	defer f.Close()
	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Begin latches the frame for tick. A tick earlier than the previous one
// (a restored snapshot) rewinds the script so frames after it replay.
func (s *Script) Begin(tick uint64) {
	if s.begun && tick < s.last {
		s.rewind(tick)
	}
	s.begun, s.last = true, tick

	for s.next < len(s.frames) && s.frames[s.next].Tick <= tick {
		s.held = s.frames[s.next]
		s.next++
	}
	s.frame = s.held
	s.frame.Tick = tick
	s.frame.Jump = s.held.Jump && s.held.Tick == tick
}

// rewind positions the script at the first frame listed at or after tick.
func (s *Script) rewind(tick uint64) {
	s.next = sort.Search(len(s.frames), func(i int) bool { return s.frames[i].Tick >= tick })
	s.held = Frame{}
	if s.next > 0 {
		s.held = s.frames[s.next-1]
	}
}

// Done reports whether every frame has been consumed.
func (s *Script) Done() bool {
	return s.next >= len(s.frames)
}

// Len returns the number of frames.
func (s *Script) Len() int { return len(s.frames) }

// WriteScript writes frames as a script file.
func WriteScript(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating input script: %w", err)
	}
	if err := gocsv.MarshalFile(&frames, f); err != nil {
		f.Close()
		return fmt.Errorf("writing input script: %w", err)
	}
	return f.Close()
}

// Recorder wraps a source and keeps every latched frame so a live session
// can be written out and replayed as a script.
type Recorder struct {
	Source
	frames []Frame
}

// NewRecorder returns a recorder around src.
func NewRecorder(src Source) *Recorder {
	return &Recorder{Source: src}
}

// Begin latches the wrapped source and records its values.
func (r *Recorder) Begin(tick uint64) {
	r.Source.Begin(tick)
	m, l := r.Source.SampleMove(), r.Source.SampleLookDelta()
	r.frames = append(r.frames, Frame{
		Tick:   tick,
		MoveX:  m.X,
		MoveY:  m.Y,
		LookX:  l.X,
		LookY:  l.Y,
		Jump:   r.Source.WasJumpPressedThisTick(),
		Sprint: r.Source.IsSprintHeld(),
	})
}

// Frames returns the recorded frames.
func (r *Recorder) Frames() []Frame { return r.frames }
