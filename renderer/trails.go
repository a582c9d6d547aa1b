package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/sim"
)

// Trail is a fixed-size ring of recent positions.
type Trail struct {
	points []r3.Vec
	next   int
	count  int
}

// NewTrail returns a trail holding up to n points.
func NewTrail(n int) *Trail {
	return &Trail{points: make([]r3.Vec, max(n, 1))}
}

// Push appends p, dropping the oldest point once the trail is full.
func (t *Trail) Push(p r3.Vec) {
	t.points[t.next] = p
	t.next = (t.next + 1) % len(t.points)
	if t.count < len(t.points) {
		t.count++
	}
}

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.count }

// At returns the i-th point from oldest to newest.
func (t *Trail) At(i int) r3.Vec {
	start := (t.next - t.count + len(t.points)) % len(t.points)
	return t.points[(start+i)%len(t.points)]
}

// Reset drops all points.
func (t *Trail) Reset() {
	t.next = 0
	t.count = 0
}

// TrailRenderer records and draws agent position history.
type TrailRenderer struct {
	trails  map[uint32]*Trail
	size    int
	every   uint64
	minStep float64
	color   rl.Color
}

// NewTrailRenderer keeps size points per agent, sampled every n ticks.
func NewTrailRenderer(size int, every uint64) *TrailRenderer {
	return &TrailRenderer{
		trails:  make(map[uint32]*Trail),
		size:    size,
		every:   max(every, 1),
		minStep: 0.02,
		color:   rl.Color{R: 120, G: 200, B: 255, A: 255},
	}
}

// Record samples agent positions for the given tick. A jump in position
// larger than teleport, such as a respawn, restarts the trail.
func (r *TrailRenderer) Record(tick uint64, views []sim.AgentView, teleport float64) {
	if tick%r.every != 0 {
		return
	}
	seen := make(map[uint32]bool, len(views))
	for i := range views {
		id := views[i].Agent.ID
		pos := views[i].Pose.Position
		seen[id] = true

		t, ok := r.trails[id]
		if !ok {
			t = NewTrail(r.size)
			r.trails[id] = t
		}
		if t.Len() > 0 {
			d := r3.Norm(r3.Sub(pos, t.At(t.Len()-1)))
			if d > teleport {
				t.Reset()
			} else if d < r.minStep {
				continue
			}
		}
		t.Push(pos)
	}
	for id := range r.trails {
		if !seen[id] {
			delete(r.trails, id)
		}
	}
}

// Trail returns the trail for an agent.
func (r *TrailRenderer) Trail(id uint32) (*Trail, bool) {
	t, ok := r.trails[id]
	return t, ok
}

// Clear drops every trail.
func (r *TrailRenderer) Clear() {
	clear(r.trails)
}

// Draw renders trails fading from oldest to newest. Must be called inside
// BeginMode3D.
func (r *TrailRenderer) Draw() {
	for _, t := range r.trails {
		n := t.Len()
		for i := 1; i < n; i++ {
			alpha := float64(i) / float64(n)
			rl.DrawLine3D(Vec(t.At(i-1)), Vec(t.At(i)), Fade(r.color, alpha))
		}
	}
}
