package input

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Noise lanes and time scales for the smooth wander channels.
const (
	laneHeading = 0.5
	laneLook    = 100.5
	lanePitch   = 200.5

	headingRate = 0.015 // noise units per tick
	lookRate    = 0.01
)

// Wander is a seeded procedural source for soak runs. Heading and view turn
// follow Perlin noise over time so paths curve smoothly; retargets, sprints
// and jumps come from the seeded generator.
type Wander struct {
	latched
	rng     *rand.Rand
	noise   *Perlin
	heading float64 // radians, in move space
	hold    int     // ticks until the next retarget
	sprint  bool
}

// NewWander returns a wander source with the given seed.
func NewWander(seed int64) *Wander {
	return &Wander{
		rng:   rand.New(rand.NewSource(seed)),
		noise: NewPerlin(seed),
	}
}

// Begin advances the procedural state by one tick.
func (w *Wander) Begin(tick uint64) {
	if w.hold <= 0 {
		w.hold = 30 + w.rng.Intn(90)
		w.heading = w.rng.Float64() * 2 * math.Pi
		w.sprint = w.rng.Float64() < 0.2
	}
	w.hold--

	t := float64(tick)
	w.heading += w.noise.At(t*headingRate, laneHeading) * 0.08

	mag := 0.6 + 0.4*w.rng.Float64()
	move := r2.Vec{X: math.Sin(w.heading) * mag, Y: math.Cos(w.heading) * mag}
	w.frame = Frame{
		Tick:   tick,
		MoveX:  move.X,
		MoveY:  move.Y,
		LookX:  w.noise.At(t*lookRate, laneLook) * 1.5,
		LookY:  w.noise.At(t*lookRate, lanePitch) * 0.2,
		Jump:   w.rng.Float64() < 0.01,
		Sprint: w.sprint,
	}
}
