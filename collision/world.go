// Package collision is a small analytic collision world: static half-spaces
// and axis-aligned boxes queried by rays and sphere casts, plus sphere bodies
// moved with slide resolution. It stands in for a host physics engine so the
// locomotion controller can run headless.
package collision

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/config"
	"github.com/pthm-cable/wallwalk/geom"
)

// DefaultLayer is used for solids created without an explicit layer.
const DefaultLayer uint32 = 1

const (
	maxSlideIterations  = 4
	depenetrationPasses = 3
	contactEpsilon      = 1e-9
)

var (
	// ErrUnknownBody is returned when a handle does not name a body.
	ErrUnknownBody = errors.New("collision: unknown body")
	// ErrInvalidQuery is returned for non-finite or zero-length query inputs.
	ErrInvalidQuery = errors.New("collision: invalid query")
)

// HalfSpace is the solid region Normal·x <= Offset. Normal is unit length
// and points out of the solid.
type HalfSpace struct {
	Normal r3.Vec
	Offset float64
	Layer  uint32
}

// Box is a solid axis-aligned box.
type Box struct {
	Name     string
	Min, Max r3.Vec
	Layer    uint32
}

// Body is a sphere moved through the world with MoveCapsule.
type Body struct {
	Position r3.Vec
	Radius   float64
}

// World holds static solids and movable bodies. It is not safe for
// concurrent use; the simulation drives it from a single goroutine.
type World struct {
	halfSpaces []HalfSpace
	boxes      []Box
	bodies     map[components.AgentHandle]*Body
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		bodies: make(map[components.AgentHandle]*Body),
	}
}

// LoadLevel builds a world from level config: a closed room whose six inner
// faces are walkable, plus solid boxes.
func LoadLevel(cfg config.LevelConfig) (*World, error) {
	w := NewWorld()
	lo, hi := cfg.Room.Min.Vec(), cfg.Room.Max.Vec()

	faces := []HalfSpace{
		{Normal: r3.Vec{Y: 1}, Offset: lo.Y},
		{Normal: r3.Vec{Y: -1}, Offset: -hi.Y},
		{Normal: r3.Vec{X: 1}, Offset: lo.X},
		{Normal: r3.Vec{X: -1}, Offset: -hi.X},
		{Normal: r3.Vec{Z: 1}, Offset: lo.Z},
		{Normal: r3.Vec{Z: -1}, Offset: -hi.Z},
	}
	for _, f := range faces {
		if err := w.AddHalfSpace(f.Normal, f.Offset, DefaultLayer); err != nil {
			return nil, fmt.Errorf("room face: %w", err)
		}
	}
	for _, b := range cfg.Boxes {
		if err := w.AddBox(Box{Name: b.Name, Min: b.Min.Vec(), Max: b.Max.Vec(), Layer: b.Layer}); err != nil {
			return nil, fmt.Errorf("box %q: %w", b.Name, err)
		}
	}
	return w, nil
}

// AddHalfSpace adds the solid region normal·x <= offset. The normal is
// normalised; offset is interpreted against the unit normal.
func (w *World) AddHalfSpace(normal r3.Vec, offset float64, layer uint32) error {
	n, ok := geom.Normalize(normal)
	if !ok || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return fmt.Errorf("%w: half-space normal %v offset %v", ErrInvalidQuery, normal, offset)
	}
	if layer == 0 {
		layer = DefaultLayer
	}
	w.halfSpaces = append(w.halfSpaces, HalfSpace{Normal: n, Offset: offset, Layer: layer})
	return nil
}

// AddBox adds a solid box.
func (w *World) AddBox(b Box) error {
	if !geom.Finite(b.Min) || !geom.Finite(b.Max) ||
		b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z {
		return fmt.Errorf("%w: box min %v max %v", ErrInvalidQuery, b.Min, b.Max)
	}
	if b.Layer == 0 {
		b.Layer = DefaultLayer
	}
	w.boxes = append(w.boxes, b)
	return nil
}

// HalfSpaces returns the static half-spaces.
func (w *World) HalfSpaces() []HalfSpace { return w.halfSpaces }

// Boxes returns the static boxes.
func (w *World) Boxes() []Box { return w.boxes }

// AddBody registers a sphere body for MoveCapsule.
func (w *World) AddBody(handle components.AgentHandle, position r3.Vec, radius float64) error {
	if _, exists := w.bodies[handle]; exists {
		return fmt.Errorf("collision: body %d already exists", handle)
	}
	if !geom.Finite(position) || !(radius > 0) {
		return fmt.Errorf("%w: body position %v radius %v", ErrInvalidQuery, position, radius)
	}
	w.bodies[handle] = &Body{Position: position, Radius: radius}
	return nil
}

// RemoveBody drops a body. Unknown handles are ignored.
func (w *World) RemoveBody(handle components.AgentHandle) {
	delete(w.bodies, handle)
}

// Body returns a copy of the body with the given handle.
func (w *World) Body(handle components.AgentHandle) (Body, bool) {
	b, ok := w.bodies[handle]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Teleport places a body without collision resolution.
func (w *World) Teleport(handle components.AgentHandle, position r3.Vec) error {
	b, ok := w.bodies[handle]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, handle)
	}
	b.Position = position
	return nil
}

// Raycast returns the closest solid hit by the ray within maxDist. Solids
// containing the origin are ignored.
func (w *World) Raycast(origin, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error) {
	return w.cast(origin, 0, dir, maxDist, mask)
}

// SphereCast sweeps a sphere of the given radius along dir and returns the
// first contact within maxDist. Point is the contact on the solid surface.
func (w *World) SphereCast(origin r3.Vec, radius float64, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error) {
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return components.Hit{}, false, fmt.Errorf("%w: radius %v", ErrInvalidQuery, radius)
	}
	return w.cast(origin, radius, dir, maxDist, mask)
}

func (w *World) cast(origin r3.Vec, radius float64, dir r3.Vec, maxDist float64, mask uint32) (components.Hit, bool, error) {
	d, ok := geom.Normalize(dir)
	if !ok || !geom.Finite(origin) || math.IsNaN(maxDist) {
		return components.Hit{}, false, fmt.Errorf("%w: origin %v dir %v", ErrInvalidQuery, origin, dir)
	}
	if maxDist <= 0 {
		return components.Hit{}, false, nil
	}

	best := components.Hit{Distance: math.Inf(1)}
	found := false
	consider := func(t float64, n r3.Vec) {
		if t <= maxDist && t < best.Distance {
			best = components.Hit{
				Distance: t,
				Normal:   n,
				Point:    r3.Sub(r3.Add(origin, r3.Scale(t, d)), r3.Scale(radius, n)),
			}
			found = true
		}
	}

	for _, h := range w.halfSpaces {
		if h.Layer&mask == 0 {
			continue
		}
		if t, hit := sweepHalfSpace(h, origin, d, radius, false); hit {
			consider(t, h.Normal)
		}
	}
	for _, b := range w.boxes {
		if b.Layer&mask == 0 {
			continue
		}
		if t, n, hit := sweepBox(b, origin, d, radius, false); hit {
			consider(t, n)
		}
	}
	if !found {
		return components.Hit{}, false, nil
	}
	return best, true, nil
}

// MoveCapsule moves the body by disp, sliding along any solid it meets, and
// returns the displacement actually applied. Overlaps present before the
// move are pushed out first and count toward the returned displacement.
func (w *World) MoveCapsule(handle components.AgentHandle, disp r3.Vec) (r3.Vec, error) {
	b, ok := w.bodies[handle]
	if !ok {
		return r3.Vec{}, fmt.Errorf("%w: %d", ErrUnknownBody, handle)
	}
	if !geom.Finite(disp) {
		return r3.Vec{}, fmt.Errorf("%w: displacement %v", ErrInvalidQuery, disp)
	}

	start := b.Position
	pos := w.depenetrate(start, b.Radius)
	remaining := disp

	for i := 0; i < maxSlideIterations; i++ {
		if r3.Norm2(remaining) < contactEpsilon*contactEpsilon {
			break
		}
		t, n, hit := w.sweepBodies(pos, remaining, b.Radius)
		if !hit {
			pos = r3.Add(pos, remaining)
			remaining = r3.Vec{}
			break
		}
		pos = r3.Add(pos, r3.Scale(t, remaining))
		rest := r3.Scale(1-t, remaining)
		// Slide: drop the part of the remaining motion that drives into the contact.
		if into := r3.Dot(rest, n); into < 0 {
			rest = r3.Sub(rest, r3.Scale(into, n))
		}
		remaining = rest
	}

	b.Position = pos
	return r3.Sub(pos, start), nil
}

// sweepBodies finds the earliest contact of a sphere at pos moving by disp,
// as a fraction of disp in [0, 1].
func (w *World) sweepBodies(pos, disp r3.Vec, radius float64) (float64, r3.Vec, bool) {
	best := math.Inf(1)
	var bestN r3.Vec
	for _, h := range w.halfSpaces {
		if t, hit := sweepHalfSpace(h, pos, disp, radius, true); hit && t <= 1 && t < best {
			best, bestN = t, h.Normal
		}
	}
	for _, bx := range w.boxes {
		if t, n, hit := sweepBox(bx, pos, disp, radius, true); hit && t <= 1 && t < best {
			best, bestN = t, n
		}
	}
	if math.IsInf(best, 1) {
		return 0, r3.Vec{}, false
	}
	return best, bestN, true
}

// depenetrate pushes a sphere out of every solid it overlaps.
func (w *World) depenetrate(pos r3.Vec, radius float64) r3.Vec {
	for pass := 0; pass < depenetrationPasses; pass++ {
		moved := false
		for _, h := range w.halfSpaces {
			if s := r3.Dot(h.Normal, pos) - (h.Offset + radius); s < -contactEpsilon {
				pos = r3.Add(pos, r3.Scale(-s, h.Normal))
				moved = true
			}
		}
		for _, b := range w.boxes {
			depth, n, inside := penetration(b, pos, radius)
			if inside && depth > contactEpsilon {
				pos = r3.Add(pos, r3.Scale(depth, n))
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return pos
}

// sweepHalfSpace returns the parameter t at which origin+t*d first touches
// the half-space inflated by radius. With contact set, an origin already
// inside counts as a hit at t=0 when moving inward; otherwise such solids
// are ignored.
func sweepHalfSpace(h HalfSpace, origin, d r3.Vec, radius float64, contact bool) (float64, bool) {
	s0 := r3.Dot(h.Normal, origin) - (h.Offset + radius)
	denom := r3.Dot(h.Normal, d)
	if s0 < 0 {
		if contact && denom < 0 {
			return 0, true
		}
		return 0, false
	}
	if denom >= 0 {
		return 0, false
	}
	return s0 / -denom, true
}

// sweepBox intersects origin+t*d with the box inflated by radius using the
// slab method and returns the entry parameter and face normal.
func sweepBox(b Box, origin, d r3.Vec, radius float64, contact bool) (float64, r3.Vec, bool) {
	if _, n, inside := penetration(b, origin, radius); inside {
		if contact && r3.Dot(d, n) < 0 {
			return 0, n, true
		}
		return 0, r3.Vec{}, false
	}

	tEnter, tExit := math.Inf(-1), math.Inf(1)
	enterAxis, enterSign := -1, 0.0
	for axis := 0; axis < 3; axis++ {
		o, dir := component(origin, axis), component(d, axis)
		lo, hi := component(b.Min, axis)-radius, component(b.Max, axis)+radius
		if dir == 0 {
			if o < lo || o > hi {
				return 0, r3.Vec{}, false
			}
			continue
		}
		t1, t2 := (lo-o)/dir, (hi-o)/dir
		sign := -1.0 // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tEnter {
			tEnter, enterAxis, enterSign = t1, axis, sign
		}
		if t2 < tExit {
			tExit = t2
		}
	}
	if enterAxis < 0 || tEnter > tExit || tEnter < 0 {
		return 0, r3.Vec{}, false
	}
	return tEnter, axisVec(enterAxis, enterSign), true
}

// penetration reports whether p lies strictly inside the box inflated by
// radius, and if so the minimum push-out depth and direction.
func penetration(b Box, p r3.Vec, radius float64) (float64, r3.Vec, bool) {
	depth := math.Inf(1)
	var n r3.Vec
	for axis := 0; axis < 3; axis++ {
		v := component(p, axis)
		lo, hi := component(b.Min, axis)-radius, component(b.Max, axis)+radius
		if v <= lo || v >= hi {
			return 0, r3.Vec{}, false
		}
		if dl := v - lo; dl < depth {
			depth, n = dl, axisVec(axis, -1)
		}
		if dh := hi - v; dh < depth {
			depth, n = dh, axisVec(axis, 1)
		}
	}
	return depth, n, true
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisVec(axis int, sign float64) r3.Vec {
	switch axis {
	case 0:
		return r3.Vec{X: sign}
	case 1:
		return r3.Vec{Y: sign}
	default:
		return r3.Vec{Z: sign}
	}
}
