package input

import (
	"math"
	"math/rand"
)

// gradients2D are the unit directions Perlin lattice points pick from.
var gradients2D = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

// Perlin is seeded 2D gradient noise. Output lies roughly in [-1, 1] and is
// zero at every lattice point.
type Perlin struct {
	perm [512]uint8
}

// NewPerlin builds the permutation table from seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	order := rand.New(rand.NewSource(seed)).Perm(256)
	for i, v := range order {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

// At samples the noise at (x, y). Callers use x as time and y as a lane so
// independent channels do not correlate.
func (p *Perlin) At(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0)&255, int(y0)&255

	corner := func(dx, dy int) float64 {
		g := gradients2D[p.perm[int(p.perm[ix+dx])+iy+dy]&7]
		return g[0]*(fx-float64(dx)) + g[1]*(fy-float64(dy))
	}
	u, v := smootherstep(fx), smootherstep(fy)
	bottom := corner(0, 0) + u*(corner(1, 0)-corner(0, 0))
	top := corner(0, 1) + u*(corner(1, 1)-corner(0, 1))
	return math.Sqrt2 * (bottom + v*(top-bottom))
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}
