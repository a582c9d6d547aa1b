package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/collision"
	"github.com/pthm-cable/wallwalk/config"
)

// Level colors
var (
	ColorRoomEdge = rl.Color{R: 90, G: 100, B: 120, A: 255}
	ColorGrid     = rl.Color{R: 50, G: 55, B: 65, A: 255}
	ColorBoxFill  = rl.Color{R: 70, G: 90, B: 110, A: 255}
	ColorBoxEdge  = rl.Color{R: 140, G: 170, B: 200, A: 255}
)

// LevelRenderer draws the room and its boxes.
type LevelRenderer struct {
	roomMin, roomMax r3.Vec
}

// NewLevelRenderer creates a renderer for the configured room.
func NewLevelRenderer(room config.RoomConfig) *LevelRenderer {
	return &LevelRenderer{
		roomMin: room.Min.Vec(),
		roomMax: room.Max.Vec(),
	}
}

// Draw renders the room edges, optionally a floor grid, and every box in
// world. Must be called inside BeginMode3D.
func (r *LevelRenderer) Draw(world *collision.World, grid, wireframe bool) {
	center := r3.Scale(0.5, r3.Add(r.roomMin, r.roomMax))
	size := r3.Sub(r.roomMax, r.roomMin)
	rl.DrawCubeWiresV(Vec(center), Vec(size), ColorRoomEdge)

	if grid {
		r.drawFloorGrid()
	}

	for _, b := range world.Boxes() {
		c := Vec(r3.Scale(0.5, r3.Add(b.Min, b.Max)))
		s := Vec(r3.Sub(b.Max, b.Min))
		if !wireframe {
			rl.DrawCubeV(c, s, ColorBoxFill)
		}
		rl.DrawCubeWiresV(c, s, ColorBoxEdge)
	}
}

// drawFloorGrid draws unit lines across the room floor.
func (r *LevelRenderer) drawFloorGrid() {
	y := float32(r.roomMin.Y) + 0.001
	for x := math.Ceil(r.roomMin.X); x <= r.roomMax.X; x++ {
		rl.DrawLine3D(
			rl.Vector3{X: float32(x), Y: y, Z: float32(r.roomMin.Z)},
			rl.Vector3{X: float32(x), Y: y, Z: float32(r.roomMax.Z)},
			ColorGrid,
		)
	}
	for z := math.Ceil(r.roomMin.Z); z <= r.roomMax.Z; z++ {
		rl.DrawLine3D(
			rl.Vector3{X: float32(r.roomMin.X), Y: y, Z: float32(z)},
			rl.Vector3{X: float32(r.roomMax.X), Y: y, Z: float32(z)},
			ColorGrid,
		)
	}
}
