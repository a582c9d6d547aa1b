package input

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// lookScale converts mouse pixels to look units.
const lookScale = 0.1

// Keyboard reads WASD, shift, space and mouse delta from raylib. It must be
// latched from the raylib main loop.
type Keyboard struct {
	latched
}

// NewKeyboard returns a keyboard and mouse source.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Begin polls the window's input state.
func (k *Keyboard) Begin(tick uint64) {
	var move r2.Vec
	if rl.IsKeyDown(rl.KeyW) {
		move.Y++
	}
	if rl.IsKeyDown(rl.KeyS) {
		move.Y--
	}
	if rl.IsKeyDown(rl.KeyD) {
		move.X++
	}
	if rl.IsKeyDown(rl.KeyA) {
		move.X--
	}

	var look r2.Vec
	if rl.IsCursorHidden() {
		d := rl.GetMouseDelta()
		look = r2.Vec{X: float64(d.X) * lookScale, Y: float64(d.Y) * lookScale}
	}

	k.frame = Frame{
		Tick:   tick,
		MoveX:  move.X,
		MoveY:  move.Y,
		LookX:  look.X,
		LookY:  look.Y,
		Jump:   rl.IsKeyPressed(rl.KeySpace),
		Sprint: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
	}
}
