package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wallwalk/input"
)

// orbitSpeed is the arrow-key orbit rate in degrees per second.
const orbitSpeed = 90.0

// handleInput processes viewer keys and mouse selection.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.paused = true
		g.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.speed = min(g.speed+1, MaxSpeed)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.speed = max(g.speed-1, 1)
	}

	if rl.IsKeyPressed(rl.KeyF12) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.camera.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.toggleMouseCapture()
	}
	if rl.IsKeyPressed(rl.KeyK) {
		g.toggleDriving()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.respawnFollowed()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.SaveSnapshot()
	}

	g.handleOverlayKeys()
	g.handleCameraInput()

	if g.mouseCaptured {
		return
	}
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && g.overUI(mouse) {
		return
	}
	ray := rl.GetScreenToWorldRay(mouse, g.cam3d)
	g.inspector.HandleInput(mouse, ray, g.views)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.inspector.Resize(w, h)
}

// handleCameraInput orbits and zooms the viewer camera.
func (g *Game) handleCameraInput() {
	step := orbitSpeed * float64(rl.GetFrameTime())
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(step, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, -step)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(float64(d.X)*0.3, float64(d.Y)*0.3)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// toggleMouseCapture hides the cursor so mouse motion drives look input.
func (g *Game) toggleMouseCapture() {
	g.mouseCaptured = !g.mouseCaptured
	if g.mouseCaptured {
		rl.DisableCursor()
	} else {
		rl.EnableCursor()
	}
}

// toggleDriving hands the followed agent to the keyboard, or gives it back
// the source it had before.
func (g *Game) toggleDriving() {
	if g.driving {
		if err := g.sim.SetInput(g.drivenID, g.prevInput); err != nil {
			g.logger.Warn("restoring input failed", "id", g.drivenID, "error", err)
		}
		g.driving = false
		g.prevInput = nil
		return
	}

	v, ok := g.followed()
	if !ok {
		return
	}
	prev, _ := g.sim.Input(v.Agent.ID)
	if _, isKeyboard := prev.(*input.Keyboard); isKeyboard {
		return
	}
	if err := g.sim.SetInput(v.Agent.ID, input.NewKeyboard()); err != nil {
		g.logger.Warn("keyboard takeover failed", "id", v.Agent.ID, "error", err)
		return
	}
	g.prevInput = prev
	g.drivenID = v.Agent.ID
	g.driving = true
}

// overUI reports whether the mouse is over a panel drawn last frame.
func (g *Game) overUI(mouse rl.Vector2) bool {
	for _, r := range g.uiRects {
		if rl.CheckCollisionPointRec(mouse, r) {
			return true
		}
	}
	return false
}
