package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/wallwalk/components"
	"github.com/pthm-cable/wallwalk/sim"
)

// Panel dimensions
const (
	PanelWidth   = 340
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector tracks the selected agent and renders its panel.
type Inspector struct {
	selected    uint32
	hasSelected bool
	panelX      int32
	panelY      int32
	panelHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:      screenWidth - PanelWidth - 10,
		panelY:      10,
		panelHeight: screenHeight - 20,
	}
}

// Resize moves the panel to the right edge of a resized window.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelHeight = screenHeight - 20
}

// HandleInput processes selection. Left click picks the agent under the
// mouse ray, Tab cycles through agents, right click or Escape deselects.
func (ins *Inspector) HandleInput(mouse rl.Vector2, ray rl.Ray, views []sim.AgentView) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		step := 1
		if rl.IsKeyDown(rl.KeyLeftShift) {
			step = -1
		}
		ins.Cycle(views, step)
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouse.X) >= closeX && int32(mouse.X) <= closeX+20 &&
			int32(mouse.Y) >= closeY && int32(mouse.Y) <= closeY+20 {
			ins.Deselect()
			return
		}
		// Clicks inside the panel never select through it.
		if int32(mouse.X) >= ins.panelX && int32(mouse.X) <= ins.panelX+PanelWidth &&
			int32(mouse.Y) >= ins.panelY {
			return
		}
	}

	origin := r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)}
	if id, ok := Pick(origin, dir, views); ok {
		ins.Select(id)
	}
}

// Pick returns the agent whose capsule the ray passes nearest to its
// origin. Capsules are treated as spheres spanning their full height.
func Pick(origin, dir r3.Vec, views []sim.AgentView) (uint32, bool) {
	n := r3.Norm(dir)
	if !(n > 0) {
		return 0, false
	}
	dir = r3.Scale(1/n, dir)

	var best uint32
	bestT := math.Inf(1)
	for _, v := range views {
		center := v.Pose.Position
		radius := math.Max(v.Capsule.Height/2, v.Capsule.Radius)

		oc := r3.Sub(center, origin)
		t := r3.Dot(oc, dir)
		if t < 0 {
			continue
		}
		closest := r3.Add(origin, r3.Scale(t, dir))
		if r3.Norm(r3.Sub(center, closest)) > radius {
			continue
		}
		if t < bestT {
			best, bestT = v.Agent.ID, t
		}
	}
	return best, !math.IsInf(bestT, 1)
}

// Cycle moves the selection step places through views in spawn order,
// wrapping at either end. With nothing selected it starts at the first
// agent.
func (ins *Inspector) Cycle(views []sim.AgentView, step int) {
	if len(views) == 0 {
		ins.Deselect()
		return
	}
	idx := -1
	if ins.hasSelected {
		for i, v := range views {
			if v.Agent.ID == ins.selected {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		ins.Select(views[0].Agent.ID)
		return
	}
	n := len(views)
	idx = ((idx+step)%n + n) % n
	ins.Select(views[idx].Agent.ID)
}

// Select marks an agent as selected.
func (ins *Inspector) Select(id uint32) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected agent ID.
func (ins *Inspector) Selected() (uint32, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel for the selected agent.
func (ins *Inspector) Draw(s *sim.Sim) {
	if !ins.hasSelected {
		return
	}
	v, ok := s.Agent(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	rl.DrawText(fmt.Sprintf("ID: %d  %s  [%s]", v.Agent.ID, v.Agent.Name, v.State.Phase()), x, y, 14, ColorHeaderText)
	y += 20
	y += DrawLabel(x, y, "Respawns", v.Agent.Respawns, nil)
	y = ins.separator(x, y)

	y = ins.section(x, y, "STATE")
	for _, f := range ExtractFields(&v.State) {
		y += DrawField(x, y, f)
	}
	y = ins.separator(x, y)

	y = ins.section(x, y, "DERIVED")
	for _, fd := range components.AgentStateFieldDescriptors() {
		if val, ok := v.State.FieldValue(fd.ID); ok {
			y += DrawDescriptor(x, y, fd, val)
		}
	}
	y = ins.separator(x, y)

	y = ins.section(x, y, "PROBE")
	for _, f := range ExtractFields(&v.Report.Probe) {
		y += DrawField(x, y, f)
	}
	y = ins.separator(x, y)

	y = ins.section(x, y, "CAMERA")
	for _, f := range ExtractFields(&v.Rig) {
		y += DrawField(x, y, f)
	}
	for _, f := range ExtractFields(&v.Capsule) {
		y += DrawField(x, y, f)
	}
}

func (ins *Inspector) separator(x, y int32) int32 {
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	return y + 8
}

// section renders a section title and returns the next line.
func (ins *Inspector) section(x, y int32, title string) int32 {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
	return y + 20
}
