package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// KeyBinding is one line of the viewer's key legend.
type KeyBinding struct {
	Keys   string
	Action string
}

// ViewerBindings returns the viewer keys that are not overlay toggles.
func ViewerBindings() []KeyBinding {
	return []KeyBinding{
		{"WASD", "move (keyboard agent)"},
		{"Shift", "sprint"},
		{"Space", "jump"},
		{"M", "capture mouse for look"},
		{"K", "drive followed agent"},
		{"F", "orbit / first person"},
		{"Tab", "next agent"},
		{"R", "respawn followed agent"},
		{"Enter", "pause"},
		{"N", "step one tick"},
		{"+ / -", "sim speed"},
		{"F5", "save snapshot"},
		{"F12", "toggle this panel"},
	}
}

// ControlsPanel renders the left-side panel listing overlay toggles and
// viewer keys.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	bindings []KeyBinding
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		bindings: ViewerBindings(),
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the given registry.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	cats := int32(len(overlays.Categories()))
	lines := int32(len(overlays.All())) + cats + 1 + int32(len(c.bindings))
	return lines*t.LineHeight + t.LineHeight + 4 + 4*cats + 2*t.Padding
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	rl.DrawText("Keys", c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += lineHeight
	for _, b := range c.bindings {
		rl.DrawText(b.Keys, c.x+padding, y, r.Theme.FontSize, rl.White)
		rl.DrawText(b.Action, c.x+padding+60, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lineHeight
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "gizmos":
		return "Gizmos"
	case "level":
		return "Level"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}
