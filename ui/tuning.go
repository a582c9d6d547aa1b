package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wallwalk/config"
)

// TuningPanel edits a working copy of the controller config with raygui
// sliders. Apply hands the copy back to the caller; nothing changes in the
// running simulation until then.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	tunables []config.Tunable
	base     *config.Config
	working  config.Config
	dirty    bool
	status   string
}

// NewTuningPanel creates a panel editing a copy of cfg.
func NewTuningPanel(x, y, width int32, cfg *config.Config) *TuningPanel {
	p := &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		tunables: config.Tunables(),
	}
	p.Reset(cfg)
	return p
}

// Reset discards edits and starts again from cfg.
func (p *TuningPanel) Reset(cfg *config.Config) {
	p.base = cfg
	p.working = *cfg
	p.dirty = false
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height.
func (p *TuningPanel) Height() int32 {
	return int32(len(p.tunables))*34 + 4*24 + 150
}

// Draw renders the panel. It returns a new config when Apply was pressed
// and the edits validate.
func (p *TuningPanel) Draw() (*config.Config, bool) {
	r := p.renderer
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := float32(p.x + r.Theme.Padding)
	y := float32(p.y + r.Theme.Padding)
	sliderWidth := float32(p.width - 2*r.Theme.Padding - 70)

	rl.DrawText("Controller Tuning", int32(x), int32(y), 16, rl.White)
	y += 24

	for _, t := range p.tunables {
		rl.DrawText(t.Label, int32(x), int32(y), 12, r.Theme.LabelColor)
		y += 14
		cur := float32(t.Get(&p.working))
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 16},
			"", "",
			cur, float32(t.Min), float32(t.Max),
		)
		rl.DrawText(fmt.Sprintf(t.Format, t.Get(&p.working)), int32(x+sliderWidth+8), int32(y+2), 12, r.Theme.ValueColor)
		if next != cur {
			t.Set(&p.working, float64(next))
			p.dirty = true
		}
		y += 20
	}

	y += 4
	toggles := []struct {
		label string
		value *bool
	}{
		{"Direction probing", &p.working.Surface.DirectionProbing},
		{"Edge probing", &p.working.Surface.EdgeProbing},
		{"Single stage rotation", &p.working.Surface.SingleStage},
		{"Strafe tilt", &p.working.Camera.StrafeTilt},
	}
	for _, tg := range toggles {
		next := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, tg.label, *tg.value)
		if next != *tg.value {
			*tg.value = next
			p.dirty = true
		}
		y += 24
	}

	y += 8
	var applied *config.Config
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 90, Height: 26}, "Apply") {
		applied = p.apply()
	}
	if gui.Button(rl.Rectangle{X: x + 100, Y: y, Width: 90, Height: 26}, "Revert") {
		p.Reset(p.base)
		p.status = "reverted"
	}
	if gui.Button(rl.Rectangle{X: x + 200, Y: y, Width: 90, Height: 26}, "Copy YAML") {
		p.copyYAML()
	}
	y += 36

	if p.dirty {
		rl.DrawText("unapplied changes", int32(x), int32(y), 12, rl.Orange)
		y += 16
	}
	if p.status != "" {
		rl.DrawText(p.status, int32(x), int32(y), 12, rl.Gray)
	}

	if rl.IsKeyPressed(rl.KeyY) {
		p.copyYAML()
	}

	return applied, applied != nil
}

// apply validates the working copy and returns a fresh config built from
// it, or nil with the error shown in the status line.
func (p *TuningPanel) apply() *config.Config {
	next := p.working
	if err := next.Recompute(); err != nil {
		p.status = err.Error()
		return nil
	}
	p.base = &next
	p.working = next
	p.dirty = false
	p.status = "applied"
	return &next
}

func (p *TuningPanel) copyYAML() {
	data, err := p.working.TunablesYAML(p.tunables)
	if err != nil {
		p.status = err.Error()
		return
	}
	rl.SetClipboardText(string(data))
	p.status = "YAML copied to clipboard"
}
