package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wallwalk/components"
)

// Widget colors
var (
	ColorBarBg     = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill   = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorBarCenter = rl.Color{R: 120, G: 120, B: 140, A: 255}
	ColorText      = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim   = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn    = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff   = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	barWidth  = int32(120)
	barHeight = int32(14)
	valueX    = int32(90)
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(value, options["fmt"]), x+valueX, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar between lo and hi. Centered bars grow
// from the middle so signed values read left or right of zero.
func DrawBar(x, y int32, name string, value, lo, hi float32, centered bool, format string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + valueX
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	ratio := BarRatio(value, lo, hi)
	if centered {
		mid := barX + barWidth/2
		end := barX + int32(float32(barWidth)*ratio)
		if end < mid {
			rl.DrawRectangle(end, y, mid-end, barHeight, ColorBarLow)
		} else {
			rl.DrawRectangle(mid, y, end-mid, barHeight, ColorBarFill)
		}
		rl.DrawLine(mid, y, mid, y+barHeight, ColorBarCenter)
	} else {
		fill := lerpColor(ColorBarLow, ColorBarFill, ratio)
		rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fill)
	}

	if format == "" {
		format = "%.2f"
	}
	rl.DrawText(fmt.Sprintf(format, value), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawVec renders a vector as its three components.
func DrawVec(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(value, options["fmt"]), x+valueX, y, 14, ColorText)
	return 18
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + valueX
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, GetMin(field.Options), GetMax(field.Options), false, field.Options["fmt"])
		}
		return DrawLabel(x, y, field.Name, field.Value, field.Options)

	case WidgetVec:
		return DrawVec(x, y, field.Name, field.Value, field.Options)

	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
		return DrawLabel(x, y, field.Name, field.Value, field.Options)

	default:
		return DrawLabel(x, y, field.Name, field.Value, field.Options)
	}
}

// DrawDescriptor renders one described scalar as a bar or a label.
func DrawDescriptor(x, y int32, fd components.FieldDescriptor, value float64) int32 {
	if !fd.ShowWhenZero && value == 0 {
		return 0
	}
	if fd.IsBar || fd.IsCentered {
		return DrawBar(x, y, fd.Label, float32(value), fd.Min, fd.Max, fd.IsCentered, fd.Format)
	}
	return DrawLabel(x, y, fd.Label, value, map[string]string{"fmt": fd.Format})
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
