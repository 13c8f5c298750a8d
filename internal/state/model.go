package state

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"Exacldraw/internal/raster"
)

// Point is a position on the canvas in pixels.
type Point = raster.Point

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return raster.Pt(x, y) }

// Tool is the drawing tool selected in the control panel.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
	ToolRectangle
	ToolCircle
	ToolArrow
	ToolText
	ToolEraseAll
)

var toolNames = [...]string{
	ToolPen:       "pen",
	ToolEraser:    "eraser",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolArrow:     "arrow",
	ToolText:      "text",
	ToolEraseAll:  "eraseAll",
}

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolArrow, ToolText, ToolEraseAll}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "Tool(" + strconv.Itoa(int(t)) + ")"
	}
	return toolNames[t]
}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool { return t >= 0 && int(t) < len(toolNames) }

// Preview reports whether the tool redraws its shape from a clean base on
// every pointer move.
func (t Tool) Preview() bool {
	return t == ToolRectangle || t == ToolCircle || t == ToolArrow
}

// ParseTool maps a tool name onto a Tool. Matching ignores case, and
// "erase_all" / "erase-all" are accepted for eraseAll.
func ParseTool(s string) (Tool, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "", "-", "").Replace(norm)
	for i, name := range toolNames {
		if strings.ToLower(name) == norm {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("state: unknown tool %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("state: unknown tool %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// FontWeight is the weight of text drawn with the text tool.
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

func (w FontWeight) String() string {
	if w == WeightBold {
		return "bold"
	}
	return "normal"
}

// ParseWeight accepts "normal", "bold", "bolder", "lighter" and numeric CSS
// weights. Numeric weights of 600 and above are bold.
func ParseWeight(s string) (FontWeight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "regular", "lighter":
		return WeightNormal, nil
	case "bold", "bolder":
		return WeightBold, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("state: unknown font weight %q", s)
	}
	if n >= 600 {
		return WeightBold, nil
	}
	return WeightNormal, nil
}

// Drawing constants shared by the tools.
const (
	ShapeWidth       = 2
	ArrowHeadLength  = 10
	ArrowHeadAngle   = math.Pi / 6
	EraserScale      = 2
	DefaultBrushSize = 5
	MinBrushSize     = 1
	MaxBrushSize     = 20
	DefaultFontSize  = 16
	DefaultFamily    = "Arial"
)

// TextStyle describes how the text tool renders.
type TextStyle struct {
	Size      float64
	Weight    FontWeight
	Italic    bool
	Underline bool
	Family    string
}

// Style is everything the control panel supplies for one gesture.
type Style struct {
	Color     color.NRGBA
	BrushSize int
	Text      TextStyle
}

// DefaultStyle is a black 5px pen with 16px Arial text.
func DefaultStyle() Style {
	return Style{
		Color:     color.NRGBA{A: 255},
		BrushSize: DefaultBrushSize,
		Text: TextStyle{
			Size:   DefaultFontSize,
			Family: DefaultFamily,
		},
	}
}

// normalized fills in unusable values so that drawing never fails on style.
func (s Style) normalized() Style {
	if s.BrushSize < MinBrushSize {
		s.BrushSize = MinBrushSize
	}
	if s.Text.Size <= 0 || math.IsNaN(s.Text.Size) || math.IsInf(s.Text.Size, 0) {
		s.Text.Size = DefaultFontSize
	}
	if s.Text.Family == "" {
		s.Text.Family = DefaultFamily
	}
	s.Color.A = 255
	return s
}

var namedColors = map[string]color.NRGBA{
	"black":  {A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"red":    {R: 255, A: 255},
	"green":  {G: 128, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
	"orange": {R: 255, G: 165, A: 255},
	"purple": {R: 128, B: 128, A: 255},
}

// ParseColor parses "#rgb", "#rrggbb" or one of a few color names.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("state: invalid color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("state: invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("state: invalid color %q", s)
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
