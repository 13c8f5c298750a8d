package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Exacldraw/internal/raster"
	"Exacldraw/internal/state"
)

// Palette is the row of color swatches shown in the control panel.
var Palette = []color.NRGBA{
	{A: 255},
	{R: 255, A: 255},
	{G: 128, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, G: 165, A: 255},
	{R: 128, B: 128, A: 255},
}

// FontSizes are offered by the font size selector.
var FontSizes = []int{10, 12, 14, 16, 18, 20, 24, 32, 48}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// ControlPanel holds the tool and style selection. It implements
// state.Controls.
type ControlPanel struct {
	tool  state.Tool
	style state.Style

	tools     *widget.RadioGroup
	colorTag  *canvas.Rectangle
	brush     *widget.Slider
	brushTag  *widget.Label
	fontSize  *widget.Select
	bold      *widget.Check
	italic    *widget.Check
	underline *widget.Check
	family    *widget.Select

	// OnEraseAll runs when the erase-all button is pressed.
	OnEraseAll func()
}

var _ state.Controls = (*ControlPanel)(nil)

// NewControlPanel builds the panel widgets starting from tool and style.
func NewControlPanel(tool state.Tool, style state.Style) *ControlPanel {
	if tool == state.ToolEraseAll || !tool.Valid() {
		tool = state.ToolPen
	}
	c := &ControlPanel{tool: tool, style: style}

	var names []string
	for _, t := range state.Tools {
		if t != state.ToolEraseAll {
			names = append(names, t.String())
		}
	}
	c.tools = widget.NewRadioGroup(names, func(s string) {
		if t, err := state.ParseTool(s); err == nil {
			c.tool = t
		}
	})
	c.tools.Horizontal = true
	c.tools.Required = true
	c.tools.SetSelected(tool.String())

	c.colorTag = canvas.NewRectangle(style.Color)
	c.colorTag.SetMinSize(fyne.NewSize(28, 28))

	c.brush = widget.NewSlider(state.MinBrushSize, state.MaxBrushSize)
	c.brush.Step = 1
	c.brushTag = widget.NewLabel(strconv.Itoa(style.BrushSize) + "px")
	c.brush.OnChanged = func(v float64) {
		c.style.BrushSize = int(v)
		c.brushTag.SetText(strconv.Itoa(int(v)) + "px")
	}
	c.brush.SetValue(float64(style.BrushSize))

	var sizes []string
	for _, n := range FontSizes {
		sizes = append(sizes, strconv.Itoa(n))
	}
	c.fontSize = widget.NewSelect(sizes, func(s string) {
		if n, err := strconv.Atoi(s); err == nil {
			c.style.Text.Size = float64(n)
		}
	})
	c.fontSize.SetSelected(strconv.Itoa(int(style.Text.Size)))

	c.bold = widget.NewCheck("Bold", func(on bool) {
		c.style.Text.Weight = state.WeightNormal
		if on {
			c.style.Text.Weight = state.WeightBold
		}
	})
	c.bold.SetChecked(style.Text.Weight == state.WeightBold)
	c.italic = widget.NewCheck("Italic", func(on bool) { c.style.Text.Italic = on })
	c.italic.SetChecked(style.Text.Italic)
	c.underline = widget.NewCheck("Underline", func(on bool) { c.style.Text.Underline = on })
	c.underline.SetChecked(style.Text.Underline)

	c.family = widget.NewSelect(raster.Families, func(s string) { c.style.Text.Family = s })
	c.family.SetSelected(style.Text.Family)

	return c
}

// Tool implements state.Controls.
func (c *ControlPanel) Tool() state.Tool { return c.tool }

// Style implements state.Controls.
func (c *ControlPanel) Style() state.Style { return c.style }

// SetTool selects t. Selecting eraseAll runs OnEraseAll and leaves the pen
// selected.
func (c *ControlPanel) SetTool(t state.Tool) {
	if t == state.ToolEraseAll {
		c.eraseAll()
		return
	}
	c.tools.SetSelected(t.String())
}

// SetColor sets the stroke color and switches to the pen.
func (c *ControlPanel) SetColor(col color.NRGBA) {
	col.A = 255
	c.style.Color = col
	c.colorTag.FillColor = col
	c.colorTag.Refresh()
	c.SetTool(state.ToolPen)
}

// SetBrushSize moves the brush slider, clamped to its range.
func (c *ControlPanel) SetBrushSize(n int) {
	n = min(max(n, state.MinBrushSize), state.MaxBrushSize)
	c.brush.SetValue(float64(n))
}

func (c *ControlPanel) eraseAll() {
	c.tools.SetSelected(state.ToolPen.String())
	if c.OnEraseAll != nil {
		c.OnEraseAll()
	}
}

// Object lays the panel out as a toolbar row.
func (c *ControlPanel) Object() fyne.CanvasObject {
	var swatches []fyne.CanvasObject
	for _, col := range Palette {
		swatches = append(swatches, newColorSwatch(col, c.SetColor))
	}
	eraseAll := widget.NewButtonWithIcon("Erase all", theme.DeleteIcon(), c.eraseAll)

	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), c.brush)

	row1 := container.NewHBox(
		widget.NewLabel("Tool:"),
		c.tools,
		eraseAll,
		layout.NewSpacer(),
	)
	row2 := container.NewHBox(
		widget.NewLabel("Color:"),
		c.colorTag,
		container.NewHBox(swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		c.brushTag,
		widget.NewSeparator(),
		widget.NewLabel("Font:"),
		c.family,
		c.fontSize,
		c.bold,
		c.italic,
		c.underline,
		layout.NewSpacer(),
	)
	return container.NewVBox(row1, row2)
}
