package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// UnderlineOffset is the distance from the baseline to the underline rule.
const UnderlineOffset = 2

// UnderlineWidth is the thickness of the underline rule.
const UnderlineWidth = 2

type variants struct {
	regular, bold, italic, boldItalic []byte
}

func (v variants) pick(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return v.boldItalic
	case bold:
		return v.bold
	case italic:
		return v.italic
	}
	return v.regular
}

var families = map[string]variants{
	"sans":  {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	"serif": {gomedium.TTF, gobold.TTF, gomediumitalic.TTF, gobolditalic.TTF},
	"mono":  {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
}

var familyAliases = map[string]string{
	"arial":           "sans",
	"helvetica":       "sans",
	"sans-serif":      "sans",
	"sans":            "sans",
	"times new roman": "serif",
	"times":           "serif",
	"georgia":         "serif",
	"serif":           "serif",
	"courier new":     "mono",
	"courier":         "mono",
	"monospace":       "mono",
	"mono":            "mono",
}

// Families lists the font family names offered to users.
var Families = []string{"Arial", "Times New Roman", "Courier New", "Georgia"}

// ResolveFamily maps a CSS-like family name onto one of the bundled families.
// Unknown names fall back to sans.
func ResolveFamily(name string) string {
	if f, ok := familyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f
	}
	return "sans"
}

type faceKey struct {
	family       string
	size         float64
	bold, italic bool
}

var faces = struct {
	sync.Mutex
	parsed map[string]*opentype.Font
	cache  map[faceKey]font.Face
}{
	parsed: make(map[string]*opentype.Font),
	cache:  make(map[faceKey]font.Face),
}

// Face returns a font face for the given family and style. Faces are cached
// and shared.
func Face(family string, size float64, bold, italic bool) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("raster: invalid font size %v", size)
	}
	key := faceKey{family: ResolveFamily(family), size: size, bold: bold, italic: italic}

	faces.Lock()
	defer faces.Unlock()
	if f, ok := faces.cache[key]; ok {
		return f, nil
	}
	variant := fmt.Sprintf("%s/%t/%t", key.family, bold, italic)
	parsed, ok := faces.parsed[variant]
	if !ok {
		var err error
		parsed, err = opentype.Parse(families[key.family].pick(bold, italic))
		if err != nil {
			return nil, fmt.Errorf("raster: parse font %s: %w", variant, err)
		}
		faces.parsed[variant] = parsed
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: new face %s: %w", variant, err)
	}
	faces.cache[key] = face
	return face, nil
}

// MeasureText returns the advance width of s in pixels.
func MeasureText(face font.Face, s string) float64 {
	return fromFixed(font.MeasureString(face, s))
}

// Text draws s with its baseline starting at `at` and returns the advance
// width. With underline set a rule spanning the advance width is drawn
// UnderlineOffset pixels below the baseline.
func (p *Painter) Text(at Point, s string, face font.Face, underline bool, c color.Color) float64 {
	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(at.X), Y: toFixed(at.Y)},
	}
	width := MeasureText(face, s)
	d.DrawString(s)
	if underline {
		y := at.Y + UnderlineOffset
		p.Segment(Pt(at.X, y), Pt(at.X+width, y), UnderlineWidth, c, ButtCap)
	}
	return width
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
