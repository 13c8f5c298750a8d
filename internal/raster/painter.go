// Package raster draws the whiteboard primitives into an RGBA buffer.
//
// Every primitive is turned into one or more closed polygons which are
// rasterized with golang.org/x/image/vector inside their own bounding box and
// composited onto the destination with draw.Over.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Background is the color of an empty canvas and of the eraser.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Cap selects how the ends of a segment are drawn.
type Cap int

const (
	ButtCap Cap = iota
	RoundCap
)

// contour is a closed polygon. Contours filled together must share the same
// winding to form a union; an opposite winding punches a hole.
type contour []Point

// Painter draws onto a fixed RGBA buffer.
type Painter struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

// NewPainter returns a painter drawing onto dst.
func NewPainter(dst *image.RGBA) *Painter {
	return &Painter{
		dst: dst,
		z:   vector.NewRasterizer(1, 1),
	}
}

// Image returns the destination buffer.
func (p *Painter) Image() *image.RGBA { return p.dst }

// Fill replaces every pixel with c.
func (p *Painter) Fill(c color.Color) {
	draw.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Segment draws a straight line of the given width from a to b. A zero-length
// segment draws nothing.
func (p *Painter) Segment(a, b Point, width float64, c color.Color, cp Cap) {
	if width <= 0 || a == b {
		return
	}
	a, b, ok := p.clip(a, b, width)
	if !ok {
		return
	}
	switch cp {
	case RoundCap:
		p.fill(c, capsule(a, b, width/2))
	default:
		p.fill(c, quad(a, b, width/2))
	}
}

// StrokeRect strokes the axis-aligned rectangle spanned by the corners a and b,
// centring the stroke on the rectangle's edges.
func (p *Painter) StrokeRect(a, b Point, width float64, c color.Color) {
	if width <= 0 || a == b {
		return
	}
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	// Edges pulled in to just outside the canvas stay invisible.
	r, pad := p.dst.Bounds(), width+2
	x0, x1 = clampTo(x0, r.Min.X, r.Max.X, pad), clampTo(x1, r.Min.X, r.Max.X, pad)
	y0, y1 = clampTo(y0, r.Min.Y, r.Max.Y, pad), clampTo(y1, r.Min.Y, r.Max.Y, pad)
	h := width / 2
	outer := contour{Pt(x0-h, y0-h), Pt(x1+h, y0-h), Pt(x1+h, y1+h), Pt(x0-h, y1+h)}
	if x1-x0 <= width || y1-y0 <= width {
		p.fill(c, outer)
		return
	}
	inner := contour{Pt(x0+h, y0+h), Pt(x0+h, y1-h), Pt(x1-h, y1-h), Pt(x1-h, y0+h)}
	p.fill(c, outer, inner)
}

// StrokeCircle strokes a circle of radius r around center.
func (p *Painter) StrokeCircle(center Point, r, width float64, c color.Color) {
	if width <= 0 || r <= 0 {
		return
	}
	h := width / 2
	outer := arc(center, r+h, 0, 2*math.Pi, circleSteps(r+h))
	if r-h <= 0 {
		p.fill(c, outer)
		return
	}
	inner := arc(center, r-h, 2*math.Pi, 0, circleSteps(r-h))
	p.fill(c, outer, inner)
}

// Arrow draws a shaft from `from` to `to` with a V-shaped head at `to`. The
// barbs are headLen long and rotated headAngle radians off the reverse shaft
// direction.
func (p *Painter) Arrow(from, to Point, width, headLen, headAngle float64, c color.Color) {
	if width <= 0 || from == to {
		return
	}
	left, right := ArrowHead(from, to, headLen, headAngle)
	h := width / 2
	var parts []contour
	for _, seg := range [][2]Point{{from, to}, {to, left}, {to, right}} {
		if a, b, ok := p.clip(seg[0], seg[1], width); ok {
			parts = append(parts, quad(a, b, h))
		}
	}
	p.fill(c, parts...)
}

// clip cuts the segment a-b down to the part inside the canvas grown by the
// stroke width plus an anti-aliasing margin (Liang-Barsky). ok is false when
// nothing of the segment is left. Cut points are placed on the edge they cross
// so that far away endpoints do not lose the visible part to rounding.
func (p *Painter) clip(a, b Point, width float64) (Point, Point, bool) {
	r, pad := p.dst.Bounds(), width+2
	minX, minY := float64(r.Min.X)-pad, float64(r.Min.Y)-pad
	maxX, maxY := float64(r.Max.X)+pad, float64(r.Max.Y)+pad
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	}
	t0, t1 := 0.0, 1.0
	in, out := -1, -1
	for i, e := range edges {
		q, d := e[0], e[1]
		if q == 0 {
			if d < 0 {
				return a, b, false
			}
			continue
		}
		t := d / q
		if q < 0 && t > t0 {
			t0, in = t, i
		} else if q > 0 && t < t1 {
			t1, out = t, i
		}
		if t0 > t1 {
			return a, b, false
		}
	}

	cross := func(edge int) Point {
		var c Point
		switch edge {
		case 0:
			c = Pt(minX, a.Y+(minX-a.X)*(dy/dx))
		case 1:
			c = Pt(maxX, a.Y+(maxX-a.X)*(dy/dx))
		case 2:
			c = Pt(a.X+(minY-a.Y)*(dx/dy), minY)
		default:
			c = Pt(a.X+(maxY-a.Y)*(dx/dy), maxY)
		}
		c.X = math.Max(minX, math.Min(maxX, c.X))
		c.Y = math.Max(minY, math.Min(maxY, c.Y))
		return c
	}
	ca, cb := a, b
	if in >= 0 {
		ca = cross(in)
	}
	if out >= 0 {
		cb = cross(out)
	}
	return ca, cb, true
}

func clampTo(v float64, lo, hi int, pad float64) float64 {
	return math.Max(float64(lo)-pad, math.Min(float64(hi)+pad, v))
}

// ArrowHead returns the end points of the two barbs of an arrow pointing from
// `from` to `to`.
func ArrowHead(from, to Point, length, angle float64) (Point, Point) {
	theta := math.Atan2(to.Y-from.Y, to.X-from.X)
	left := Pt(to.X-length*math.Cos(theta-angle), to.Y-length*math.Sin(theta-angle))
	right := Pt(to.X-length*math.Cos(theta+angle), to.Y-length*math.Sin(theta+angle))
	return left, right
}

// fill rasterizes the contours inside their clipped bounding box and composites
// c through the resulting coverage mask.
func (p *Painter) fill(c color.Color, contours ...contour) {
	b := extent(contours).Intersect(p.dst.Bounds())
	if b.Empty() {
		return
	}
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
	for _, ct := range contours {
		if len(ct) < 3 {
			continue
		}
		p.z.MoveTo(float32(ct[0].X-ox), float32(ct[0].Y-oy))
		for _, pt := range ct[1:] {
			p.z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
		}
		p.z.ClosePath()
	}
	p.z.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

// extent is the integer rectangle covering all contour points, padded by a
// pixel for anti-aliasing.
func extent(contours []contour) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ct := range contours {
		for _, pt := range ct {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
		}
	}
	if minX > maxX || minY > maxY {
		return image.Rectangle{}
	}
	minX, maxX = clampCoord(minX), clampCoord(maxX)
	minY, maxY = clampCoord(minY), clampCoord(maxY)
	return image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

// maxCoord keeps bounding boxes well inside the int range.
const maxCoord = 1 << 24

func clampCoord(v float64) float64 {
	return math.Max(-maxCoord, math.Min(maxCoord, v))
}

// quad is the rectangle covering a butt-capped segment of half width h.
func quad(a, b Point, h float64) contour {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*h, dx/l*h
	return contour{
		Pt(a.X+nx, a.Y+ny),
		Pt(b.X+nx, b.Y+ny),
		Pt(b.X-nx, b.Y-ny),
		Pt(a.X-nx, a.Y-ny),
	}
}

// capsule is a segment of half width r with semicircular ends.
func capsule(a, b Point, r float64) contour {
	theta := math.Atan2(b.Y-a.Y, b.X-a.X)
	n := capSteps(r)
	ct := arc(b, r, theta-math.Pi/2, theta+math.Pi/2, n)
	return append(ct, arc(a, r, theta+math.Pi/2, theta+3*math.Pi/2, n)...)
}

// arc samples n+1 points on a circle from angle `from` to angle `to`.
func arc(c Point, r, from, to float64, n int) contour {
	ct := make(contour, 0, n+1)
	for i := 0; i <= n; i++ {
		a := from + (to-from)*float64(i)/float64(n)
		ct = append(ct, Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a)))
	}
	return ct
}

func capSteps(r float64) int {
	return clampSteps(int(math.Ceil(math.Pi*r/1.5)), 8, 128)
}

func circleSteps(r float64) int {
	return clampSteps(int(math.Ceil(2*math.Pi*r/2)), 32, 1024)
}

func clampSteps(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
