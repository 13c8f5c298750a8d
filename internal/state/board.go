// Package state holds the drawing surface engine: the canvas pixel buffer, the
// pointer gesture state machine and the undo/redo history.
//
// A Board is driven from a single event loop. It performs no locking and must
// not be used from several goroutines at once.
package state

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"pkt.systems/pslog"

	"Exacldraw/internal/export"
	"Exacldraw/internal/logx"
	"Exacldraw/internal/raster"
)

var (
	// ErrSurfaceUnavailable is returned by every operation on a board that was
	// never created with NewBoard or has been closed.
	ErrSurfaceUnavailable = errors.New("state: drawing surface unavailable")
	// ErrSnapshotMismatch is returned when a snapshot does not fit the canvas.
	ErrSnapshotMismatch = errors.New("state: snapshot does not match canvas")
)

// Options configure a Board.
type Options struct {
	// HistoryLimit bounds the undo and redo stacks. Zero means unbounded.
	HistoryLimit int
	// Compress stores history snapshots snappy-encoded.
	Compress bool
	Logger   pslog.Logger
}

type gesture struct {
	active bool
	tool   Tool
	style  Style
	origin Point
	last   Point
}

// Board is the drawing surface engine.
type Board struct {
	img      *image.RGBA
	painter  *raster.Painter
	history  *history
	gesture  gesture
	compress bool
	seq      sequencer
	subs     []*Subscription
	log      pslog.Logger

	// PromptText asks the user for the text of a text-tool gesture. Returning
	// ok == false or a blank string aborts the gesture.
	PromptText func() (text string, ok bool)
	// OnCommit receives every finished gesture.
	OnCommit func(Commit)
	// OnSave receives the PNG export of the canvas when Save is called. It
	// runs on its own goroutine.
	OnSave func(png []byte)
}

// NewBoard creates a white canvas of the given size.
func NewBoard(width, height int, opts Options) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("state: invalid canvas size %dx%d", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	b := &Board{
		img:      img,
		painter:  raster.NewPainter(img),
		history:  newHistory(opts.HistoryLimit),
		compress: opts.Compress,
		log:      logx.WithComponent(opts.Logger, "board"),
	}
	b.painter.Fill(raster.Background)
	b.log.Debug("board created", "width", width, "height", height,
		"history_limit", opts.HistoryLimit, "compress", opts.Compress)
	return b, nil
}

func (b *Board) ready() error {
	if b == nil || b.img == nil {
		return ErrSurfaceUnavailable
	}
	return nil
}

// BeginGesture starts a gesture at p. The current canvas is pushed onto the
// undo stack and the redo stack is discarded. Text is placed immediately and
// eraseAll clears the board; both leave the board idle.
func (b *Board) BeginGesture(p Point, tool Tool, style Style) error {
	if err := b.ready(); err != nil {
		return err
	}
	if !tool.Valid() {
		return fmt.Errorf("state: unknown tool %d", int(tool))
	}
	if b.gesture.active {
		b.log.Debug("gesture abandoned", "tool", b.gesture.tool.String())
	}
	b.gesture = gesture{}
	style = style.normalized()

	switch tool {
	case ToolEraseAll:
		return b.EraseAll()
	case ToolText:
		return b.placeText(p, style)
	}

	b.history.pushUndo(capture(b.img, b.compress))
	b.history.clearRedo()
	b.gesture = gesture{active: true, tool: tool, style: style, origin: p, last: p}
	return nil
}

func (b *Board) placeText(at Point, style Style) error {
	var (
		text string
		ok   bool
	)
	if b.PromptText != nil {
		text, ok = b.PromptText()
	}
	if !ok || strings.TrimSpace(text) == "" {
		b.log.Debug("text input aborted")
		return nil
	}
	ts := style.Text
	face, err := raster.Face(ts.Family, ts.Size, ts.Weight == WeightBold, ts.Italic)
	if err != nil {
		return err
	}
	b.history.pushUndo(capture(b.img, b.compress))
	b.history.clearRedo()
	b.painter.Text(at, text, face, ts.Underline, style.Color)
	b.commit(ToolText)
	return nil
}

// ContinueGesture extends the active gesture to p. It does nothing while idle.
func (b *Board) ContinueGesture(p Point) error {
	if err := b.ready(); err != nil {
		return err
	}
	g := &b.gesture
	if !g.active {
		return nil
	}
	brush := float64(g.style.BrushSize)

	switch g.tool {
	case ToolPen:
		b.painter.Segment(g.last, p, brush, g.style.Color, raster.RoundCap)
	case ToolEraser:
		b.painter.Segment(g.last, p, EraserScale*brush, raster.Background, raster.RoundCap)
	case ToolRectangle, ToolCircle, ToolArrow:
		base, ok := b.history.topUndo()
		if !ok {
			return nil
		}
		if err := base.restore(b.img); err != nil {
			return err
		}
		b.drawShape(g.tool, g.origin, p, g.style)
	}
	g.last = p
	return nil
}

func (b *Board) drawShape(tool Tool, from, to Point, style Style) {
	switch tool {
	case ToolRectangle:
		b.painter.StrokeRect(from, to, ShapeWidth, style.Color)
	case ToolCircle:
		r := distance(from, to)
		b.painter.StrokeCircle(from, r, ShapeWidth, style.Color)
	case ToolArrow:
		b.painter.Arrow(from, to, ShapeWidth, ArrowHeadLength, ArrowHeadAngle, style.Color)
	}
}

// EndGesture finishes the active gesture and reports it to OnCommit.
func (b *Board) EndGesture() error {
	if err := b.ready(); err != nil {
		return err
	}
	if !b.gesture.active {
		return nil
	}
	tool := b.gesture.tool
	b.gesture = gesture{}
	b.commit(tool)
	return nil
}

// EraseAll clears the canvas and empties both history stacks. Nothing is kept
// to undo it.
func (b *Board) EraseAll() error {
	if err := b.ready(); err != nil {
		return err
	}
	b.gesture = gesture{}
	b.painter.Fill(raster.Background)
	b.history.reset()
	b.log.Info("board erased")
	return nil
}

// Undo restores the most recent undo snapshot and keeps the current canvas on
// the redo stack. The undo stack holds the canvas as it was before each
// gesture. An empty undo stack is a no-op.
func (b *Board) Undo() error {
	if err := b.ready(); err != nil {
		return err
	}
	b.gesture = gesture{}
	s, ok := b.history.popUndo()
	if !ok {
		b.log.Debug("undo: nothing to undo")
		return nil
	}
	b.history.pushRedo(capture(b.img, b.compress))
	return s.restore(b.img)
}

// Redo restores the most recent redo snapshot and keeps the current canvas on
// the undo stack. An empty redo stack is a no-op.
func (b *Board) Redo() error {
	if err := b.ready(); err != nil {
		return err
	}
	b.gesture = gesture{}
	s, ok := b.history.popRedo()
	if !ok {
		b.log.Debug("redo: nothing to redo")
		return nil
	}
	b.history.pushUndo(capture(b.img, b.compress))
	return s.restore(b.img)
}

// ExportSnapshot encodes the current canvas as PNG.
func (b *Board) ExportSnapshot() ([]byte, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	return export.EncodePNG(b.img)
}

// Save exports the canvas and hands it to OnSave without waiting for it.
func (b *Board) Save() error {
	data, err := b.ExportSnapshot()
	if err != nil {
		return err
	}
	if b.OnSave == nil {
		b.log.Warn("save requested without a save handler")
		return nil
	}
	b.log.Debug("saving snapshot", "bytes", len(data))
	go b.OnSave(data)
	return nil
}

// Close releases the canvas and detaches every surface. Later calls return
// ErrSurfaceUnavailable.
func (b *Board) Close() error {
	if b == nil || b.img == nil {
		return nil
	}
	subs := b.subs
	b.subs = nil
	for _, s := range subs {
		s.Close()
	}
	b.history.reset()
	b.gesture = gesture{}
	b.img = nil
	b.painter = nil
	b.log.Debug("board closed")
	return nil
}

// Image returns the live canvas, or nil once the board is closed. Callers
// must not modify it.
func (b *Board) Image() *image.RGBA {
	if b == nil {
		return nil
	}
	return b.img
}

// Bounds returns the canvas rectangle.
func (b *Board) Bounds() image.Rectangle {
	if b == nil || b.img == nil {
		return image.Rectangle{}
	}
	return b.img.Rect
}

// Active reports whether a gesture is in progress.
func (b *Board) Active() bool { return b != nil && b.gesture.active }

// UndoDepth is the number of snapshots on the undo stack.
func (b *Board) UndoDepth() int {
	if b == nil || b.history == nil {
		return 0
	}
	return len(b.history.undo)
}

// RedoDepth is the number of snapshots on the redo stack.
func (b *Board) RedoDepth() int {
	if b == nil || b.history == nil {
		return 0
	}
	return len(b.history.redo)
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PointerHandler receives the pointer events of a drawing surface.
type PointerHandler interface {
	PointerDown(p Point)
	PointerMove(p Point)
	PointerUp()
}

// Surface is a host widget that delivers pointer events. Passing nil removes
// the current handler.
type Surface interface {
	SetPointerHandler(h PointerHandler)
	PointerHandler() PointerHandler
}

// Controls supplies the tool and style for the next gesture.
type Controls interface {
	Tool() Tool
	Style() Style
}

// Subscription ties a surface to a board until it is closed.
type Subscription struct {
	once    sync.Once
	release func()
}

// Close detaches the surface. It is safe to call more than once.
func (s *Subscription) Close() error {
	if s == nil {
		return nil
	}
	s.once.Do(s.release)
	return nil
}

// Attach routes the pointer events of surface into the board, reading the
// tool and style from controls at every pointer-down.
func (b *Board) Attach(surface Surface, controls Controls) (*Subscription, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	if surface == nil || controls == nil {
		return nil, fmt.Errorf("state: attach needs a surface and controls")
	}
	h := &binding{board: b, controls: controls}
	surface.SetPointerHandler(h)
	sub := &Subscription{}
	sub.release = func() {
		h.detached = true
		// A later Attach may own the surface by now.
		if cur, ok := surface.PointerHandler().(*binding); ok && cur == h {
			surface.SetPointerHandler(nil)
		}
		b.forget(sub)
	}
	b.subs = append(b.subs, sub)
	b.log.Debug("surface attached")
	return sub, nil
}

func (b *Board) forget(sub *Subscription) {
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

type binding struct {
	board    *Board
	controls Controls
	detached bool
}

func (h *binding) PointerDown(p Point) {
	if h.detached {
		return
	}
	h.report("pointer down", h.board.BeginGesture(p, h.controls.Tool(), h.controls.Style()))
}

func (h *binding) PointerMove(p Point) {
	if h.detached {
		return
	}
	h.report("pointer move", h.board.ContinueGesture(p))
}

func (h *binding) PointerUp() {
	if h.detached {
		return
	}
	h.report("pointer up", h.board.EndGesture())
}

func (h *binding) report(event string, err error) {
	if err != nil {
		h.board.log.Error(event+" failed", "err", err)
	}
}
