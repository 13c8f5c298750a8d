package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Exacldraw/internal/state"
)

// BoardWidget shows the engine canvas and forwards pointer input to whatever
// handler the engine registered through Attach.
type BoardWidget struct {
	widget.BaseWidget

	board    *state.Board
	controls state.Controls
	window   fyne.Window
	image    *canvas.Image

	mu      sync.Mutex
	handler state.PointerHandler
	down    bool

	pendingText string
	pendingOK   bool

	// OnChange runs after every event that may have changed the canvas.
	OnChange func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ state.Surface = (*BoardWidget)(nil)

// NewBoardWidget wraps board. Text placement asks for the text with a dialog
// on window; without a window every text gesture is aborted.
func NewBoardWidget(board *state.Board, controls state.Controls, window fyne.Window) *BoardWidget {
	img := canvas.NewImageFromImage(board.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	r := board.Bounds()
	img.SetMinSize(fyne.NewSize(float32(r.Dx()), float32(r.Dy())))

	b := &BoardWidget{
		board:    board,
		controls: controls,
		window:   window,
		image:    img,
	}
	board.PromptText = b.takeText
	b.ExtendBaseWidget(b)
	return b
}

// SetPointerHandler implements state.Surface.
func (b *BoardWidget) SetPointerHandler(h state.PointerHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
	b.down = false
}

// PointerHandler implements state.Surface.
func (b *BoardWidget) PointerHandler() state.PointerHandler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler
}

// press records the button state and returns the handler to notify, or nil
// when no gesture should be forwarded.
func (b *BoardWidget) press(down bool) state.PointerHandler {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler == nil {
		return nil
	}
	if !down && !b.down {
		return nil
	}
	b.down = down
	return b.handler
}

func (b *BoardWidget) dragging() state.PointerHandler {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.down {
		return nil
	}
	return b.handler
}

func toPoint(p fyne.Position) state.Point {
	return state.Pt(float64(p.X), float64(p.Y))
}

// takeText hands the text collected by the dialog to the engine exactly once.
func (b *BoardWidget) takeText() (string, bool) {
	text, ok := b.pendingText, b.pendingOK
	b.pendingText, b.pendingOK = "", false
	return text, ok
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p := toPoint(e.Position)
	if b.controls.Tool() == state.ToolText && b.window != nil {
		if h := b.PointerHandler(); h != nil {
			b.askText(h, p)
		}
		return
	}
	h := b.press(true)
	if h == nil {
		return
	}
	h.PointerDown(p)
	b.changed()
}

func (b *BoardWidget) askText(h state.PointerHandler, p state.Point) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Enter text")
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	dialog.ShowForm("Add text", "Place", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		b.pendingText, b.pendingOK = entry.Text, true
		h.PointerDown(p)
		b.pendingText, b.pendingOK = "", false
		b.changed()
	}, b.window)
	b.window.Canvas().Focus(entry)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	h := b.dragging()
	if h == nil {
		return
	}
	h.PointerMove(toPoint(e.Position))
	b.changed()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.release()
}

func (b *BoardWidget) DragEnd() {
	b.release()
}

func (b *BoardWidget) release() {
	h := b.press(false)
	if h == nil {
		return
	}
	h.PointerUp()
	b.changed()
}

// Redraw uploads the canvas again after changes made outside pointer events.
func (b *BoardWidget) Redraw() {
	b.changed()
}

func (b *BoardWidget) changed() {
	if img := b.board.Image(); img != nil {
		b.image.Image = img
	}
	b.image.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}

func (b *BoardWidget) MinSize() fyne.Size {
	r := b.board.Bounds()
	return fyne.NewSize(float32(r.Dx()), float32(r.Dy()))
}
