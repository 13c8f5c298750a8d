package state

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Exacldraw/internal/raster"
)

func newTestBoard(t *testing.T, opts Options) *Board {
	t.Helper()
	b, err := NewBoard(120, 80, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func penStyle() Style {
	return Style{Color: color.NRGBA{A: 255}, BrushSize: 5, Text: TextStyle{Size: 16, Family: "Arial"}}
}

func stroke(t *testing.T, b *Board, tool Tool, style Style, pts ...Point) {
	t.Helper()
	require.NoError(t, b.BeginGesture(pts[0], tool, style))
	for _, p := range pts[1:] {
		require.NoError(t, b.ContinueGesture(p))
	}
	require.NoError(t, b.EndGesture())
}

func pixels(b *Board) []byte { return slices.Clone(b.Image().Pix) }

func isBlank(img *image.RGBA) bool {
	for _, v := range img.Pix {
		if v != 255 {
			return false
		}
	}
	return true
}

func dark(img *image.RGBA, x, y int) bool {
	c := img.RGBAAt(x, y)
	return c.R < 40 && c.G < 40 && c.B < 40
}

func TestNewBoardRejectsBadSize(t *testing.T) {
	_, err := NewBoard(0, 10, Options{})
	assert.Error(t, err)
	_, err = NewBoard(10, -1, Options{})
	assert.Error(t, err)
}

func TestExportOfUntouchedBoardIsBlank(t *testing.T) {
	b := newTestBoard(t, Options{})
	data, err := b.ExportSnapshot()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			require.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, bl, a})
		}
	}
}

func TestPenStrokeUndoRedoScenario(t *testing.T) {
	b := newTestBoard(t, Options{})
	blank := pixels(b)

	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
	img := b.Image()
	for _, y := range []int{8, 9, 10, 11} {
		assert.Truef(t, dark(img, 30, y), "row %d should carry the line", y)
	}
	assert.Equal(t, byte(255), img.RGBAAt(30, 14).R)
	assert.Equal(t, byte(255), img.RGBAAt(30, 5).R)
	lined := pixels(b)

	require.NoError(t, b.Undo())
	assert.Equal(t, blank, b.Image().Pix)
	assert.Equal(t, 0, b.UndoDepth())
	assert.Equal(t, 1, b.RedoDepth())

	require.NoError(t, b.Redo())
	assert.Equal(t, lined, b.Image().Pix)
	assert.Equal(t, 1, b.UndoDepth())
	assert.Equal(t, 0, b.RedoDepth())
}

func TestUndoEveryStrokeReturnsToBlank(t *testing.T) {
	for _, compress := range []bool{false, true} {
		b := newTestBoard(t, Options{Compress: compress})
		states := [][]byte{pixels(b)}
		const n = 4
		for i := 0; i < n; i++ {
			y := float64(10 + 15*i)
			stroke(t, b, ToolPen, penStyle(), Pt(5, y), Pt(60, y+3), Pt(100, y))
			states = append(states, pixels(b))
		}

		for i := n - 1; i >= 0; i-- {
			require.NoError(t, b.Undo())
			require.Equalf(t, states[i], b.Image().Pix, "undo to state %d (compress=%v)", i, compress)
		}
		assert.True(t, isBlank(b.Image()))
		assert.Equal(t, n, b.RedoDepth())
		assert.Equal(t, 0, b.UndoDepth())

		for i := 1; i <= n; i++ {
			require.NoError(t, b.Redo())
			require.Equalf(t, states[i], b.Image().Pix, "redo to state %d (compress=%v)", i, compress)
		}
		assert.Equal(t, n, b.UndoDepth())
		assert.Equal(t, 0, b.RedoDepth())
	}
}

func TestRedoAfterUndoRestoresPreUndoPixels(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 40))
	stroke(t, b, ToolRectangle, penStyle(), Pt(20, 20), Pt(90, 70))
	before := pixels(b)

	require.NoError(t, b.Undo())
	assert.NotEqual(t, before, b.Image().Pix)
	require.NoError(t, b.Redo())
	assert.Equal(t, before, b.Image().Pix)
}

func TestUndoRedoOnEmptyHistoryAreNoOps(t *testing.T) {
	b := newTestBoard(t, Options{})
	before := pixels(b)
	require.NoError(t, b.Undo())
	require.NoError(t, b.Redo())
	assert.Equal(t, before, b.Image().Pix)
	assert.Zero(t, b.UndoDepth())
	assert.Zero(t, b.RedoDepth())
}

func TestNewGestureAfterUndoClearsRedo(t *testing.T) {
	for _, tool := range []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolArrow, ToolText} {
		t.Run(tool.String(), func(t *testing.T) {
			b := newTestBoard(t, Options{})
			b.PromptText = func() (string, bool) { return "hi", true }
			stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
			stroke(t, b, ToolPen, penStyle(), Pt(10, 30), Pt(50, 30))
			require.NoError(t, b.Undo())
			require.NoError(t, b.Undo())
			require.Equal(t, 2, b.RedoDepth())

			require.NoError(t, b.BeginGesture(Pt(5, 5), tool, penStyle()))
			assert.Zero(t, b.RedoDepth())
			assert.Equal(t, 1, b.UndoDepth())
		})
	}
}

func TestEraseAllClearsBufferAndHistory(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
	stroke(t, b, ToolCircle, penStyle(), Pt(60, 40), Pt(80, 40))
	require.NoError(t, b.Undo())
	require.NotZero(t, b.UndoDepth())
	require.NotZero(t, b.RedoDepth())

	require.NoError(t, b.EraseAll())
	assert.True(t, isBlank(b.Image()))
	assert.Zero(t, b.UndoDepth())
	assert.Zero(t, b.RedoDepth())
	assert.False(t, b.Active())

	// Undo cannot bring anything back.
	require.NoError(t, b.Undo())
	assert.True(t, isBlank(b.Image()))
}

func TestEraseAllTool(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
	require.NoError(t, b.BeginGesture(Pt(1, 1), ToolEraseAll, penStyle()))
	assert.False(t, b.Active())
	assert.True(t, isBlank(b.Image()))
	assert.Zero(t, b.UndoDepth())

	// The following move and release belong to no gesture.
	require.NoError(t, b.ContinueGesture(Pt(40, 40)))
	require.NoError(t, b.EndGesture())
	assert.True(t, isBlank(b.Image()))
}

func TestPreviewToolsLeaveOneShape(t *testing.T) {
	drags := []Point{Pt(40, 40), Pt(100, 30), Pt(70, 10), Pt(30, 60)}
	for _, tool := range []Tool{ToolRectangle, ToolCircle, ToolArrow} {
		t.Run(tool.String(), func(t *testing.T) {
			dragged := newTestBoard(t, Options{})
			stroke(t, dragged, ToolPen, penStyle(), Pt(0, 75), Pt(119, 75))
			stroke(t, dragged, tool, penStyle(), append([]Point{Pt(20, 20)}, drags...)...)

			direct := newTestBoard(t, Options{})
			stroke(t, direct, ToolPen, penStyle(), Pt(0, 75), Pt(119, 75))
			stroke(t, direct, tool, penStyle(), Pt(20, 20), drags[len(drags)-1])

			assert.Equal(t, direct.Image().Pix, dragged.Image().Pix)
			assert.Equal(t, 2, dragged.UndoDepth())
		})
	}
}

func TestShapesIgnoreBrushSize(t *testing.T) {
	thin := newTestBoard(t, Options{})
	thick := newTestBoard(t, Options{})
	style := penStyle()
	stroke(t, thin, ToolRectangle, style, Pt(10, 10), Pt(60, 50))
	style.BrushSize = 20
	stroke(t, thick, ToolRectangle, style, Pt(10, 10), Pt(60, 50))
	assert.Equal(t, thin.Image().Pix, thick.Image().Pix)
}

func TestCircleRadiusIsDistanceFromAnchor(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolCircle, penStyle(), Pt(60, 40), Pt(84, 58))
	img := b.Image()
	// radius 30
	assert.True(t, dark(img, 90, 40))
	assert.True(t, dark(img, 60, 10))
	assert.Equal(t, byte(255), img.RGBAAt(60, 40).R)
	assert.Equal(t, byte(255), img.RGBAAt(72, 49).R)
}

func TestArrowBarbs(t *testing.T) {
	left, right := raster.ArrowHead(Pt(0, 0), Pt(100, 0), ArrowHeadLength, ArrowHeadAngle)
	assert.InDelta(t, 100-10*0.8660254037844386, left.X, 1e-9)
	assert.InDelta(t, 5, left.Y, 1e-9)
	assert.InDelta(t, 100-10*0.8660254037844386, right.X, 1e-9)
	assert.InDelta(t, -5, right.Y, 1e-9)

	b := newTestBoard(t, Options{})
	stroke(t, b, ToolArrow, penStyle(), Pt(10, 40), Pt(100, 40))
	img := b.Image()
	assert.True(t, dark(img, 50, 40))
	assert.False(t, img.RGBAAt(96, 42).R == 255 && img.RGBAAt(96, 38).R == 255)
}

func TestEraserPaintsBackgroundAtDoubleWidth(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
	require.True(t, dark(b.Image(), 30, 10))

	stroke(t, b, ToolEraser, penStyle(), Pt(5, 10), Pt(55, 10))
	img := b.Image()
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			c := img.RGBAAt(x, y)
			require.Truef(t, c.R > 250 && c.G > 250 && c.B > 250, "pixel %d,%d not erased: %v", x, y, c)
		}
	}
}

func TestDegenerateGesturesDrawNothing(t *testing.T) {
	for _, tool := range []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolArrow} {
		b := newTestBoard(t, Options{})
		stroke(t, b, tool, penStyle(), Pt(30, 30), Pt(30, 30))
		assert.Truef(t, isBlank(b.Image()), "tool %s", tool)
		assert.Equal(t, 1, b.UndoDepth())
	}
}

func TestOutOfCanvasPointsAreClipped(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(-50, -50), Pt(500, 500))
	stroke(t, b, ToolCircle, penStyle(), Pt(-10, 40), Pt(1000, 40))
	assert.True(t, dark(b.Image(), 40, 40))
}

func TestTextToolPlacesTextAtomically(t *testing.T) {
	b := newTestBoard(t, Options{})
	var commits []Commit
	b.OnCommit = func(c Commit) { commits = append(commits, c) }
	b.PromptText = func() (string, bool) { return "Hello", true }

	style := penStyle()
	style.Text = TextStyle{Size: 24, Weight: WeightBold, Underline: true, Family: "Georgia"}
	require.NoError(t, b.BeginGesture(Pt(10, 40), ToolText, style))
	assert.False(t, b.Active())
	assert.Equal(t, 1, b.UndoDepth())
	assert.False(t, isBlank(b.Image()))
	require.Len(t, commits, 1)
	assert.Equal(t, ToolText, commits[0].Tool)

	// Underline two pixels under the baseline.
	assert.True(t, dark(b.Image(), 12, 41))

	// Pointer events after a text gesture are ignored.
	before := pixels(b)
	require.NoError(t, b.ContinueGesture(Pt(90, 70)))
	require.NoError(t, b.EndGesture())
	assert.Equal(t, before, b.Image().Pix)
	assert.Len(t, commits, 1)

	require.NoError(t, b.Undo())
	assert.True(t, isBlank(b.Image()))
}

func TestAbortedTextHasNoSideEffects(t *testing.T) {
	prompts := map[string]func() (string, bool){
		"cancelled": func() (string, bool) { return "typed", false },
		"empty":     func() (string, bool) { return "", true },
		"blank":     func() (string, bool) { return "   ", true },
		"no prompt": nil,
	}
	for name, prompt := range prompts {
		t.Run(name, func(t *testing.T) {
			b := newTestBoard(t, Options{})
			stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
			require.NoError(t, b.Undo())
			before := pixels(b)

			b.PromptText = prompt
			require.NoError(t, b.BeginGesture(Pt(20, 40), ToolText, penStyle()))
			assert.Equal(t, before, b.Image().Pix)
			assert.Equal(t, 0, b.UndoDepth())
			assert.Equal(t, 1, b.RedoDepth())
			assert.False(t, b.Active())
		})
	}
}

func TestIdleEventsAreIgnored(t *testing.T) {
	b := newTestBoard(t, Options{})
	committed := 0
	b.OnCommit = func(Commit) { committed++ }
	require.NoError(t, b.ContinueGesture(Pt(10, 10)))
	require.NoError(t, b.EndGesture())
	assert.True(t, isBlank(b.Image()))
	assert.Zero(t, committed)
	assert.Zero(t, b.UndoDepth())
}

func TestCommitsAreNumberedAndCarrySnapshot(t *testing.T) {
	b := newTestBoard(t, Options{Compress: true})
	var commits []Commit
	b.OnCommit = func(c Commit) { commits = append(commits, c) }

	start := time.Now()
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))
	stroke(t, b, ToolArrow, penStyle(), Pt(10, 40), Pt(90, 40))

	require.Len(t, commits, 2)
	assert.Equal(t, uint64(1), commits[0].Seq)
	assert.Equal(t, uint64(2), commits[1].Seq)
	assert.Equal(t, ToolPen, commits[0].Tool)
	assert.Equal(t, ToolArrow, commits[1].Tool)
	assert.NotEmpty(t, commits[0].ID)
	assert.NotEqual(t, commits[0].ID, commits[1].ID)
	assert.False(t, commits[1].At.Before(start))

	img, err := commits[1].Snapshot.Image()
	require.NoError(t, err)
	assert.Equal(t, b.Image().Pix, img.Pix)
}

func TestGestureAbandonedByUndo(t *testing.T) {
	b := newTestBoard(t, Options{})
	require.NoError(t, b.BeginGesture(Pt(10, 10), ToolPen, penStyle()))
	require.NoError(t, b.ContinueGesture(Pt(60, 10)))
	require.True(t, b.Active())

	require.NoError(t, b.Undo())
	assert.False(t, b.Active())
	assert.True(t, isBlank(b.Image()))
	assert.Equal(t, 1, b.RedoDepth())
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	b := newTestBoard(t, Options{HistoryLimit: 2})
	var states [][]byte
	for i := 0; i < 3; i++ {
		y := float64(10 + 20*i)
		stroke(t, b, ToolPen, penStyle(), Pt(10, y), Pt(100, y))
		states = append(states, pixels(b))
	}
	assert.Equal(t, 2, b.UndoDepth())

	require.NoError(t, b.Undo())
	require.NoError(t, b.Undo())
	assert.Equal(t, states[0], b.Image().Pix)
	require.NoError(t, b.Undo())
	assert.Equal(t, states[0], b.Image().Pix, "oldest state is gone")
	assert.Equal(t, 2, b.RedoDepth())
}

func TestSnapshotCompression(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	raw := capture(img, false)
	packed := capture(img, true)
	assert.False(t, raw.Compressed())
	assert.True(t, packed.Compressed())
	assert.Equal(t, len(img.Pix), raw.Len())
	assert.Less(t, packed.Len(), raw.Len())

	out, err := packed.Image()
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)
	assert.Equal(t, image.Pt(64, 64), packed.Size())
}

func TestSnapshotMismatch(t *testing.T) {
	small := capture(image.NewRGBA(image.Rect(0, 0, 10, 10)), true)
	err := small.restore(image.NewRGBA(image.Rect(0, 0, 20, 10)))
	assert.ErrorIs(t, err, ErrSnapshotMismatch)
}

func TestUnavailableSurface(t *testing.T) {
	check := func(t *testing.T, b *Board) {
		assert.ErrorIs(t, b.BeginGesture(Pt(1, 1), ToolPen, penStyle()), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.ContinueGesture(Pt(1, 1)), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.EndGesture(), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.EraseAll(), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.Undo(), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.Redo(), ErrSurfaceUnavailable)
		assert.ErrorIs(t, b.Save(), ErrSurfaceUnavailable)
		_, err := b.ExportSnapshot()
		assert.ErrorIs(t, err, ErrSurfaceUnavailable)
		_, err = b.Attach(&fakeSurface{}, fakeControls{})
		assert.ErrorIs(t, err, ErrSurfaceUnavailable)
		assert.Nil(t, b.Image())
		assert.True(t, b.Bounds().Empty())
	}

	t.Run("zero value", func(t *testing.T) { check(t, &Board{}) })
	t.Run("closed", func(t *testing.T) {
		b, err := NewBoard(10, 10, Options{})
		require.NoError(t, err)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
		check(t, b)
	})
}

func TestInvalidToolIsRejected(t *testing.T) {
	b := newTestBoard(t, Options{})
	assert.Error(t, b.BeginGesture(Pt(1, 1), Tool(42), penStyle()))
	assert.Zero(t, b.UndoDepth())
}

func TestSaveHandsPNGToCallback(t *testing.T) {
	b := newTestBoard(t, Options{})
	stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(50, 10))

	got := make(chan []byte, 1)
	b.OnSave = func(data []byte) { got <- data }
	require.NoError(t, b.Save())

	select {
	case data := <-got:
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, b.Bounds(), img.Bounds())
		r, _, _, _ := img.At(30, 10).RGBA()
		assert.Less(t, r, uint32(40*0x101))
	case <-time.After(5 * time.Second):
		t.Fatal("save callback not invoked")
	}
}

func TestSaveWithoutHandler(t *testing.T) {
	b := newTestBoard(t, Options{})
	assert.NoError(t, b.Save())
}

type fakeSurface struct {
	handler PointerHandler
	sets    int
}

func (s *fakeSurface) SetPointerHandler(h PointerHandler) {
	s.handler = h
	s.sets++
}

func (s *fakeSurface) PointerHandler() PointerHandler { return s.handler }

type fakeControls struct {
	tool  Tool
	style Style
}

func (c fakeControls) Tool() Tool   { return c.tool }
func (c fakeControls) Style() Style { return c.style }

func TestAttachRoutesPointerEvents(t *testing.T) {
	b := newTestBoard(t, Options{})
	surface := &fakeSurface{}
	sub, err := b.Attach(surface, fakeControls{tool: ToolPen, style: penStyle()})
	require.NoError(t, err)
	require.NotNil(t, surface.handler)

	h := surface.handler
	h.PointerDown(Pt(10, 10))
	assert.True(t, b.Active())
	h.PointerMove(Pt(50, 10))
	h.PointerUp()
	assert.False(t, b.Active())
	assert.True(t, dark(b.Image(), 30, 10))
	assert.Equal(t, 1, b.UndoDepth())

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Nil(t, surface.handler)
	assert.Equal(t, 2, surface.sets)

	before := pixels(b)
	h.PointerDown(Pt(10, 30))
	h.PointerMove(Pt(50, 30))
	h.PointerUp()
	assert.Equal(t, before, b.Image().Pix)
	assert.Equal(t, 1, b.UndoDepth())
}

func TestCloseDetachesSurfaces(t *testing.T) {
	b, err := NewBoard(10, 10, Options{})
	require.NoError(t, err)
	surface := &fakeSurface{}
	_, err = b.Attach(surface, fakeControls{tool: ToolPen, style: penStyle()})
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.Nil(t, surface.handler)
}

func TestAttachNeedsSurfaceAndControls(t *testing.T) {
	b := newTestBoard(t, Options{})
	_, err := b.Attach(nil, fakeControls{})
	assert.Error(t, err)
	_, err = b.Attach(&fakeSurface{}, nil)
	assert.Error(t, err)
}

func TestClosingStaleSubscriptionKeepsNewerHandler(t *testing.T) {
	first := newTestBoard(t, Options{})
	second := newTestBoard(t, Options{})
	surface := &fakeSurface{}

	sub1, err := first.Attach(surface, fakeControls{tool: ToolPen, style: penStyle()})
	require.NoError(t, err)
	_, err = second.Attach(surface, fakeControls{tool: ToolPen, style: penStyle()})
	require.NoError(t, err)
	live := surface.handler

	require.NoError(t, sub1.Close())
	require.NotNil(t, surface.handler)
	assert.Same(t, live, surface.handler)

	surface.handler.PointerDown(Pt(10, 10))
	surface.handler.PointerMove(Pt(50, 10))
	surface.handler.PointerUp()
	assert.True(t, dark(second.Image(), 30, 10))
	assert.True(t, isBlank(first.Image()))

	require.NoError(t, second.Close())
	assert.Nil(t, surface.handler)
}

func TestFarOffCanvasGeometryIsClipped(t *testing.T) {
	shape := Style{Color: color.NRGBA{A: 255}, BrushSize: 5}
	for _, far := range []float64{1e6, 1e12, 1e19, 1e20, 1e300} {
		b := newTestBoard(t, Options{})

		stroke(t, b, ToolPen, penStyle(), Pt(10, 10), Pt(far, 10))
		assert.Truef(t, dark(b.Image(), 60, 10), "pen to x=%g", far)
		assert.Truef(t, dark(b.Image(), 115, 10), "pen to x=%g", far)

		stroke(t, b, ToolPen, penStyle(), Pt(110, 30), Pt(-far, 30))
		assert.Truef(t, dark(b.Image(), 60, 30), "pen to x=-%g", far)

		stroke(t, b, ToolPen, penStyle(), Pt(100, 5), Pt(100, far))
		assert.Truef(t, dark(b.Image(), 100, 70), "pen to y=%g", far)

		stroke(t, b, ToolArrow, shape, Pt(10, 60), Pt(far, 60))
		assert.Truef(t, dark(b.Image(), 60, 60), "arrow to x=%g", far)
	}
}

func TestFarOffCanvasRectangleKeepsVisibleEdges(t *testing.T) {
	shape := Style{Color: color.NRGBA{A: 255}, BrushSize: 5}
	for _, far := range []float64{1e12, 1e19, 1e20, math.MaxFloat64 / 4} {
		b := newTestBoard(t, Options{})
		stroke(t, b, ToolRectangle, shape, Pt(10, 10), Pt(far, far))
		assert.Truef(t, dark(b.Image(), 10, 40), "left edge, corner %g", far)
		assert.Truef(t, dark(b.Image(), 60, 10), "top edge, corner %g", far)
		assert.Falsef(t, dark(b.Image(), 60, 40), "inside, corner %g", far)
	}
}
