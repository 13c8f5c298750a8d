package state

import (
	"fmt"
	"image"
	"slices"

	"github.com/golang/snappy"
)

// Snapshot is an immutable copy of the canvas pixels.
type Snapshot struct {
	width, height int
	compressed    bool
	data          []byte
}

func capture(img *image.RGBA, compress bool) Snapshot {
	s := Snapshot{width: img.Rect.Dx(), height: img.Rect.Dy(), compressed: compress}
	if compress {
		s.data = snappy.Encode(nil, img.Pix)
	} else {
		s.data = slices.Clone(img.Pix)
	}
	return s
}

// Size is the dimension of the captured canvas.
func (s Snapshot) Size() image.Point { return image.Pt(s.width, s.height) }

// Compressed reports whether the pixels are stored snappy-encoded.
func (s Snapshot) Compressed() bool { return s.compressed }

// Len is the number of bytes the snapshot occupies.
func (s Snapshot) Len() int { return len(s.data) }

// Image decodes the snapshot into a new RGBA image.
func (s Snapshot) Image() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if err := s.restore(img); err != nil {
		return nil, err
	}
	return img, nil
}

// restore overwrites dst with the snapshot pixels.
func (s Snapshot) restore(dst *image.RGBA) error {
	if dst.Rect.Dx() != s.width || dst.Rect.Dy() != s.height || len(dst.Pix) != 4*s.width*s.height {
		return fmt.Errorf("%w: snapshot %dx%d, canvas %dx%d",
			ErrSnapshotMismatch, s.width, s.height, dst.Rect.Dx(), dst.Rect.Dy())
	}
	if !s.compressed {
		copy(dst.Pix, s.data)
		return nil
	}
	n, err := snappy.DecodedLen(s.data)
	if err != nil {
		return fmt.Errorf("state: decode snapshot: %w", err)
	}
	if n != len(dst.Pix) {
		return fmt.Errorf("%w: snapshot holds %d bytes, canvas %d", ErrSnapshotMismatch, n, len(dst.Pix))
	}
	if _, err := snappy.Decode(dst.Pix, s.data); err != nil {
		return fmt.Errorf("state: decode snapshot: %w", err)
	}
	return nil
}

// history is the pair of undo and redo stacks, most recent last. A positive
// limit bounds each stack by discarding its oldest entries.
type history struct {
	undo, redo []Snapshot
	limit      int
}

func newHistory(limit int) *history {
	if limit < 0 {
		limit = 0
	}
	return &history{limit: limit}
}

func (h *history) bound(stack []Snapshot) []Snapshot {
	if h.limit > 0 && len(stack) > h.limit {
		stack = slices.Delete(stack, 0, len(stack)-h.limit)
	}
	return stack
}

func (h *history) pushUndo(s Snapshot) { h.undo = h.bound(append(h.undo, s)) }

func (h *history) pushRedo(s Snapshot) { h.redo = h.bound(append(h.redo, s)) }

func (h *history) popUndo() (Snapshot, bool) { return pop(&h.undo) }

func (h *history) popRedo() (Snapshot, bool) { return pop(&h.redo) }

func (h *history) topUndo() (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	return h.undo[len(h.undo)-1], true
}

func (h *history) clearRedo() {
	clear(h.redo)
	h.redo = h.redo[:0]
}

func (h *history) reset() {
	clear(h.undo)
	h.undo = h.undo[:0]
	h.clearRedo()
}

func pop(stack *[]Snapshot) (Snapshot, bool) {
	n := len(*stack)
	if n == 0 {
		return Snapshot{}, false
	}
	s := (*stack)[n-1]
	(*stack)[n-1] = Snapshot{}
	*stack = (*stack)[:n-1]
	return s, true
}
