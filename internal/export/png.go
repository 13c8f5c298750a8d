// Package export encodes canvas snapshots for hand-off to storage.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG returns img encoded as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("export: nil image")
	}
	if err := encoder.Encode(w, img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// WritePNGFile writes img as PNG to path.
func WritePNGFile(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
