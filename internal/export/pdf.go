package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const canvasImage = "canvas"

// newPDF lays the image out on a single page of exactly its size, one point
// per pixel.
func newPDF(img image.Image) (*gofpdf.Fpdf, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("export: empty image %v", b)
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("exacldraw", true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(canvasImage, opts, bytes.NewReader(data))
	p.ImageOptions(canvasImage, 0, 0, w, h, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("export: build pdf: %w", err)
	}
	return p, nil
}

// WritePDF writes img as a one-page PDF to w.
func WritePDF(w io.Writer, img image.Image) error {
	p, err := newPDF(img)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

// WritePDFFile writes img as a one-page PDF to path.
func WritePDFFile(path string, img image.Image) error {
	p, err := newPDF(img)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
