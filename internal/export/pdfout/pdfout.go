// Package pdfout assembles the final single-page PDF: one JPEG-encoded
// raster on one fixed-size A4 page, full-bleed. The single-page invariant
// is enforced upstream by measurement and layout fitting; this package
// never paginates.
package pdfout

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/resumeforge/resumeforge/internal/export/layout"
	"github.com/resumeforge/resumeforge/pkg/errors"
)

// DefaultJPEGQuality matches the fixed export encode quality.
const DefaultJPEGQuality = 98

// Assembler writes single-page A4 PDFs.
type Assembler struct {
	quality int
}

// New creates an assembler with the given JPEG quality (1-100); out of
// range selects the default.
func New(quality int) *Assembler {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Assembler{quality: quality}
}

// Assemble embeds the raster into one A4 page using the layout decision
// verbatim and returns the PDF bytes.
func (a *Assembler) Assemble(rasterPNG []byte, d layout.PageLayoutDecision) ([]byte, error) {
	jpegData, err := a.encodeJPEG(rasterPNG)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "JPEG"}
	pdf.RegisterImageOptionsReader("raster", opts, bytes.NewReader(jpegData))
	pdf.ImageOptions("raster", d.OffsetXMm, d.OffsetYMm, d.WidthMm, d.HeightMm, false, opts, 0, "")

	if pdf.Err() {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "pdf assembly failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "pdf output failed", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "pdf output was empty")
	}
	return buf.Bytes(), nil
}

// encodeJPEG flattens the raster onto an opaque white background and
// encodes it at the fixed quality. Flattening keeps transparent-background
// templates print-safe.
func (a *Assembler) encodeJPEG(rasterPNG []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(rasterPNG))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "failed to decode raster", err)
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: a.quality}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "jpeg encoding failed", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "jpeg encoder produced no output")
	}
	return buf.Bytes(), nil
}
