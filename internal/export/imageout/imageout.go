// Package imageout terminates the export pipeline in a standalone image
// artifact instead of a PDF page.
package imageout

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

// Format is an image export format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat maps a user-supplied format name, defaulting to PNG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", errors.New(errors.ErrCodeValidation, "unsupported image format: "+s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Extension returns the filename extension for the format.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// Encoder encodes raster captures into export artifacts.
type Encoder struct {
	quality int
}

// New creates an encoder; quality applies to JPEG output only.
func New(quality int) *Encoder {
	if quality < 1 || quality > 100 {
		quality = 98
	}
	return &Encoder{quality: quality}
}

// Encode converts the PNG raster into the requested format. Both formats
// flatten onto opaque white so transparency can never reach a printed
// artifact. An encoder that produces no bytes is an explicit failure,
// never a silent no-op.
func (e *Encoder) Encode(rasterPNG []byte, format Format) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(rasterPNG))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "failed to decode raster", err)
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, flat, &jpeg.Options{Quality: e.quality})
	case FormatPNG:
		err = png.Encode(&buf, flat)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unsupported image format: "+string(format))
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "image encoding failed", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEncodeFailed, "image encoder produced no output")
	}
	return buf.Bytes(), nil
}
