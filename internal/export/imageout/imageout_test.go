package imageout

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatPNG},
		{in: "png", want: FormatPNG},
		{in: "jpeg", want: FormatJPEG},
		{in: "jpg", want: FormatJPEG},
		{in: "webp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_PNG(t *testing.T) {
	e := New(98)
	out, err := e.Encode(pngBytes(t, 120, 80, color.White), FormatPNG)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestEncode_JPEGFlattensTransparency(t *testing.T) {
	e := New(98)
	out, err := e.Encode(pngBytes(t, 60, 40, color.RGBA{0, 0, 0, 0}), FormatJPEG)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// Transparent input lands on opaque white
	r, g, b, _ := img.At(30, 20).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestEncode_PNGFlattensTransparency(t *testing.T) {
	e := New(98)
	out, err := e.Encode(pngBytes(t, 60, 40, color.RGBA{0, 0, 0, 0}), FormatPNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// Transparent input lands on opaque white, alpha included
	r, g, b, a := img.At(30, 20).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0xf000))
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestEncode_InvalidRaster(t *testing.T) {
	e := New(98)
	_, err := e.Encode([]byte("garbage"), FormatPNG)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEncodeFailed, appErr.Code)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "image/png", FormatPNG.ContentType())
	assert.Equal(t, "image/jpeg", FormatJPEG.ContentType())
	assert.Equal(t, "png", FormatPNG.Extension())
	assert.Equal(t, "jpg", FormatJPEG.Extension())
}
