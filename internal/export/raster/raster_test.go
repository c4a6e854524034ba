package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/export/dom"
	apperrors "github.com/resumeforge/resumeforge/pkg/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type captureCall struct {
	selector string
	scale    float64
}

type captureResponse struct {
	data []byte
	err  error
}

type fakeCapturer struct {
	calls     []captureCall
	responses []captureResponse
}

func (f *fakeCapturer) CaptureElement(_ context.Context, selector string, scale float64) ([]byte, error) {
	f.calls = append(f.calls, captureCall{selector: selector, scale: scale})
	if len(f.responses) == 0 {
		return nil, assert.AnError
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.data, resp.err
}

type fakeCoercer struct {
	result       dom.CoerceResult
	err          error
	restored     []string
	coerceCalled int
}

func (f *fakeCoercer) CoerceVisible(_ context.Context, _ string, _ int) (dom.CoerceResult, error) {
	f.coerceCalled++
	return f.result, f.err
}

func (f *fakeCoercer) Restore(_ context.Context, token string) error {
	f.restored = append(f.restored, token)
	return nil
}

func testOptions() Options {
	return Options{
		Scale:        2.0,
		Timeout:      time.Second,
		RetryScale:   1.0,
		RetryTimeout: 2 * time.Second,
	}
}

func TestRasterize_Success(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{data: pngBytes(t, 1588, 2100)},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	result, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.NoError(t, err)

	assert.Equal(t, 1588, result.Width)
	assert.Equal(t, 2100, result.Height)
	assert.Equal(t, 2.0, result.Scale)
	assert.False(t, result.Retried)
	require.Len(t, capt.calls, 1)
	assert.Equal(t, 2.0, capt.calls[0].scale)
}

func TestRasterize_RetriesOnceAfterTimeout(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{err: context.DeadlineExceeded},
		{data: pngBytes(t, 794, 1050)},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	result, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.NoError(t, err)

	assert.True(t, result.Retried)
	assert.Equal(t, 1.0, result.Scale)
	require.Len(t, capt.calls, 2)
	assert.Equal(t, 2.0, capt.calls[0].scale)
	assert.Equal(t, 1.0, capt.calls[1].scale)
}

func TestRasterize_SecondTimeoutIsFinal(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{err: context.DeadlineExceeded},
		{err: context.DeadlineExceeded},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRasterTimeout, appErr.Code)
	assert.True(t, appErr.Retryable())
	// Exactly two attempts, never a third
	assert.Len(t, capt.calls, 2)
}

func TestRasterize_NonTimeoutErrorDoesNotRetry(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{err: assert.AnError},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.Error(t, err)
	assert.Len(t, capt.calls, 1)
}

func TestRasterize_EmptyBitmapFails(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{data: []byte{}},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRasterEmpty, appErr.Code)
	// Resource exhaustion is not retried
	assert.Len(t, capt.calls, 1)
}

func TestRasterize_UndecodableBitmapFails(t *testing.T) {
	capt := &fakeCapturer{responses: []captureResponse{
		{data: []byte("not a png")},
	}}
	r := New(capt, &fakeCoercer{}, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRasterEmpty, appErr.Code)
}

func TestRasterize_RestoresCoercionOnFailure(t *testing.T) {
	coercer := &fakeCoercer{result: dom.CoerceResult{Token: "tok-1", Mutated: true}}
	capt := &fakeCapturer{responses: []captureResponse{
		{err: assert.AnError},
	}}
	r := New(capt, coercer, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.Error(t, err)
	assert.Equal(t, []string{"tok-1"}, coercer.restored)
}

func TestRasterize_RestoresCoercionOnSuccess(t *testing.T) {
	coercer := &fakeCoercer{result: dom.CoerceResult{Token: "tok-2", Mutated: true}}
	capt := &fakeCapturer{responses: []captureResponse{
		{data: pngBytes(t, 100, 100)},
	}}
	r := New(capt, coercer, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, coercer.restored)
}

func TestRasterize_NoRestoreWhenNotMutated(t *testing.T) {
	coercer := &fakeCoercer{result: dom.CoerceResult{Mutated: false}}
	capt := &fakeCapturer{responses: []captureResponse{
		{data: pngBytes(t, 100, 100)},
	}}
	r := New(capt, coercer, 794)

	_, err := r.Rasterize(context.Background(), "#resume-root", testOptions())
	require.NoError(t, err)
	assert.Empty(t, coercer.restored)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 2.0, opts.Scale)
	assert.Equal(t, 45*time.Second, opts.Timeout)
	assert.Equal(t, 1.0, opts.RetryScale)
	assert.Equal(t, 60*time.Second, opts.RetryTimeout)
}

func TestResult_CSSDimensions(t *testing.T) {
	cases := []struct {
		name   string
		result Result
		wantW  float64
		wantH  float64
	}{
		{"two x", Result{Width: 1588, Height: 2246, Scale: 2.0}, 794, 1123},
		{"one x", Result{Width: 794, Height: 1123, Scale: 1.0}, 794, 1123},
		{"zero scale falls back to raw", Result{Width: 640, Height: 480}, 640, 480},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantW, tt.result.CSSWidth(), 0.001)
			assert.InDelta(t, tt.wantH, tt.result.CSSHeight(), 0.001)
		})
	}
}
