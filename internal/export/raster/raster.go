// Package raster turns the export target into a validated bitmap. It owns
// the capture timeout and the single reduced-fidelity retry.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/internal/export/browser"
	"github.com/resumeforge/resumeforge/internal/export/dom"
	apperrors "github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/telemetry"
)

// Result is a validated bitmap. Width and height are always positive.
type Result struct {
	// Data is the PNG-encoded capture.
	Data []byte
	// Width and Height are the bitmap's pixel dimensions.
	Width  int
	Height int
	// Scale is the device scale factor the capture was taken at.
	Scale float64
	// Retried is true when the result came from the reduced-scale retry.
	Retried bool
}

// CSSWidth returns the capture width in CSS pixels. The bitmap is Scale
// times larger than the on-screen content it represents.
func (r *Result) CSSWidth() float64 {
	if r.Scale <= 0 {
		return float64(r.Width)
	}
	return float64(r.Width) / r.Scale
}

// CSSHeight returns the capture height in CSS pixels.
func (r *Result) CSSHeight() float64 {
	if r.Scale <= 0 {
		return float64(r.Height)
	}
	return float64(r.Height) / r.Scale
}

// Options configure one rasterization.
type Options struct {
	// Scale is the device scale factor of the first attempt.
	Scale float64
	// Timeout bounds the first attempt.
	Timeout time.Duration
	// RetryScale is the reduced scale used after a timeout.
	RetryScale float64
	// RetryTimeout bounds the retry attempt.
	RetryTimeout time.Duration
}

// DefaultOptions returns the standard 2x capture with a 45s budget and a
// 1x/60s retry.
func DefaultOptions() Options {
	return Options{
		Scale:        2.0,
		Timeout:      45 * time.Second,
		RetryScale:   1.0,
		RetryTimeout: 60 * time.Second,
	}
}

// coercer is the slice of dom.Manager the rasterizer needs.
type coercer interface {
	CoerceVisible(ctx context.Context, selector string, widthPx int) (dom.CoerceResult, error)
	Restore(ctx context.Context, token string) error
}

// Rasterizer captures the export target through a browser page.
type Rasterizer struct {
	capt    browser.Capturer
	dom     coercer
	widthPx int
}

// New creates a rasterizer. widthPx is the fixed page width the target is
// coerced to when hidden.
func New(capt browser.Capturer, dom coercer, widthPx int) *Rasterizer {
	return &Rasterizer{capt: capt, dom: dom, widthPx: widthPx}
}

// Rasterize captures the element matched by selector. A hidden or zero-size
// target is coerced visible first and every coercion mutation is restored
// on all exit paths. A capture that exceeds its timeout is retried exactly
// once at the reduced scale; any other failure propagates immediately.
func (r *Rasterizer) Rasterize(ctx context.Context, selector string, opts Options) (*Result, error) {
	coerced, err := r.dom.CoerceVisible(ctx, selector, r.widthPx)
	if err != nil {
		if coerced.Token != "" {
			r.restore(ctx, coerced.Token)
		}
		return nil, err
	}
	if coerced.Token != "" {
		defer r.restore(ctx, coerced.Token)
	}

	result, err := r.attempt(ctx, selector, opts.Scale, opts.Timeout)
	if err == nil {
		result.Retried = false
		return result, nil
	}
	if !isAttemptTimeout(ctx, err) {
		return nil, err
	}

	logger.Warn("Rasterization timed out, retrying at reduced scale",
		zap.String("selector", selector),
		zap.Float64("scale", opts.Scale),
		zap.Float64("retry_scale", opts.RetryScale),
		zap.Duration("retry_timeout", opts.RetryTimeout),
	)
	telemetry.GetMetrics().RecordRasterRetry(ctx)

	result, retryErr := r.attempt(ctx, selector, opts.RetryScale, opts.RetryTimeout)
	if retryErr != nil {
		if isAttemptTimeout(ctx, retryErr) {
			return nil, apperrors.Wrap(apperrors.ErrCodeRasterTimeout,
				"rasterization timed out twice", retryErr)
		}
		return nil, retryErr
	}
	result.Retried = true
	return result, nil
}

// attempt runs one bounded capture and validates the bitmap.
func (r *Rasterizer) attempt(ctx context.Context, selector string, scale float64, timeout time.Duration) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := r.capt.CaptureElement(attemptCtx, selector, scale)
	if err != nil {
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeRasterTimeout,
				fmt.Sprintf("rasterization exceeded %s", timeout), err)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeRasterEmpty, "rasterization produced no data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRasterEmpty, "rasterization produced an undecodable bitmap", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeRasterEmpty,
			fmt.Sprintf("rasterization produced a degenerate %dx%d bitmap", cfg.Width, cfg.Height))
	}

	return &Result{Data: data, Width: cfg.Width, Height: cfg.Height, Scale: scale}, nil
}

// restore reverts coercion without inheriting a possibly expired deadline.
func (r *Rasterizer) restore(ctx context.Context, token string) {
	if err := r.dom.Restore(context.WithoutCancel(ctx), token); err != nil {
		logger.Error("Failed to restore coerced styles",
			zap.String("token", token),
			zap.Error(err),
		)
	}
}

// isAttemptTimeout reports whether err is this attempt's deadline rather
// than the caller's cancellation or an unrelated failure.
func isAttemptTimeout(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Code == apperrors.ErrCodeRasterTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}
