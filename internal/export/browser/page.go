package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

// Page is one loaded export document in its own browser tab. It implements
// Evaluator and Capturer for the pipeline.
type Page struct {
	ctx     context.Context
	cancel  context.CancelFunc
	tmpPath string
}

// Evaluate runs a JavaScript expression and unmarshals its result into out.
// Pass nil when the result is irrelevant.
func (p *Page) Evaluate(ctx context.Context, expr string, out interface{}) error {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	var action chromedp.Action
	if out == nil {
		action = chromedp.Evaluate(expr, nil)
	} else {
		action = chromedp.Evaluate(expr, out)
	}
	if err := chromedp.Run(runCtx, action); err != nil {
		return errors.Wrap(errors.ErrCodePageEvaluation, "page evaluation failed", err)
	}
	return nil
}

// CaptureElement screenshots the element matched by selector. The clip is
// taken from the element's bounding box; scale is the device scale factor.
func (p *Page) CaptureElement(ctx context.Context, selector string, scale float64) ([]byte, error) {
	runCtx, cancel := p.bind(ctx)
	defer cancel()

	// Resolve the element box in CSS pixels before clipping
	var box struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	boxExpr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return {x: r.x + window.scrollX, y: r.y + window.scrollY, width: r.width, height: r.height};
	})()`, selector)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(boxExpr, &box)); err != nil {
		return nil, errors.Wrap(errors.ErrCodePageEvaluation, "failed to resolve capture target", err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, errors.New(errors.ErrCodeRasterEmpty,
			fmt.Sprintf("capture target %s has zero area", selector))
	}

	var data []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		// Composite onto opaque white so a transparent page background
		// can never leak into the capture.
		if err := emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}).
			Do(ctx); err != nil {
			return err
		}
		var err error
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithClip(&page.Viewport{
				X:      box.X,
				Y:      box.Y,
				Width:  box.Width,
				Height: box.Height,
				Scale:  scale,
			}).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close releases the tab and removes the backing temp file.
func (p *Page) Close() {
	p.cancel()
	if p.tmpPath != "" {
		os.Remove(p.tmpPath)
	}
}

// bind merges the caller's deadline into the page context so a per-attempt
// timeout cancels the CDP call without killing the tab.
func (p *Page) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(p.ctx, deadline)
	}
	return context.WithCancel(p.ctx)
}
