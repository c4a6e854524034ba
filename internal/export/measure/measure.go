// Package measure implements the overflow measurement engine: it answers
// whether rendered resume content would overflow the single-page height
// budget if nothing clipped it.
package measure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/internal/export/browser"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Report is the outcome of one overflow measurement.
type Report struct {
	// Overflow is true when either measurement exceeds the budget.
	Overflow bool
	// NaturalHeightPx is the unclipped height of the detached clone.
	NaturalHeightPx float64
	// FallbackHeightPx is the scroll height of the original container.
	FallbackHeightPx float64
	// BudgetPx is the single-page height budget the heights were
	// compared against.
	BudgetPx int
}

// Engine measures content against a fixed page budget.
type Engine struct {
	eval        browser.Evaluator
	budgetPx    int
	widthPx     int
	settleDelay time.Duration
}

// NewEngine creates a measurement engine. settleDelay zero selects the
// 150ms default.
func NewEngine(eval browser.Evaluator, budgetPx, widthPx int, settleDelay time.Duration) *Engine {
	if settleDelay <= 0 {
		settleDelay = 150 * time.Millisecond
	}
	return &Engine{eval: eval, budgetPx: budgetPx, widthPx: widthPx, settleDelay: settleDelay}
}

// Exceeds reports whether a measured height overflows the budget. Height
// exactly at the budget still fits; the first pixel past it overflows.
func Exceeds(heightPx float64, budgetPx int) bool {
	return heightPx > float64(budgetPx)
}

// MeasureOverflow measures the natural height of the subtree matched by
// selector. A deep clone is stripped of clipping (overflow, fixed height,
// max-height), parked in an off-screen zero-opacity container at the page
// width, left to settle, then measured. Because clone measurement can
// under-report for layouts that collapse when detached, a fits verdict is
// double-checked against the original container's scroll height; overflow
// from either source wins.
//
// The temporary container is removed on every exit path.
func (e *Engine) MeasureOverflow(ctx context.Context, selector string) (Report, error) {
	insertExpr := fmt.Sprintf(`(() => {
		const root = document.querySelector(%q);
		if (!root) return {found: false};
		const clone = root.cloneNode(true);
		const strip = (el) => {
			if (el.style) {
				el.style.setProperty('overflow', 'visible');
				el.style.setProperty('height', 'auto');
				el.style.setProperty('max-height', 'none');
			}
			for (const child of el.children || []) strip(child);
		};
		strip(clone);
		const cs = getComputedStyle(root);
		const holder = document.createElement('div');
		const holderStyle = {
			'position': 'absolute',
			'left': '-10000px',
			'top': '0px',
			'width': '%dpx',
			'opacity': '0',
			'pointer-events': 'none',
			'font-family': cs.fontFamily,
			'font-size': cs.fontSize,
			'line-height': cs.lineHeight,
			'color': cs.color
		};
		for (const p in holderStyle) holder.style.setProperty(p, holderStyle[p]);
		holder.appendChild(clone);
		document.body.appendChild(holder);
		window.__rfMeasure = {holder: holder};
		return {found: true};
	})()`, selector, e.widthPx)

	var inserted struct {
		Found bool `json:"found"`
	}
	if err := e.eval.Evaluate(ctx, insertExpr, &inserted); err != nil {
		return Report{}, err
	}
	if !inserted.Found {
		return Report{}, errors.New(errors.ErrCodePageEvaluation,
			fmt.Sprintf("measurement target %s not found", selector))
	}

	// Cleanup runs regardless of how measurement ends below
	defer func() {
		cleanupExpr := `(() => {
			const m = window.__rfMeasure;
			if (m) {
				m.holder.remove();
				delete window.__rfMeasure;
			}
		})()`
		if err := e.eval.Evaluate(context.WithoutCancel(ctx), cleanupExpr, nil); err != nil {
			logger.Error("Failed to remove measurement container", zap.Error(err))
		}
	}()

	if err := e.settle(ctx); err != nil {
		return Report{}, err
	}

	readExpr := fmt.Sprintf(`(() => {
		const m = window.__rfMeasure;
		if (!m) return null;
		const original = document.querySelector(%q);
		return {
			natural: m.holder.scrollHeight,
			fallback: original ? original.scrollHeight : 0
		};
	})()`, selector)

	var heights struct {
		Natural  float64 `json:"natural"`
		Fallback float64 `json:"fallback"`
	}
	if err := e.eval.Evaluate(ctx, readExpr, &heights); err != nil {
		return Report{}, err
	}

	report := Report{
		NaturalHeightPx:  heights.Natural,
		FallbackHeightPx: heights.Fallback,
		BudgetPx:         e.budgetPx,
		Overflow: Exceeds(heights.Natural, e.budgetPx) ||
			Exceeds(heights.Fallback, e.budgetPx),
	}

	logger.Debug("Overflow measured",
		zap.Float64("natural_height_px", report.NaturalHeightPx),
		zap.Float64("fallback_height_px", report.FallbackHeightPx),
		zap.Int("budget_px", report.BudgetPx),
		zap.Bool("overflow", report.Overflow),
	)
	return report, nil
}

func (e *Engine) settle(ctx context.Context) error {
	timer := time.NewTimer(e.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
