package dom

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/pkg/idgen"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// WithWatermarkState runs fn with the watermark overlay nodes in the given
// visibility state. Free exports leave the overlay as rendered (visible);
// entitled exports hide it for the duration of fn and restore it
// unconditionally afterwards, success or failure. The pipeline inside fn is
// watermark-agnostic.
func (m *Manager) WithWatermarkState(ctx context.Context, selector string, visible bool, fn func() error) error {
	if visible {
		return fn()
	}
	if err := m.ensureRuntime(ctx); err != nil {
		return err
	}
	token := idgen.NewSnapshotToken()

	expr := fmt.Sprintf(`(() => {
		const nodes = document.querySelectorAll(%q);
		for (const el of nodes) {
			window.__rf.save(%q, el, ['display']);
			window.__rf.apply(el, {'display': 'none'});
		}
		return nodes.length;
	})()`, selector, token)

	var hidden int
	if err := m.eval.Evaluate(ctx, expr, &hidden); err != nil {
		return err
	}
	defer func() {
		// Restore must not depend on fn's outcome. A failed restore is
		// logged; the page is torn down after the export anyway.
		if err := m.Restore(context.WithoutCancel(ctx), token); err != nil {
			logger.Error("Failed to restore watermark visibility",
				zap.String("token", token),
				zap.Error(err),
			)
		}
	}()

	if hidden > 0 {
		if err := m.settle(ctx); err != nil {
			return err
		}
	}
	return fn()
}
