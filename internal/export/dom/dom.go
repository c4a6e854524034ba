// Package dom drives style mutation in the export page: scoped style
// snapshots, visibility coercion and the watermark toggle. All mutation is
// applied property by property and reverted from saved values, so no exit
// path can leave the page with concatenated or partially rebuilt styles.
package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/export/browser"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/idgen"
)

// StylePatch is a set of CSS property values applied to one node. Saved
// originals are recorded per property before the patch is applied.
type StylePatch map[string]string

// Manager owns the page-side snapshot registry for one export page.
type Manager struct {
	eval        browser.Evaluator
	settleDelay time.Duration
	installed   bool
}

// NewManager creates a manager over the page evaluator. settleDelay is the
// layout settle wait after mutations; zero selects the 150ms default.
func NewManager(eval browser.Evaluator, settleDelay time.Duration) *Manager {
	if settleDelay <= 0 {
		settleDelay = 150 * time.Millisecond
	}
	return &Manager{eval: eval, settleDelay: settleDelay}
}

// ensureRuntime installs the registry script once per manager.
func (m *Manager) ensureRuntime(ctx context.Context) error {
	if m.installed {
		return nil
	}
	if err := m.eval.Evaluate(ctx, runtimeScript, nil); err != nil {
		return err
	}
	m.installed = true
	return nil
}

// Snapshot applies a patch to the node matched by selector, recording the
// prior values under a fresh token. The token restores exactly the
// properties the patch touched.
func (m *Manager) Snapshot(ctx context.Context, selector string, patch StylePatch) (string, error) {
	if err := m.ensureRuntime(ctx); err != nil {
		return "", err
	}
	token := idgen.NewSnapshotToken()

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to encode style patch", err)
	}

	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		const patch = %s;
		window.__rf.save(%q, el, Object.keys(patch));
		window.__rf.apply(el, patch);
		return true;
	})()`, selector, patchJSON, token)

	var found bool
	if err := m.eval.Evaluate(ctx, expr, &found); err != nil {
		return "", err
	}
	if !found {
		return "", errors.New(errors.ErrCodePageEvaluation,
			fmt.Sprintf("snapshot target %s not found", selector))
	}
	return token, nil
}

// Restore reverts every property recorded under the token. A second call
// for the same token, or a call after the nodes left the document, is a
// no-op rather than an error.
func (m *Manager) Restore(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.ensureRuntime(ctx); err != nil {
		return err
	}
	expr := fmt.Sprintf(`window.__rf.restore(%q)`, token)
	return m.eval.Evaluate(ctx, expr, nil)
}

// settle waits for layout to catch up with the last mutation. Computed
// styles and scroll heights are unreliable until the page has reflowed.
func (m *Manager) settle(ctx context.Context) error {
	timer := time.NewTimer(m.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SettleDelay reports the configured layout settle wait.
func (m *Manager) SettleDelay() time.Duration {
	return m.settleDelay
}
