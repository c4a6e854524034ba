package dom

import (
	"context"
	"fmt"

	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/idgen"
)

// CoerceResult reports what visibility coercion did to the page.
type CoerceResult struct {
	// Token restores every ancestor and target mutation; empty when
	// nothing was mutated.
	Token string
	// Mutated is false when the target was already visible with a
	// non-zero size and coercion skipped all mutation.
	Mutated bool
}

// CoerceVisible makes the node matched by selector rasterizable. Hidden
// ancestors are forced visible, the target is forced visible off-screen at
// the fixed page width with auto height, and layout is given a settle wait.
// A target that is already laid out and visible is left untouched.
//
// Every mutation is recorded under the returned token; callers must restore
// it on all exit paths.
func (m *Manager) CoerceVisible(ctx context.Context, selector string, widthPx int) (CoerceResult, error) {
	if err := m.ensureRuntime(ctx); err != nil {
		return CoerceResult{}, err
	}
	token := idgen.NewSnapshotToken()

	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return {found: false};
		const rect = el.getBoundingClientRect();
		const cs = getComputedStyle(el);
		if (rect.width > 0 && rect.height > 0 && cs.display !== 'none' && cs.visibility !== 'hidden') {
			return {found: true, mutated: false};
		}
		const rf = window.__rf;
		for (let a = el.parentElement; a && a !== document.documentElement; a = a.parentElement) {
			const acs = getComputedStyle(a);
			const patch = {};
			if (acs.display === 'none') patch['display'] = 'block';
			if (acs.visibility === 'hidden') patch['visibility'] = 'visible';
			if (Object.keys(patch).length > 0) {
				rf.save(%q, a, Object.keys(patch));
				rf.apply(a, patch);
			}
		}
		const patch = {
			'display': 'block',
			'visibility': 'visible',
			'position': 'absolute',
			'left': '-10000px',
			'top': '0px',
			'width': '%dpx',
			'height': 'auto',
			'max-height': 'none'
		};
		rf.save(%q, el, Object.keys(patch));
		rf.apply(el, patch);
		return {found: true, mutated: true};
	})()`, selector, token, widthPx, token)

	var res struct {
		Found   bool `json:"found"`
		Mutated bool `json:"mutated"`
	}
	if err := m.eval.Evaluate(ctx, expr, &res); err != nil {
		return CoerceResult{}, err
	}
	if !res.Found {
		return CoerceResult{}, errors.New(errors.ErrCodePageEvaluation,
			fmt.Sprintf("coercion target %s not found", selector))
	}
	if !res.Mutated {
		return CoerceResult{Mutated: false}, nil
	}

	if err := m.settle(ctx); err != nil {
		// The mutation landed before the wait failed; hand the token
		// back so the caller can still restore.
		return CoerceResult{Token: token, Mutated: true}, err
	}
	return CoerceResult{Token: token, Mutated: true}, nil
}
