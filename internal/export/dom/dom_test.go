package dom

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

// fakeEvaluator scripts page evaluation results as JSON per expression.
type fakeEvaluator struct {
	calls   []string
	results func(expr string) (string, error)
}

func (f *fakeEvaluator) Evaluate(_ context.Context, expr string, out interface{}) error {
	f.calls = append(f.calls, expr)
	if f.results == nil {
		return nil
	}
	result, err := f.results(expr)
	if err != nil {
		return err
	}
	if out == nil || result == "" {
		return nil
	}
	return json.Unmarshal([]byte(result), out)
}

func (f *fakeEvaluator) callsContaining(substr string) int {
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func newTestManager(eval *fakeEvaluator) *Manager {
	return NewManager(eval, time.Millisecond)
}

func TestSnapshot(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "querySelector") {
			return "true", nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	token, err := m.Snapshot(context.Background(), "#resume-root", StylePatch{
		"display": "block",
		"width":   "794px",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Runtime installed once, then the patch expression
	assert.Equal(t, 1, eval.callsContaining("window.__rf ="))
	last := eval.calls[len(eval.calls)-1]
	assert.Contains(t, last, "#resume-root")
	assert.Contains(t, last, `"display":"block"`)
	assert.Contains(t, last, token)
}

func TestSnapshot_TargetMissing(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "querySelector") {
			return "false", nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	_, err := m.Snapshot(context.Background(), "#gone", StylePatch{"display": "none"})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodePageEvaluation, appErr.Code)
}

func TestRestore_Idempotent(t *testing.T) {
	eval := &fakeEvaluator{}
	m := newTestManager(eval)

	// Restoring the same token twice must not error; the page registry
	// treats the second call as a no-op.
	require.NoError(t, m.Restore(context.Background(), "tok-1"))
	require.NoError(t, m.Restore(context.Background(), "tok-1"))
	assert.Equal(t, 2, eval.callsContaining("restore"))
}

func TestRestore_EmptyToken(t *testing.T) {
	eval := &fakeEvaluator{}
	m := newTestManager(eval)

	require.NoError(t, m.Restore(context.Background(), ""))
	assert.Empty(t, eval.calls)
}

func TestCoerceVisible_SkipsWhenAlreadyVisible(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "getBoundingClientRect") {
			return `{"found": true, "mutated": false}`, nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	res, err := m.CoerceVisible(context.Background(), "#resume-root", 794)
	require.NoError(t, err)
	assert.False(t, res.Mutated)
	assert.Empty(t, res.Token)
}

func TestCoerceVisible_MutatesHiddenTarget(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "getBoundingClientRect") {
			return `{"found": true, "mutated": true}`, nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	res, err := m.CoerceVisible(context.Background(), "#resume-root", 794)
	require.NoError(t, err)
	assert.True(t, res.Mutated)
	assert.NotEmpty(t, res.Token)

	last := eval.calls[len(eval.calls)-1]
	assert.Contains(t, last, "'-10000px'")
	assert.Contains(t, last, "'794px'")
	assert.Contains(t, last, "parentElement")
}

func TestCoerceVisible_TargetMissing(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "getBoundingClientRect") {
			return `{"found": false}`, nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	_, err := m.CoerceVisible(context.Background(), "#missing", 794)
	require.Error(t, err)
}

func TestWithWatermarkState_VisibleLeavesPageAlone(t *testing.T) {
	eval := &fakeEvaluator{}
	m := newTestManager(eval)

	ran := false
	err := m.WithWatermarkState(context.Background(), ".wm-overlay", true, func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Empty(t, eval.calls)
}

func TestWithWatermarkState_HidesAndRestores(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "querySelectorAll") {
			return "3", nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	err := m.WithWatermarkState(context.Background(), ".wm-overlay", false, func() error {
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, eval.callsContaining("querySelectorAll"))
	assert.Equal(t, 1, eval.callsContaining("restore"))
}

func TestWithWatermarkState_RestoresOnFailure(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "querySelectorAll") {
			return "3", nil
		}
		return "", nil
	}}
	m := newTestManager(eval)

	err := m.WithWatermarkState(context.Background(), ".wm-overlay", false, func() error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	// Restoration runs even though fn failed
	assert.Equal(t, 1, eval.callsContaining("restore"))
}
