package measure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

// scriptedEvaluator answers the insert and read expressions with the given
// heights.
func scriptedEvaluator(natural, fallback float64) *fakeEvaluator {
	return &fakeEvaluator{results: func(expr string) (string, error) {
		switch {
		case strings.Contains(expr, "cloneNode"):
			return `{"found": true}`, nil
		case strings.Contains(expr, "natural:"):
			return fmt.Sprintf(`{"natural": %v, "fallback": %v}`, natural, fallback), nil
		default:
			return "", nil
		}
	}}
}

func TestExceeds_BudgetBoundary(t *testing.T) {
	// Exactly at the budget fits; one pixel past overflows.
	assert.False(t, Exceeds(1050, 1050))
	assert.True(t, Exceeds(1051, 1050))
	assert.False(t, Exceeds(0, 1050))
}

func TestMeasureOverflow_Fits(t *testing.T) {
	eval := scriptedEvaluator(900, 900)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	report, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)
	assert.False(t, report.Overflow)
	assert.Equal(t, 900.0, report.NaturalHeightPx)
	assert.Equal(t, 1050, report.BudgetPx)
}

func TestMeasureOverflow_CloneReportsOverflow(t *testing.T) {
	eval := scriptedEvaluator(1200, 900)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	report, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)
	assert.True(t, report.Overflow)
}

func TestMeasureOverflow_FallbackDisagrees(t *testing.T) {
	// The clone under-reports; the original's scroll height must win.
	eval := scriptedEvaluator(1000, 1100)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	report, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)
	assert.True(t, report.Overflow)
	assert.Equal(t, 1100.0, report.FallbackHeightPx)
}

func TestMeasureOverflow_ExactBudget(t *testing.T) {
	eval := scriptedEvaluator(1050, 1050)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	report, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)
	assert.False(t, report.Overflow)
}

func TestMeasureOverflow_CleansUpContainer(t *testing.T) {
	eval := scriptedEvaluator(900, 900)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	_, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)
	assert.Equal(t, 1, eval.callsContaining("holder.remove()"))
}

func TestMeasureOverflow_CleansUpOnReadFailure(t *testing.T) {
	eval := &fakeEvaluator{}
	eval.results = func(expr string) (string, error) {
		switch {
		case strings.Contains(expr, "cloneNode"):
			return `{"found": true}`, nil
		case strings.Contains(expr, "natural:"):
			return "", assert.AnError
		default:
			return "", nil
		}
	}
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	_, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.Error(t, err)
	assert.Equal(t, 1, eval.callsContaining("holder.remove()"))
}

func TestMeasureOverflow_TargetMissing(t *testing.T) {
	eval := &fakeEvaluator{results: func(expr string) (string, error) {
		if strings.Contains(expr, "cloneNode") {
			return `{"found": false}`, nil
		}
		return "", nil
	}}
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	_, err := e.MeasureOverflow(context.Background(), "#missing")
	require.Error(t, err)
	// No container was inserted, so no cleanup call is expected
	assert.Equal(t, 0, eval.callsContaining("holder.remove()"))
}

func TestMeasureOverflow_StripsClipping(t *testing.T) {
	eval := scriptedEvaluator(900, 900)
	e := NewEngine(eval, 1050, 794, time.Millisecond)

	_, err := e.MeasureOverflow(context.Background(), "#resume-root")
	require.NoError(t, err)

	insert := eval.calls[0]
	assert.Contains(t, insert, "'overflow', 'visible'")
	assert.Contains(t, insert, "'height', 'auto'")
	assert.Contains(t, insert, "'max-height', 'none'")
	assert.Contains(t, insert, "'794px'")
}
