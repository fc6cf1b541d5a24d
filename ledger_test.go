package rankmdx_test

import (
	"testing"

	"github.com/fwojciec/rankmdx"
	"github.com/stretchr/testify/assert"
)

func TestReconcileURLs(t *testing.T) {
	t.Parallel()

	t.Run("pending is discovered minus processed and orphans are dropped", func(t *testing.T) {
		t.Parallel()

		// Given sources {A, B, C} and a processed ledger {A, D}
		sources := []rankmdx.SourceFile{{Path: "a.json", URLs: []string{"A", "B", "C"}}}

		// When reconciling
		state := rankmdx.ReconcileURLs(sources, []string{"A", "D"})

		// Then processed is {A}, pending is {B, C} and D is an orphan
		assert.Equal(t, []string{"A"}, state.Processed)
		assert.Equal(t, []string{"B", "C"}, state.Pending)
		assert.Equal(t, []string{"D"}, state.Orphans)
	})

	t.Run("discovered keeps first-seen order across files", func(t *testing.T) {
		t.Parallel()

		sources := []rankmdx.SourceFile{
			{Path: "one.json", URLs: []string{"C", "A"}},
			{Path: "two.json", URLs: []string{"B", "A", " "}},
		}

		state := rankmdx.ReconcileURLs(sources, nil)

		assert.Equal(t, []string{"C", "A", "B"}, state.Discovered)
		assert.Equal(t, []string{"C", "A", "B"}, state.Pending)
		assert.Empty(t, state.Processed)
	})

	t.Run("reports duplicates without removing them", func(t *testing.T) {
		t.Parallel()

		sources := []rankmdx.SourceFile{
			{Path: "one.json", URLs: []string{"A", "B"}},
			{Path: "two.json", URLs: []string{"A"}},
		}

		state := rankmdx.ReconcileURLs(sources, nil)

		assert.Equal(t, map[string][]string{"A": {"one.json", "two.json"}}, state.Duplicates)
		assert.Equal(t, []string{"A", "B"}, state.Pending)
	})

	t.Run("repeated processed entries count once", func(t *testing.T) {
		t.Parallel()

		sources := []rankmdx.SourceFile{{Path: "s.json", URLs: []string{"A", "B"}}}

		state := rankmdx.ReconcileURLs(sources, []string{"A", "A"})

		assert.Equal(t, []string{"A"}, state.Processed)
		assert.Equal(t, []string{"B"}, state.Pending)
	})
}
