package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/rankmdx"
	main "github.com/fwojciec/rankmdx/cmd/rankmdx"
	"github.com/fwojciec/rankmdx/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with counts", func(t *testing.T) {
		t.Parallel()

		var filter rankmdx.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, f rankmdx.RunFilter) ([]*rankmdx.Run, error) {
				filter = f
				return []*rankmdx.Run{{
					ID:        "run-123",
					Status:    rankmdx.RunCompleted,
					Processed: 4,
					Failed:    1,
					StartedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
				}}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, filter.Limit)
		assert.Contains(t, stdout.String(), "run-123  2025-03-14 10:00:00  completed")
		assert.Contains(t, stdout.String(), "processed=4 failed=1")
	})

	t.Run("shows the attempts of one run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, f rankmdx.RunFilter) ([]*rankmdx.Run, error) {
				require.NotNil(t, f.ID)
				return []*rankmdx.Run{{ID: *f.ID}}, nil
			},
			FindAttemptsFn: func(_ context.Context, _ string) ([]*rankmdx.Attempt, error) {
				return []*rankmdx.Attempt{
					{URL: "https://blog.es/a", Slug: "freidoras", Status: rankmdx.AttemptSucceeded, Duration: 1500 * time.Millisecond},
					{URL: "https://blog.es/b", Status: rankmdx.AttemptFailed, Error: "no products found"},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Runs: runs}

		err := (&main.RunsCmd{ID: "run-123"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "ok    https://blog.es/a -> freidoras (1.5s)\nfail  https://blog.es/b: no products found\n", stdout.String())
	})

	t.Run("reports an unknown run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ rankmdx.RunFilter) ([]*rankmdx.Run, error) { return nil, nil },
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Runs: runs}

		err := (&main.RunsCmd{ID: "nope"}).Run(deps)

		assert.Equal(t, rankmdx.ENOTFOUND, rankmdx.ErrorCode(err))
		assert.Contains(t, stderr.String(), `run "nope" not found`)
	})
}
