package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/fwojciec/rankmdx/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(setupTestDB(t))
	run := &rankmdx.Run{}

	err := svc.CreateRun(context.Background(), run)

	require.NoError(t, err)
	assert.NotEmpty(t, run.ID, "ID should be generated")
	assert.Equal(t, rankmdx.RunRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero(), "StartedAt should be set")
	assert.True(t, run.FinishedAt.IsZero())
}

func TestRunService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("stores final status and counters", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &rankmdx.Run{}
		require.NoError(t, svc.CreateRun(ctx, run))

		run.Processed = 3
		run.Failed = 1
		run.Status = rankmdx.RunCanceled
		require.NoError(t, svc.FinishRun(ctx, run))

		runs, err := svc.FindRuns(ctx, rankmdx.RunFilter{ID: &run.ID})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, rankmdx.RunCanceled, runs[0].Status)
		assert.Equal(t, 3, runs[0].Processed)
		assert.Equal(t, 1, runs[0].Failed)
		assert.False(t, runs[0].FinishedAt.IsZero())
	})

	t.Run("defaults a running run to completed", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &rankmdx.Run{}
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.FinishRun(ctx, run))

		assert.Equal(t, rankmdx.RunCompleted, run.Status)
	})

	t.Run("returns ENOTFOUND for an unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.FinishRun(context.Background(), &rankmdx.Run{ID: "missing"})

		assert.Equal(t, rankmdx.ENOTFOUND, rankmdx.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(setupTestDB(t))
	ctx := context.Background()
	first := &rankmdx.Run{}
	require.NoError(t, svc.CreateRun(ctx, first))
	second := &rankmdx.Run{}
	require.NoError(t, svc.CreateRun(ctx, second))
	require.NoError(t, svc.FinishRun(ctx, second))

	t.Run("returns newest first", func(t *testing.T) {
		runs, err := svc.FindRuns(ctx, rankmdx.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := rankmdx.RunRunning
		runs, err := svc.FindRuns(ctx, rankmdx.RunFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, first.ID, runs[0].ID)
	})

	t.Run("applies limit", func(t *testing.T) {
		runs, err := svc.FindRuns(ctx, rankmdx.RunFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})
}

func TestRunService_RecordAttempt(t *testing.T) {
	t.Parallel()

	t.Run("attempts are returned in insertion order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &rankmdx.Run{}
		require.NoError(t, svc.CreateRun(ctx, run))

		require.NoError(t, svc.RecordAttempt(ctx, &rankmdx.Attempt{
			RunID:    run.ID,
			URL:      "https://a.com/1",
			Slug:     "mejores-freidoras",
			Status:   rankmdx.AttemptSucceeded,
			Duration: 2 * time.Second,
		}))
		require.NoError(t, svc.RecordAttempt(ctx, &rankmdx.Attempt{
			RunID:  run.ID,
			URL:    "https://a.com/2",
			Status: rankmdx.AttemptFailed,
			Error:  "body too short",
		}))

		got, err := svc.FindAttempts(ctx, run.ID)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "https://a.com/1", got[0].URL)
		assert.Equal(t, "mejores-freidoras", got[0].Slug)
		assert.Equal(t, 2*time.Second, got[0].Duration)
		assert.Equal(t, "body too short", got[1].Error)
		assert.Equal(t, rankmdx.AttemptFailed, got[1].Status)
	})

	t.Run("rejects attempts without a run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.RecordAttempt(context.Background(), &rankmdx.Attempt{URL: "https://a.com/1"})

		assert.Equal(t, rankmdx.EINVALID, rankmdx.ErrorCode(err))
	})
}
