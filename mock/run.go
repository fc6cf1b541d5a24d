package mock

import (
	"context"

	"github.com/fwojciec/rankmdx"
)

var _ rankmdx.RunService = (*RunService)(nil)

// RunService is a mock implementation of rankmdx.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *rankmdx.Run) error
	FinishRunFn     func(ctx context.Context, run *rankmdx.Run) error
	RecordAttemptFn func(ctx context.Context, attempt *rankmdx.Attempt) error
	FindRunsFn      func(ctx context.Context, filter rankmdx.RunFilter) ([]*rankmdx.Run, error)
	FindAttemptsFn  func(ctx context.Context, runID string) ([]*rankmdx.Attempt, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *rankmdx.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *rankmdx.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) RecordAttempt(ctx context.Context, attempt *rankmdx.Attempt) error {
	return s.RecordAttemptFn(ctx, attempt)
}

func (s *RunService) FindRuns(ctx context.Context, filter rankmdx.RunFilter) ([]*rankmdx.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindAttempts(ctx context.Context, runID string) ([]*rankmdx.Attempt, error) {
	return s.FindAttemptsFn(ctx, runID)
}
