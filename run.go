package rankmdx

import (
	"context"
	"time"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunCanceled  = "canceled"
)

// Attempt statuses.
const (
	AttemptSucceeded = "succeeded"
	AttemptFailed    = "failed"
)

// Run records one batch execution of the pipeline.
type Run struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Processed  int       `json:"processed"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// Attempt records the outcome of processing one URL within a run.
type Attempt struct {
	RunID     string        `json:"runId"`
	URL       string        `json:"url"`
	Slug      string        `json:"slug,omitempty"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string `json:"id"`
	Status *string `json:"status"`

	Limit int `json:"limit"`
}

// RunService records pipeline runs and per-URL attempts.
type RunService interface {
	// CreateRun assigns an ID and start time and stores the run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final status and counters of run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// RecordAttempt stores the outcome of one URL.
	RecordAttempt(ctx context.Context, attempt *Attempt) error

	// FindRuns returns runs matching filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindAttempts returns the attempts of a run in insertion order.
	FindAttempts(ctx context.Context, runID string) ([]*Attempt, error)
}
