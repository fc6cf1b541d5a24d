package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/rankmdx"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rankmdx.RunService = (*RunService)(nil)

// RunService implements rankmdx.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run in the running state.
func (s *RunService) CreateRun(ctx context.Context, run *rankmdx.Run) error {
	run.ID = uuid.New().String()
	run.Status = rankmdx.RunRunning
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, status, processed, failed, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Status, run.Processed, run.Failed, run.StartedAt.Format(timestampLayout))

	return err
}

// FinishRun stores the final status and counters of run.
func (s *RunService) FinishRun(ctx context.Context, run *rankmdx.Run) error {
	if run.Status == "" || run.Status == rankmdx.RunRunning {
		run.Status = rankmdx.RunCompleted
	}
	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, processed = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, run.Status, run.Processed, run.Failed, run.FinishedAt.Format(timestampLayout), run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return rankmdx.Errorf(rankmdx.ENOTFOUND, "run not found")
	}
	return nil
}

// RecordAttempt stores the outcome of one URL.
func (s *RunService) RecordAttempt(ctx context.Context, attempt *rankmdx.Attempt) error {
	if attempt.RunID == "" || attempt.URL == "" {
		return rankmdx.Errorf(rankmdx.EINVALID, "attempt requires run id and url")
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (run_id, url, slug, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, attempt.RunID, attempt.URL, attempt.Slug, attempt.Status, attempt.Error,
		attempt.Duration.Milliseconds(), attempt.CreatedAt.Format(timestampLayout))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return rankmdx.Errorf(rankmdx.ENOTFOUND, "run not found")
	}
	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter rankmdx.RunFilter) ([]*rankmdx.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, status, processed, failed, started_at, finished_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*rankmdx.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindAttempts returns the attempts of a run in insertion order.
func (s *RunService) FindAttempts(ctx context.Context, runID string) ([]*rankmdx.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, url, slug, status, error, duration_ms, created_at
		FROM attempts
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*rankmdx.Attempt
	for rows.Next() {
		var a rankmdx.Attempt
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&a.RunID, &a.URL, &a.Slug, &a.Status, &a.Error, &durationMS, &createdAt); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(durationMS) * time.Millisecond
		if a.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

func scanRun(rows *sql.Rows) (*rankmdx.Run, error) {
	var run rankmdx.Run
	var startedAt, finishedAt string

	if err := rows.Scan(&run.ID, &run.Status, &run.Processed, &run.Failed, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTimestamp(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseTimestamp(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
