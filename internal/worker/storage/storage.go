package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/finparse/statement-parser/internal/worker/domain"
)

// JobStore is the persistence surface the worker needs. Only job state and
// results live here; the statement bytes never do.
type JobStore interface {
	// ClaimJob transitions a job from PENDING to RUNNING for this worker.
	// Exactly one claimant can win; the rest get ErrJobAlreadyClaimed.
	ClaimJob(ctx context.Context, jobID, workerID string) error

	// CompleteSuccess records the parse result and moves RUNNING to SUCCESS.
	CompleteSuccess(ctx context.Context, jobID, provider string, result json.RawMessage) error

	// CompleteFailure records the error taxonomy entry and moves RUNNING to
	// FAILED.
	CompleteFailure(ctx context.Context, jobID, kind, message string) error

	// GetJob fetches a job's current state.
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)

	// FailTimedOut force-fails RUNNING jobs started more than olderThan ago
	// and returns how many rows it swept.
	FailTimedOut(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ClaimJob attempts to claim a job using optimistic locking. The conditional
// UPDATE is the at-most-once execution guard: a redelivered message finds the
// row no longer PENDING and loses the claim.
func (s *Storage) ClaimJob(ctx context.Context, jobID, workerID string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    worker_id = $2,
		    started_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query, domain.JobStatusRunning, workerID, jobID, domain.JobStatusPending)
	if err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.Warn("Failed to claim job - already claimed or not found",
			slog.String("job_id", jobID),
			slog.String("worker_id", workerID),
		)
		return domain.ErrJobAlreadyClaimed
	}

	s.logger.Info("Job claimed successfully",
		slog.String("job_id", jobID),
		slog.String("worker_id", workerID),
	)

	return nil
}

// CompleteSuccess stores the extracted fields and finalizes the job. Guarded
// on RUNNING so a swept or already-finalized job cannot be overwritten.
func (s *Storage) CompleteSuccess(ctx context.Context, jobID, provider string, resultJSON json.RawMessage) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    provider = $2,
		    result = $3,
		    error_kind = NULL,
		    error_message = NULL,
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $4
		  AND status = $5
	`

	result, err := s.db.ExecContext(ctx, query, domain.JobStatusSuccess, provider, []byte(resultJSON), jobID, domain.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	if err := requireRunning(result, jobID); err != nil {
		return err
	}

	s.logger.Info("Job completed",
		slog.String("job_id", jobID),
		slog.String("status", domain.JobStatusSuccess),
		slog.String("provider", provider),
	)

	return nil
}

// CompleteFailure records the taxonomy kind and message and finalizes the job.
func (s *Storage) CompleteFailure(ctx context.Context, jobID, kind, message string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_kind = $2,
		    error_message = $3,
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $4
		  AND status = $5
	`

	result, err := s.db.ExecContext(ctx, query, domain.JobStatusFailed, kind, message, jobID, domain.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to fail job: %w", err)
	}
	if err := requireRunning(result, jobID); err != nil {
		return err
	}

	s.logger.Info("Job completed",
		slog.String("job_id", jobID),
		slog.String("status", domain.JobStatusFailed),
		slog.String("error_kind", kind),
	)

	return nil
}

// GetJob fetches the job's current status.
func (s *Storage) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
		SELECT job_id, status, worker_id
		FROM jobs
		WHERE job_id = $1
	`

	var job domain.Job
	var workerID sql.NullString

	err := s.db.QueryRowContext(ctx, query, jobID).Scan(
		&job.JobID,
		&job.Status,
		&workerID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if workerID.Valid {
		job.WorkerID = workerID.String
	}

	return &job, nil
}

// FailTimedOut sweeps RUNNING jobs whose worker never reported back, so a
// crashed worker cannot strand a job in RUNNING forever.
func (s *Storage) FailTimedOut(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_kind = $2,
		    error_message = $3,
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE status = $4
		  AND started_at < NOW() - ($5 * INTERVAL '1 second')
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.JobStatusFailed,
		"Timeout",
		"job exceeded the processing deadline",
		domain.JobStatusRunning,
		int64(olderThan.Seconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep timed out jobs: %w", err)
	}

	swept, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return swept, nil
}

func requireRunning(result sql.Result, jobID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrJobNotRunning, jobID)
	}
	return nil
}
