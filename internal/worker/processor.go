package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finparse/statement-parser/internal/parser"
	"github.com/finparse/statement-parser/internal/worker/domain"
)

// processJob drives one job through claim, parse and finalize. A nil return
// means the message can be ACKed; parse failures are final states, so they
// return nil once recorded. Only infrastructure faults come back as errors,
// and only RetryableError ones get the message requeued.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	// The statement bytes must not outlive this attempt.
	defer zeroBytes(msg.Document)

	w.logger.Info("Processing job",
		slog.String("job_id", msg.JobID),
		slog.String("worker_id", w.workerID),
		slog.Int("document_bytes", len(msg.Document)),
	)

	// Step 1: Claim job in database (PENDING → RUNNING)
	if err := w.storage.ClaimJob(ctx, msg.JobID, w.workerID); err != nil {
		if errors.Is(err, domain.ErrJobAlreadyClaimed) {
			// Another delivery of this job already won the claim - don't requeue
			attrs := []any{slog.String("job_id", msg.JobID)}
			if job, gerr := w.storage.GetJob(ctx, msg.JobID); gerr == nil {
				attrs = append(attrs,
					slog.String("status", job.Status),
					slog.String("claimed_by", job.WorkerID),
				)
			}
			w.logger.Warn("Job already claimed, skipping", attrs...)
			return fmt.Errorf("job already claimed: %w", err)
		}
		// Database error - could be transient
		w.logger.Error("Failed to claim job",
			slog.String("job_id", msg.JobID),
			slog.String("error", err.Error()),
		)
		return domain.NewRetryableError(fmt.Errorf("failed to claim job: %w", err))
	}

	// Step 2: Run the parse pipeline under the per-job deadline
	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	result, perr := w.parser.Parse(jobCtx, msg.JobID, msg.Document)

	// Step 3: Finalize (RUNNING → SUCCESS/FAILED)
	if perr != nil {
		kind := string(perr.Kind)
		message := perr.Message
		if jobCtx.Err() == context.DeadlineExceeded {
			kind = string(parser.KindTimeout)
			message = fmt.Sprintf("job exceeded the %s processing deadline", w.jobTimeout)
		}

		w.logger.Warn("Parse failed",
			slog.String("job_id", msg.JobID),
			slog.String("error_kind", kind),
			slog.String("error", message),
		)

		if err := w.storage.CompleteFailure(ctx, msg.JobID, kind, message); err != nil {
			return w.finalizeError(msg.JobID, err)
		}
		// The failure is recorded; the message is done
		return nil
	}

	resultJSON, err := json.Marshal(result.Fields)
	if err != nil {
		w.logger.Error("Failed to marshal parse result",
			slog.String("job_id", msg.JobID),
			slog.String("error", err.Error()),
		)
		if ferr := w.storage.CompleteFailure(ctx, msg.JobID, string(parser.KindExtractionFailure),
			"could not serialize extracted fields"); ferr != nil {
			return w.finalizeError(msg.JobID, ferr)
		}
		return nil
	}

	if err := w.storage.CompleteSuccess(ctx, msg.JobID, result.Provider, resultJSON); err != nil {
		return w.finalizeError(msg.JobID, err)
	}

	w.logger.Info("Job completed successfully",
		slog.String("job_id", msg.JobID),
		slog.String("provider", result.Provider),
	)

	return nil
}

// finalizeError classifies a terminal-write failure. A job that is no longer
// RUNNING was finalized elsewhere (most likely swept); requeueing would only
// lose the claim again, so that case is not retryable.
func (w *Worker) finalizeError(jobID string, err error) error {
	w.logger.Error("Failed to finalize job",
		slog.String("job_id", jobID),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, domain.ErrJobNotRunning) {
		return fmt.Errorf("job finalized elsewhere: %w", err)
	}
	return domain.NewRetryableError(fmt.Errorf("failed to finalize job: %w", err))
}

// zeroBytes scrubs the statement payload from this worker's copy.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
