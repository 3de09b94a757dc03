package worker

import (
	"context"
	"log/slog"
	"time"
)

// startSweeper periodically force-fails RUNNING jobs whose deadline has long
// passed. This is the safety net for worker crashes: the claimant died, the
// message was redelivered and lost the claim, and nothing else will ever
// finalize the row.
func (w *Worker) startSweeper(ctx context.Context) {
	if w.sweepInterval <= 0 || w.runningTimeout <= 0 {
		w.logger.Info("Timeout sweeper disabled")
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.logger.Info("Timeout sweeper started",
			slog.Duration("sweep_interval", w.sweepInterval),
			slog.Duration("running_timeout", w.runningTimeout),
		)

		ticker := time.NewTicker(w.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Timeout sweeper stopped - context canceled")
				return
			case <-w.stopChan:
				w.logger.Info("Timeout sweeper stopped - stopChan closed")
				return
			case <-ticker.C:
				swept, err := w.storage.FailTimedOut(ctx, w.runningTimeout)
				if err != nil {
					w.logger.Error("Timeout sweep failed",
						slog.String("error", err.Error()),
					)
					continue
				}
				if swept > 0 {
					w.logger.Warn("Swept timed out jobs",
						slog.Int64("count", swept),
					)
				}
			}
		}
	}()
}
