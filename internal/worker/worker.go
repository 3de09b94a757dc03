package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finparse/statement-parser/internal/parser"
	"github.com/finparse/statement-parser/internal/worker/domain"
	"github.com/finparse/statement-parser/internal/worker/storage"
	"github.com/finparse/statement-parser/shared/rabbitmq"
)

// StatementParser runs the parse pipeline for one document.
type StatementParser interface {
	Parse(ctx context.Context, jobID string, doc []byte) (*parser.Result, *parser.ParseError)
}

// Config holds worker configuration
type Config struct {
	Logger         *slog.Logger
	Storage        storage.JobStore
	RabbitClient   *rabbitmq.Client
	Parser         StatementParser
	Concurrency    int
	PrefetchCount  int
	JobTimeout     time.Duration
	RunningTimeout time.Duration
	SweepInterval  time.Duration
}

// Worker consumes parse jobs from RabbitMQ and drives them through the
// pipeline: claim, parse, finalize.
type Worker struct {
	logger            *slog.Logger
	storage           storage.JobStore
	rabbitClient      *rabbitmq.Client
	parser            StatementParser
	concurrency       int
	prefetchCount     int
	jobTimeout        time.Duration
	runningTimeout    time.Duration
	sweepInterval     time.Duration
	workerID          string
	rabbitMQQueueName string
	jobsChan          chan *domain.JobMessage
	wg                sync.WaitGroup
	stopChan          chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) (*Worker, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("worker requires a job store")
	}
	if cfg.Parser == nil {
		return nil, fmt.Errorf("worker requires a statement parser")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = cfg.Concurrency
	}

	return &Worker{
		logger:         cfg.Logger,
		storage:        cfg.Storage,
		rabbitClient:   cfg.RabbitClient,
		parser:         cfg.Parser,
		concurrency:    cfg.Concurrency,
		prefetchCount:  cfg.PrefetchCount,
		jobTimeout:     cfg.JobTimeout,
		runningTimeout: cfg.RunningTimeout,
		sweepInterval:  cfg.SweepInterval,
		workerID:       fmt.Sprintf("worker-%s", uuid.New().String()[:8]),
		jobsChan:       make(chan *domain.JobMessage),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins processing jobs and blocks until the context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Int("prefetch_count", w.prefetchCount),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startSweeper(ctx)

	w.startMessageDispatcher(ctx, deliveries)

	w.logger.Info("Worker context canceled, stopping...")
	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
