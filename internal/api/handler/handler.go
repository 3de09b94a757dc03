package handler

import (
	"context"
	"log/slog"

	"github.com/finparse/statement-parser/internal/api/model"
)

// JobStore is the persistence surface the handlers need.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// Publisher hands an admitted job to the queue.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// DBHealth reports whether the database can serve requests.
type DBHealth interface {
	HealthCheck(ctx context.Context) error
}

// QueueHealth reports whether the broker connection is alive.
type QueueHealth interface {
	IsConnected() bool
}

// Dependencies holds all dependencies needed by handlers. DBHealth and
// QueueHealth are optional; when nil the health endpoint skips that check.
type Dependencies struct {
	Logger         *slog.Logger
	Storage        JobStore
	Publisher      Publisher
	DBHealth       DBHealth
	QueueHealth    QueueHealth
	MaxUploadBytes int64
}

// JobHandler handles statement submission and status requests
type JobHandler struct {
	logger         *slog.Logger
	storage        JobStore
	publisher      Publisher
	maxUploadBytes int64
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:         deps.Logger,
		storage:        deps.Storage,
		publisher:      deps.Publisher,
		maxUploadBytes: deps.MaxUploadBytes,
	}
}
