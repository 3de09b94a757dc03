package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/finparse/statement-parser/internal/worker/domain"
)

// MemoryJob is one job record held by MemoryStore.
type MemoryJob struct {
	JobID        string
	Status       string
	WorkerID     string
	Provider     string
	Result       json.RawMessage
	ErrorKind    string
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// MemoryStore is an in-memory JobStore with the same transition guards as the
// database implementation. It backs worker tests and local runs without
// Postgres.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[string]*MemoryJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*MemoryJob)}
}

// CreateJob seeds a PENDING job.
func (m *MemoryStore) CreateJob(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[jobID] = &MemoryJob{JobID: jobID, Status: domain.JobStatusPending}
}

func (m *MemoryStore) ClaimJob(_ context.Context, jobID, workerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok || job.Status != domain.JobStatusPending {
		return domain.ErrJobAlreadyClaimed
	}
	job.Status = domain.JobStatusRunning
	job.WorkerID = workerID
	job.StartedAt = time.Now()
	return nil
}

func (m *MemoryStore) CompleteSuccess(_ context.Context, jobID, provider string, result json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok || job.Status != domain.JobStatusRunning {
		return fmt.Errorf("%w: %s", domain.ErrJobNotRunning, jobID)
	}
	job.Status = domain.JobStatusSuccess
	job.Provider = provider
	job.Result = append(json.RawMessage(nil), result...)
	job.ErrorKind = ""
	job.ErrorMessage = ""
	job.CompletedAt = time.Now()
	return nil
}

func (m *MemoryStore) CompleteFailure(_ context.Context, jobID, kind, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok || job.Status != domain.JobStatusRunning {
		return fmt.Errorf("%w: %s", domain.ErrJobNotRunning, jobID)
	}
	job.Status = domain.JobStatusFailed
	job.ErrorKind = kind
	job.ErrorMessage = message
	job.CompletedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &domain.Job{JobID: job.JobID, Status: job.Status, WorkerID: job.WorkerID}, nil
}

func (m *MemoryStore) FailTimedOut(_ context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var swept int64
	for _, job := range m.jobs {
		if job.Status == domain.JobStatusRunning && job.StartedAt.Before(cutoff) {
			job.Status = domain.JobStatusFailed
			job.ErrorKind = "Timeout"
			job.ErrorMessage = "job exceeded the processing deadline"
			job.CompletedAt = time.Now()
			swept++
		}
	}
	return swept, nil
}

// Snapshot returns a copy of one job's record for assertions.
func (m *MemoryStore) Snapshot(jobID string) (MemoryJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return MemoryJob{}, false
	}
	return *job, true
}
