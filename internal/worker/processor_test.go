package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finparse/statement-parser/internal/parser"
	"github.com/finparse/statement-parser/internal/worker/domain"
	"github.com/finparse/statement-parser/internal/worker/storage"
)

type fakeStatementParser struct {
	result *parser.Result
	perr   *parser.ParseError
	delay  time.Duration
}

func (f *fakeStatementParser) Parse(ctx context.Context, _ string, _ []byte) (*parser.Result, *parser.ParseError) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, parser.NewParseError(parser.KindExtractionFailure, "pipeline interrupted")
		}
	}
	return f.result, f.perr
}

func successResult() *parser.Result {
	return &parser.Result{
		Provider: "chase",
		Fields: &parser.ExtractedFields{
			StatementDate:     parser.NewDate(2024, time.March, 1),
			DueDate:           parser.NewDate(2024, time.March, 25),
			TotalBalanceDue:   decimal.RequireFromString("1234.56"),
			MinimumPaymentDue: decimal.RequireFromString("35.00"),
			AccountIdentifier: "****1234",
		},
	}
}

func newTestWorker(t *testing.T, store storage.JobStore, p StatementParser) *Worker {
	t.Helper()
	w, err := NewWorker(&Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage:    store,
		Parser:     p,
		JobTimeout: time.Second,
	})
	require.NoError(t, err)
	return w
}

func seededMessage(store *storage.MemoryStore) *domain.JobMessage {
	jobID := uuid.New().String()
	store.CreateJob(jobID)
	return &domain.JobMessage{
		JobID:    jobID,
		Document: []byte("%PDF- statement bytes"),
	}
}

func TestProcessJobSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorker(t, store, &fakeStatementParser{result: successResult()})
	msg := seededMessage(store)

	err := w.processJob(context.Background(), msg)
	require.NoError(t, err)

	snap, ok := store.Snapshot(msg.JobID)
	require.True(t, ok)
	assert.Equal(t, domain.JobStatusSuccess, snap.Status)
	assert.Equal(t, "chase", snap.Provider)
	assert.Empty(t, snap.ErrorKind)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(snap.Result, &fields))
	assert.Equal(t, "2024-03-01", fields["statement_date"])
	assert.Equal(t, "****1234", fields["account_identifier"])
}

func TestProcessJobScrubsDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorker(t, store, &fakeStatementParser{result: successResult()})
	msg := seededMessage(store)

	require.NoError(t, w.processJob(context.Background(), msg))

	for i, b := range msg.Document {
		require.Zerof(t, b, "document byte %d not scrubbed", i)
	}
}

func TestProcessJobParseFailureIsTerminal(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorker(t, store, &fakeStatementParser{
		perr: parser.NewParseError(parser.KindUnsupportedProvider, "could not identify statement provider"),
	})
	msg := seededMessage(store)

	err := w.processJob(context.Background(), msg)
	require.NoError(t, err, "recorded parse failures must ACK, not requeue")

	snap, ok := store.Snapshot(msg.JobID)
	require.True(t, ok)
	assert.Equal(t, domain.JobStatusFailed, snap.Status)
	assert.Equal(t, "UnsupportedProvider", snap.ErrorKind)
	assert.Nil(t, snap.Result, "a failed job carries no result")
}

func TestProcessJobResultXorError(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorker(t, store, &fakeStatementParser{result: successResult()})
	msg := seededMessage(store)
	require.NoError(t, w.processJob(context.Background(), msg))

	snap, _ := store.Snapshot(msg.JobID)
	assert.NotNil(t, snap.Result)
	assert.Empty(t, snap.ErrorKind)
	assert.Empty(t, snap.ErrorMessage)
}

// ownerLookupStore records which jobs had their current state looked up.
type ownerLookupStore struct {
	*storage.MemoryStore
	lookups []string
}

func (s *ownerLookupStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	s.lookups = append(s.lookups, jobID)
	return s.MemoryStore.GetJob(ctx, jobID)
}

func TestProcessJobAlreadyClaimed(t *testing.T) {
	store := &ownerLookupStore{MemoryStore: storage.NewMemoryStore()}
	w := newTestWorker(t, store, &fakeStatementParser{result: successResult()})
	msg := seededMessage(store.MemoryStore)

	require.NoError(t, store.ClaimJob(context.Background(), msg.JobID, "another-worker"))

	err := w.processJob(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJobAlreadyClaimed)
	assert.False(t, w.shouldRequeueJob(err), "lost claims must not be requeued")

	assert.Equal(t, []string{msg.JobID}, store.lookups, "the lost claim reports the current owner")

	snap, _ := store.Snapshot(msg.JobID)
	assert.Equal(t, domain.JobStatusRunning, snap.Status, "the other claimant still owns the job")
}

func TestProcessJobTimeout(t *testing.T) {
	store := storage.NewMemoryStore()
	w, err := NewWorker(&Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage:    store,
		Parser:     &fakeStatementParser{delay: time.Second},
		JobTimeout: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	msg := seededMessage(store)

	err = w.processJob(context.Background(), msg)
	require.NoError(t, err)

	snap, _ := store.Snapshot(msg.JobID)
	assert.Equal(t, domain.JobStatusFailed, snap.Status)
	assert.Equal(t, "Timeout", snap.ErrorKind)
}

// failingStore simulates a database outage at finalize time.
type failingStore struct {
	*storage.MemoryStore
}

func (f *failingStore) CompleteSuccess(context.Context, string, string, json.RawMessage) error {
	return errors.New("connection reset by peer")
}

func TestProcessJobFinalizeFailureIsRetryable(t *testing.T) {
	mem := storage.NewMemoryStore()
	w := newTestWorker(t, &failingStore{MemoryStore: mem}, &fakeStatementParser{result: successResult()})
	msg := seededMessage(mem)

	err := w.processJob(context.Background(), msg)
	require.Error(t, err)
	assert.True(t, w.shouldRequeueJob(err), "unrecorded outcomes must requeue")
}

// sweepingParser finalizes the job mid-parse, as the timeout sweeper would.
type sweepingParser struct {
	store *storage.MemoryStore
}

func (p *sweepingParser) Parse(_ context.Context, jobID string, _ []byte) (*parser.Result, *parser.ParseError) {
	_ = p.store.CompleteFailure(context.Background(), jobID, "Timeout", "swept")
	return successResult(), nil
}

func TestProcessJobFinalizedElsewhereIsNotRetryable(t *testing.T) {
	store := storage.NewMemoryStore()
	w := newTestWorker(t, store, &sweepingParser{store: store})
	msg := seededMessage(store)

	err := w.processJob(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJobNotRunning)
	assert.False(t, w.shouldRequeueJob(err), "a swept job must not be requeued")

	snap, _ := store.Snapshot(msg.JobID)
	assert.Equal(t, "Timeout", snap.ErrorKind, "the sweeper's terminal state stands")
}

func TestShouldRequeueJob(t *testing.T) {
	w := newTestWorker(t, storage.NewMemoryStore(), &fakeStatementParser{})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "already claimed", err: domain.ErrJobAlreadyClaimed, want: false},
		{name: "not running", err: domain.ErrJobNotRunning, want: false},
		{name: "invalid message", err: domain.ErrInvalidMessage, want: false},
		{name: "retryable", err: domain.NewRetryableError(errors.New("db down")), want: true},
		{name: "unknown", err: errors.New("unclassified"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.shouldRequeueJob(tt.err))
		})
	}
}
