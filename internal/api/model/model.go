package model

import (
	"database/sql"
	"time"
)

// Job is the jobs table row as the API reads it. The statement bytes are
// deliberately absent: they exist only in the queue message.
type Job struct {
	JobID        string         `db:"job_id"`
	Status       string         `db:"status"`
	Provider     sql.NullString `db:"provider"`
	Result       []byte         `db:"result"`
	ErrorKind    sql.NullString `db:"error_kind"`
	ErrorMessage sql.NullString `db:"error_message"`
	WorkerID     sql.NullString `db:"worker_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	StartedAt    sql.NullTime   `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
}
