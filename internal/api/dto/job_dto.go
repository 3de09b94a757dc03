package dto

import "encoding/json"

// JobMessage is the queue envelope carrying one statement to the workers.
// The document travels base64-encoded inside the JSON body.
type JobMessage struct {
	JobID    string `json:"job_id"`
	Document []byte `json:"document"`
}

// SubmitResponse acknowledges an accepted statement.
type SubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ErrorDTO is the taxonomy entry of a failed job.
type ErrorDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StatusResponse reports a job's current state. Result and Error are mutually
// exclusive; Provider and ProcessingTimeMs appear once known.
type StatusResponse struct {
	JobID            string          `json:"job_id"`
	Status           string          `json:"status"`
	Provider         string          `json:"provider,omitempty"`
	Result           json.RawMessage `json:"result,omitempty"`
	Error            *ErrorDTO       `json:"error,omitempty"`
	ProcessingTimeMs *int64          `json:"processing_time_ms,omitempty"`
	CreatedAt        string          `json:"created_at"`
	CompletedAt      string          `json:"completed_at,omitempty"`
}
