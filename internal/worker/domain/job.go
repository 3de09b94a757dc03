package domain

// Job represents a parse job row as the worker sees it
type Job struct {
	JobID    string
	Status   string
	WorkerID string
}

// JobMessage is the queue message carrying one statement to parse. The
// document rides in the message body, base64 inside the JSON envelope; it is
// never written to the database and never logged.
type JobMessage struct {
	JobID       string `json:"job_id"`
	Document    []byte `json:"document"`
	DeliveryTag uint64 `json:"-"`
}
