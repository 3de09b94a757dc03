package domain

import (
	"errors"
)

const (
	JobStatusPending = "PENDING"
	JobStatusRunning = "RUNNING"
	JobStatusSuccess = "SUCCESS"
	JobStatusFailed  = "FAILED"
)

var (
	ErrJobNotFound = errors.New("job not found")
)
