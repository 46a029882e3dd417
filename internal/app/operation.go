package app

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation tracks the CLI command being run. Its outcome is logged when the
// app closes.
type Operation struct {
	Name       string
	Parameters string
	Status     string // StatusSuccess or StatusError
	StartedAt  time.Time
}

// NewOperation creates an operation that starts now and succeeds unless
// marked otherwise.
func NewOperation(name, parameters string) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		Status:     StatusSuccess,
		StartedAt:  time.Now(),
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = StatusError
}

// Failed returns true if the operation has been marked as failed.
func (op *Operation) Failed() bool {
	return op.Status == StatusError
}

// Duration returns the time elapsed since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartedAt)
}
