// Package sagalog records every state transition of a work order submission.
//
// Rows are append-only. The latest row for a folder is its current state, and
// the trace_id column links a row to the request trace that produced it.
package sagalog

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusCompensated  Status = "COMPENSATED"
	StatusFailed       Status = "FAILED"
)

// Terminal reports whether no further rows are expected for the saga.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCompensated || s == StatusFailed
}

// SagaLog is one row of the saga_logs table.
type SagaLog struct {
	// SagaID is the work order folder, e.g. 20240115_1234.
	SagaID string `json:"saga_id"`

	Status Status `json:"status"`

	// CurrentStep is the step that just ran, failed or was compensated.
	CurrentStep string `json:"current_step"`

	// Payload is the submitted work order JSON, written on STARTED only.
	Payload string `json:"payload,omitempty"`

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string `json:"error_messages"`

	TraceID   string    `json:"trace_id,omitempty"`
	SpanID    string    `json:"span_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Errors decodes ErrorMessages; a malformed column yields nil.
func (l *SagaLog) Errors() []string {
	var errs []string
	if err := json.Unmarshal([]byte(l.ErrorMessages), &errs); err != nil {
		return nil
	}
	return errs
}
