package sagalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a saga has no rows.
var ErrNotFound = errors.New("sagalog: saga not found")

// Repository persists saga log entries. The orchestrator depends on this
// port; SQLite backs it in production and MemoryRepository in tests.
type Repository interface {
	// Save appends a row; existing rows are never updated.
	Save(ctx context.Context, entry *SagaLog) error
	// History returns every row of the saga, oldest first.
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
	// GetLatest returns the newest row or ErrNotFound.
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
}
