package sagalog

import (
	"context"
	"fmt"
	"sync"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps rows in process. Used when no saga log path is set.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string][]SagaLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string][]SagaLog)}
}

func (m *MemoryRepository) Save(_ context.Context, entry *SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[entry.SagaID] = append(m.rows[entry.SagaID], *entry)
	return nil
}

func (m *MemoryRepository) History(_ context.Context, sagaID string) ([]SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.rows[sagaID]
	out := make([]SagaLog, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *MemoryRepository) GetLatest(_ context.Context, sagaID string) (*SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.rows[sagaID]
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, sagaID)
	}
	last := rows[len(rows)-1]
	return &last, nil
}
