package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/roshanshetty271/ShipOrSkip/store"
)

// MemoryCheckpointStore keeps checkpoints in process memory.
type MemoryCheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[string]*store.Checkpoint
}

// NewMemoryCheckpointStore creates an empty in-memory store.
func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{
		checkpoints: make(map[string]*store.Checkpoint),
	}
}

// Save stores a copy of checkpoint.
func (m *MemoryCheckpointStore) Save(_ context.Context, checkpoint *store.Checkpoint) error {
	if checkpoint == nil || checkpoint.ID == "" {
		return fmt.Errorf("checkpoint id is required")
	}
	cp := *checkpoint
	m.mu.Lock()
	m.checkpoints[cp.ID] = &cp
	m.mu.Unlock()
	return nil
}

// Load retrieves a checkpoint by ID.
func (m *MemoryCheckpointStore) Load(_ context.Context, checkpointID string) (*store.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, ok := m.checkpoints[checkpointID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, checkpointID)
	}
	out := *cp
	return &out, nil
}

// List returns the checkpoints of runID ordered by step.
func (m *MemoryCheckpointStore) List(_ context.Context, runID string) ([]*store.Checkpoint, error) {
	m.mu.RLock()
	var out []*store.Checkpoint
	for _, cp := range m.checkpoints {
		if cp.RunID == runID {
			c := *cp
			out = append(out, &c)
		}
	}
	m.mu.RUnlock()

	store.SortByStep(out)
	return out, nil
}

// Delete removes a checkpoint. Unknown IDs are ignored.
func (m *MemoryCheckpointStore) Delete(_ context.Context, checkpointID string) error {
	m.mu.Lock()
	delete(m.checkpoints, checkpointID)
	m.mu.Unlock()
	return nil
}

// Clear removes every checkpoint of runID.
func (m *MemoryCheckpointStore) Clear(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cp := range m.checkpoints {
		if cp.RunID == runID {
			delete(m.checkpoints, id)
		}
	}
	return nil
}
