package store

import (
	"context"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by Load when no checkpoint has the requested ID.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is a compact record of a research run after one superstep.
// State holds counts and labels only, never fetched content.
type Checkpoint struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	NodeName  string         `json:"node_name"`
	Step      int            `json:"step"`
	State     map[string]any `json:"state"`
	Timestamp time.Time      `json:"timestamp"`
}

// CheckpointStore defines the interface for checkpoint persistence
type CheckpointStore interface {
	// Save stores a checkpoint
	Save(ctx context.Context, checkpoint *Checkpoint) error

	// Load retrieves a checkpoint by ID
	Load(ctx context.Context, checkpointID string) (*Checkpoint, error)

	// List returns all checkpoints of a run ordered by step
	List(ctx context.Context, runID string) ([]*Checkpoint, error)

	// Delete removes a checkpoint
	Delete(ctx context.Context, checkpointID string) error

	// Clear removes all checkpoints of a run
	Clear(ctx context.Context, runID string) error
}

// SortByStep orders checkpoints by step, then timestamp.
func SortByStep(cps []*Checkpoint) {
	slices.SortStableFunc(cps, func(a, b *Checkpoint) int {
		if a.Step != b.Step {
			return a.Step - b.Step
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}
