package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roshanshetty271/ShipOrSkip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SqliteCheckpointStore {
	t.Helper()
	s, err := NewSqliteCheckpointStore(SqliteOptions{
		Path: filepath.Join(t.TempDir(), "checkpoints.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteCheckpointStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cp := &store.Checkpoint{
		ID:        "cp-1",
		RunID:     "run-1",
		NodeName:  "deep_fetch",
		Step:      4,
		State:     map[string]any{"readmes": 3, "pages": 5},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, s.Save(ctx, cp))

	loaded, err := s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, cp.RunID, loaded.RunID)
	assert.Equal(t, cp.NodeName, loaded.NodeName)
	assert.Equal(t, 4, loaded.Step)
	assert.Equal(t, float64(5), loaded.State["pages"])
	assert.True(t, cp.Timestamp.Equal(loaded.Timestamp))

	// Saving the same ID updates the row.
	cp.Step = 5
	require.NoError(t, s.Save(ctx, cp))
	loaded, err = s.Load(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Step)

	require.NoError(t, s.Delete(ctx, "cp-1"))
	_, err = s.Load(ctx, "cp-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSqliteCheckpointStore_ListAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, step := range []int{2, 1, 3} {
		require.NoError(t, s.Save(ctx, &store.Checkpoint{
			ID:        string(rune('a' + i)),
			RunID:     "run-a",
			Step:      step,
			State:     map[string]any{},
			Timestamp: now,
		}))
	}
	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "z", RunID: "run-b", Step: 1, Timestamp: now}))

	list, err := s.List(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, cp := range list {
		assert.Equal(t, i+1, cp.Step)
	}

	require.NoError(t, s.Clear(ctx, "run-a"))
	list, err = s.List(ctx, "run-a")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.List(ctx, "run-b")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
