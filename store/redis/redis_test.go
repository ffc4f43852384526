package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/roshanshetty271/ShipOrSkip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisCheckpointStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewRedisCheckpointStore(RedisOptions{Addr: mr.Addr(), TTL: ttl})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisCheckpointStore(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()
	runID := "run-123"

	cp := &store.Checkpoint{
		ID:        "cp-1",
		RunID:     runID,
		NodeName:  "plan",
		Step:      1,
		State:     map[string]any{"cleaned_idea": "AI movie verdict app"},
		Timestamp: time.Now(),
	}

	// Test Save
	err := s.Save(ctx, cp)
	assert.NoError(t, err)

	// Test Load
	loaded, err := s.Load(ctx, "cp-1")
	assert.NoError(t, err)
	assert.Equal(t, cp.ID, loaded.ID)
	assert.Equal(t, cp.NodeName, loaded.NodeName)
	assert.Equal(t, runID, loaded.RunID)
	assert.Equal(t, "AI movie verdict app", loaded.State["cleaned_idea"])

	// Test List
	list, err := s.List(ctx, runID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, cp.ID, list[0].ID)

	// Test Delete
	err = s.Delete(ctx, "cp-1")
	assert.NoError(t, err)

	_, err = s.Load(ctx, "cp-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err = s.List(ctx, runID)
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisCheckpointStore_ListOrdersByStep(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	for _, cp := range []*store.Checkpoint{
		{ID: "c", RunID: "run", NodeName: "deduplicate", Step: 3},
		{ID: "a", RunID: "run", NodeName: "plan", Step: 1},
		{ID: "b", RunID: "run", NodeName: "search_code,search_launch,search_web", Step: 2},
	} {
		require.NoError(t, s.Save(ctx, cp))
	}

	list, err := s.List(ctx, "run")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestRedisCheckpointStore_Clear(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "a1", RunID: "run-a", Step: 1}))
	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "a2", RunID: "run-a", Step: 2}))
	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "b1", RunID: "run-b", Step: 1}))

	require.NoError(t, s.Clear(ctx, "run-a"))

	list, err := s.List(ctx, "run-a")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.List(ctx, "run-b")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Clearing an unknown run is a no-op.
	assert.NoError(t, s.Clear(ctx, "missing"))
}

func TestRedisCheckpointStore_TTL(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "cp", RunID: "run", Step: 1}))

	assert.Equal(t, time.Hour, mr.TTL("shiporskip:checkpoint:cp"))
	assert.Equal(t, time.Hour, mr.TTL("shiporskip:run:run:checkpoints"))

	mr.FastForward(2 * time.Hour)

	_, err := s.Load(ctx, "cp")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisCheckpointStore_ListSkipsExpired(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "keep", RunID: "run", Step: 1}))
	require.NoError(t, s.Save(ctx, &store.Checkpoint{ID: "gone", RunID: "run", Step: 2}))
	mr.Del("shiporskip:checkpoint:gone")

	list, err := s.List(ctx, "run")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].ID)
}
