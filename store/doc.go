// Package store persists research run checkpoints.
//
// After every superstep of a research run the pipeline may save a Checkpoint:
// the run ID, the nodes that just ran, the step number and a small summary of
// the merged state (counts, the cleaned idea, the failure kind). Fetched pages
// and README text are never stored. Checkpoints let an operator see how far a
// run got and what each stage produced; they are not used to resume runs.
//
// All backends implement CheckpointStore:
//
//	type CheckpointStore interface {
//	    Save(ctx context.Context, checkpoint *Checkpoint) error
//	    Load(ctx context.Context, checkpointID string) (*Checkpoint, error)
//	    List(ctx context.Context, runID string) ([]*Checkpoint, error)
//	    Delete(ctx context.Context, checkpointID string) error
//	    Clear(ctx context.Context, runID string) error
//	}
//
// # Available Implementations
//
//   - store/memory: process-local map, for tests and one-shot CLI runs
//   - store/redis: go-redis with optional TTL expiry
//   - store/sqlite: mattn/go-sqlite3 file database
//   - store/postgres: pgx connection pool, JSONB state column
//
// Example:
//
//	cps := redis.NewRedisCheckpointStore(redis.RedisOptions{
//	    Addr: "localhost:6379",
//	    TTL:  24 * time.Hour,
//	})
//	p := research.NewPipeline(research.Dependencies{Checkpoints: cps, ...}, opts)
//
// Save failures never fail a run; the pipeline logs them and carries on.
package store
