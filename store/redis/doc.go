// Package redis stores research run checkpoints in Redis.
//
// Checkpoints live under {prefix}checkpoint:{id} as JSON. Every run keeps a
// sorted set {prefix}run:{run_id}:checkpoints of its checkpoint IDs scored by
// step, so List returns them in pipeline order. With a TTL both the
// checkpoint keys and the run index expire; List skips index entries whose
// checkpoint already expired.
//
//	cps := redis.NewRedisCheckpointStore(redis.RedisOptions{
//		Addr: "localhost:6379",
//		TTL:  24 * time.Hour,
//	})
//	defer cps.Close()
package redis
