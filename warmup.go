package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// warmupConcurrency bounds how many warmup computations run at once.
const warmupConcurrency = 8

// WarmupTask pairs a cache key with the computation that produces its
// value.
type WarmupTask[V any] struct {
	Key          string
	Compute      func(context.Context) (V, error)
	TTL          time.Duration // zero means the cache default
	Dependencies []string
}

// Warmup pre-populates the cache by running every task's computation
// concurrently and storing each successful result under its key. A
// failing task is logged and skipped; it never prevents the other tasks
// from populating the cache. Returns the number of entries stored.
func (c *Cache[V]) Warmup(ctx context.Context, tasks []WarmupTask[V]) int {
	var g errgroup.Group
	g.SetLimit(warmupConcurrency)

	var stored atomic.Int64
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			v, err := task.Compute(ctx)
			if err != nil {
				c.cfg.logger.Warn().Str("key", task.Key).Err(err).Msg("cache warmup task failed")
				return nil
			}

			opts := make([]SetOption, 0, 2)
			if task.TTL > 0 {
				opts = append(opts, WithTTL(task.TTL))
			}
			if len(task.Dependencies) > 0 {
				opts = append(opts, WithDependencies(task.Dependencies...))
			}
			c.Set(task.Key, v, opts...)
			stored.Add(1)
			return nil
		})
	}

	// Task errors are handled per task; Wait only synchronizes.
	_ = g.Wait()
	return int(stored.Load())
}
