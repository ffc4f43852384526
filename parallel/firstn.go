package parallel

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Task is one unit of work raced by FirstN.
type Task[T any] func(ctx context.Context) (T, error)

// Result is an accepted task value together with the task's position in the
// input slice.
type Result[T any] struct {
	Index int
	Value T
}

type outcome[T any] struct {
	index int
	value T
	err   error
}

// FirstN starts tasks in input order with at most limit running at once and
// returns as soon as n of them produced a value accepted by accept. The
// context handed to still-running tasks is cancelled at that point and
// FirstN returns without waiting for them; their errors are discarded.
//
// Results are in arrival order. When fewer than n tasks succeed, every
// accepted value is returned once all tasks have settled. A nil accept
// takes every value returned without error. A limit <= 0 means no bound.
func FirstN[T any](ctx context.Context, n, limit int, tasks []Task[T], accept func(T) bool) []Result[T] {
	if n <= 0 || len(tasks) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}
	if accept == nil {
		accept = func(T) bool { return true }
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(limit))
	out := make(chan outcome[T], len(tasks))

	go func() {
		var wg sync.WaitGroup
		for i, task := range tasks {
			if err := sem.Acquire(runCtx, 1); err != nil {
				break
			}
			idx, t := i, task
			SafeGo(&wg, func() {
				defer sem.Release(1)
				v, err := t(runCtx)
				out <- outcome[T]{index: idx, value: v, err: err}
			}, func(p any) {
				out <- outcome[T]{index: idx, err: fmt.Errorf("panic in task %d: %v", idx, p)}
			})
		}
		wg.Wait()
		close(out)
	}()

	results := make([]Result[T], 0, n)
	for o := range out {
		if o.err != nil || !accept(o.value) {
			continue
		}
		results = append(results, Result[T]{Index: o.index, Value: o.value})
		if len(results) == n {
			return results
		}
	}
	return results
}
