package worker

import (
	"context"
	"sync"
)

// Result is the outcome of processing one item. Index is the item's position
// in the input slice.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Pool runs a function across items with a bounded number of goroutines.
type Pool struct {
	workers  int
	failFast bool
}

// NewPool builds a pool. workers below one is treated as one. With failFast
// set, the first error cancels work that has not started yet.
func NewPool(workers int, failFast bool) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, failFast: failFast}
}

// Map applies fn to every item and returns results in input order. Items
// skipped because ctx was cancelled carry the context error.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result[R], len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = Result[R]{Index: i, Err: err}
					continue
				}
				v, err := fn(ctx, items[i])
				results[i] = Result[R]{Index: i, Value: v, Err: err}
				if err != nil && p.failFast {
					cancel()
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
