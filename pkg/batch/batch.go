// Package batch runs an operation over a list of items with a bounded
// concurrency window. Items are partitioned into consecutive chunks; every
// item inside a chunk runs concurrently and chunks run strictly one after
// another, so at most `limit` operations are ever in flight.
package batch

import (
	"context"
	"fmt"
	"sync"
)

// DefaultConcurrency is the chunk size used when callers pass a
// non-positive limit.
const DefaultConcurrency = 6

// Process maps fn over items and returns the results in the original item
// order. The first failed item (by input order within the failed chunk)
// aborts the whole batch after its chunk settles; later chunks never start.
// Callers that need per-item resilience must recover inside fn.
func Process[I, R any](ctx context.Context, items []I, fn func(context.Context, I) (R, error), limit int) ([]R, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	for start := 0; start < len(items); start += limit {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := start + limit
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				result, err := fn(ctx, items[idx])
				if err != nil {
					errs[idx] = err
					return
				}
				results[idx] = result
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if errs[i] != nil {
				return nil, fmt.Errorf("batch item %d failed: %w", i, errs[i])
			}
		}
	}

	return results, nil
}
