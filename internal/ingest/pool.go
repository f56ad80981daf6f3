package ingest

import (
	"context"
	"sync"
	"sync/atomic"

	"photo-gallery/internal/logging"
)

// RunPool processes n indexed jobs with a bounded number of workers.
// Each index is handed to exactly one worker, so process may write to
// index-disjoint shared state without locking. Cancellation stops new
// jobs from being dispatched; jobs already picked up run to completion.
func RunPool(ctx context.Context, numWorkers, n int, process func(i int)) {
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var processed atomic.Int64

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobs {
				process(i)
				processed.Add(1)
			}
			logging.Debug("pool worker %d finished", id)
		}(w)
	}

	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			logging.Warn("pool cancelled after dispatching %d/%d jobs", i, n)
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()

	logging.Debug("pool complete: %d/%d jobs processed", processed.Load(), n)
}
