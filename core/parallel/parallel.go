// Package parallel provides helpers for splitting embarrassingly parallel
// batch work across CPU cores. Both the margin transform and pair scoring
// are data-parallel across the sample dimension with no ordering
// dependency between samples.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into per-core contiguous ranges and runs fn
// on each range concurrently, blocking until every range has completed.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at or below threshold, and parallelizes otherwise. Small batches
// are cheaper to process on one core than to fan out.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}
