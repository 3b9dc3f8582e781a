package hermetica

import (
	"runtime"
	"sync"
)

// parallelRows enqueues row-parallel kernel work on a stream. Each
// output row of a Hermitian update is independent, so rows are the unit
// of fan-out; every element's accumulation stays within one goroutine
// and keeps a fixed order.
func (ctx *Context) parallelRows(stream *Stream, n int, fn func(i int)) {
	if n <= 0 {
		// Submit an empty task to maintain stream ordering
		stream.Submit(func() {})
		return
	}

	if n < MinParallelRows {
		stream.Submit(func() {
			for i := 0; i < n; i++ {
				fn(i)
			}
		})
		return
	}

	numWorkers := runtime.NumCPU()
	if n < numWorkers {
		numWorkers = n
	}

	// Cache-aware scheduling: each worker processes a contiguous run
	// of rows to maximize cache reuse
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for workerID := 0; workerID < numWorkers; workerID++ {
			start := workerID * rowsPerWorker
			end := start + rowsPerWorker
			if end > n {
				end = n
			}

			go func(start, end int) {
				defer wg.Done()
				for i := start; i < end; i++ {
					fn(i)
				}
			}(start, end)
		}

		wg.Wait()
	})
}

// enqueue runs fn as a single ordered task on the stream.
func (ctx *Context) enqueue(stream *Stream, fn func()) {
	stream.Submit(fn)
}
