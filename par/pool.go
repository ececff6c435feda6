// Package par provides a persistent worker pool for data-parallel loops
// over index ranges.
package par

import (
	"runtime"
	"sync"
)

// serialThreshold is the minimum item count to use the worker pool.
// Below this, single-threaded is faster due to dispatch overhead.
const serialThreshold = 64

// task is one chunk of a loop dispatched to a worker.
type task struct {
	chunk, start, end int
	fn                func(chunk, start, end int)
}

// Pool runs data-parallel loops on persistent worker goroutines. Each
// ForEach call blocks until every chunk has completed, so consecutive
// calls are separated by a full barrier. A Pool must be driven from a
// single goroutine; the loop bodies it runs are what execute in parallel.
type Pool struct {
	numWorkers int

	workChan chan task
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewPool creates a pool with the given worker count.
// workers <= 0 selects GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the worker count, which is also the maximum number of
// chunks a loop is split into.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Start launches the persistent worker goroutines. ForEach starts the
// pool on first use, so calling Start is only needed to front-load the
// goroutine creation.
func (p *Pool) Start() {
	if p.running {
		return
	}

	p.workChan = make(chan task, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case t, ok := <-p.workChan:
			if !ok {
				return
			}
			t.fn(t.chunk, t.start, t.end)
			p.doneChan <- struct{}{}
		}
	}
}

// ForEach splits [0, n) into contiguous chunks, runs fn over the chunks
// concurrently, and returns once all of them have completed. fn must
// confine its writes to state owned by indexes in its range.
func (p *Pool) ForEach(n int, fn func(start, end int)) {
	p.ForEachChunk(n, func(_, start, end int) {
		fn(start, end)
	})
}

// ForEachChunk is ForEach with the chunk number exposed, for callers that
// keep per-chunk scratch state. The chunking is deterministic for a given
// n: at most Workers() chunks of size ceil(n / Workers()), so two calls
// with the same n see identical chunk boundaries.
func (p *Pool) ForEachChunk(n int, fn func(chunk, start, end int)) {
	if n <= 0 {
		return
	}

	if n < serialThreshold {
		fn(0, 0, n)
		return
	}

	if !p.running {
		p.Start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for c := 0; c < p.numWorkers; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- task{chunk: c, start: start, end: end, fn: fn}
		dispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
