package systems

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the minimum item count to use parallel processing.
// Below this, running the chunk inline is faster than the channel round trip.
const DefaultParallelThreshold = 2048

// ChunkFunc processes items [start, end) on behalf of worker.
// worker is stable for the duration of the call and indexes per-worker scratch.
type ChunkFunc func(start, end, worker int)

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	start, end int
}

// Pool runs data-parallel passes on a fixed set of persistent goroutines.
// Run returns only after every chunk has finished, so consecutive calls are
// separated by a full barrier. Run is not safe for concurrent use.
type Pool struct {
	numWorkers int
	threshold  int

	// fn is the pass being executed. Written before chunks are sent and read
	// by workers after they receive one.
	fn ChunkFunc

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; threshold <= 0 uses
// DefaultParallelThreshold.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &Pool{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// Workers returns the number of worker slots (and scratch slots callers need).
func (p *Pool) Workers() int {
	return p.numWorkers
}

// startWorkers launches persistent worker goroutines.
func (p *Pool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end, workerID)
			p.doneChan <- struct{}{}
		}
	}
}

// Run executes fn over [0, n) and blocks until all of it is done.
func (p *Pool) Run(n int, fn ChunkFunc) {
	if n <= 0 {
		return
	}

	// Single-threaded for small passes
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, n, 0)
		return
	}

	if !p.running {
		p.startWorkers()
	}
	p.fn = fn

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Barrier: the pass is complete only when every chunk reported back
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	p.fn = nil
}

// Close signals all workers to exit and waits for them.
func (p *Pool) Close() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}
