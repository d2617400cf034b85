// Package parallel provides the goroutine worker pool that runs the copy
// phase of a merge.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when work is submitted to a closed pool.
var ErrPoolClosed = errors.New("parallel: worker pool is closed")

// WorkerPool is a pool of goroutines for parallel copy work.
//
// The pool distributes units across workers, each with their own queue.
// Workers steal from other queues when their own is empty, which helps when
// some units are slower than others. Every unit still runs exactly once on
// exactly one goroutine.
//
// A WorkerPool is an explicit object owned by its creator; nothing in this
// module keeps a process-wide pool.
//
// Thread safety: WorkerPool is safe for concurrent use. Several Run calls
// may share one pool.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker work queues.
	workQueues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}

	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(myQueue)
				return
			case work := <-myQueue:
				if work != nil {
					work()
				}
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}

		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run executes every unit on the pool and waits for all of them.
//
// Units are dealt round-robin to the worker queues. Once a unit fails, units
// that have not started yet are skipped; units already running finish. Run
// returns the first error reported, or ErrPoolClosed when the pool was
// closed before every unit was queued.
func (p *WorkerPool) Run(units []func() error) error {
	if len(units) == 0 {
		return nil
	}
	if !p.running.Load() {
		return ErrPoolClosed
	}

	var (
		wg       sync.WaitGroup
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
		failed.Store(true)
	}

	wg.Add(len(units))
	for i, unit := range units {
		wrapped := func() {
			defer wg.Done()
			if failed.Load() {
				return
			}
			if err := unit(); err != nil {
				fail(err)
			}
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			// Not queued: account for this unit and every one after it.
			fail(ErrPoolClosed)
			for range units[i:] {
				wg.Done()
			}
			wg.Wait()
			return firstErr
		}
	}

	wg.Wait()
	return firstErr
}

// Close gracefully shuts down the pool.
// Queued work is drained before the workers exit.
// Close is safe to call multiple times but must not race with Run.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
