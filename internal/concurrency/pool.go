// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PriorityPool owns one tier's worker threads, their per-worker job
// queues, the round-robin submit index, and the sleep/wake condition
// shared by all of the tier's workers. Grounded on the original
// JobSystem's single global job queue + wake mutex/condvar, generalized
// to one queue per worker for work-stealing, and on the teacher's
// internal/concurrency/executor.go Executor (round-robin local queues,
// global alive flag, graceful Close via WaitGroup).

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// PinFunc optionally binds the calling OS thread to a specific logical
// CPU core before a worker enters its loop. A nil PinFunc disables
// pinning. Errors are non-fatal: a worker that cannot pin simply runs
// unpinned.
type PinFunc func(cpuID int) error

// PanicHandler is invoked (never with a nil argument) when a user Task
// panics. It must not itself panic.
type PanicHandler func(recovered any)

// PriorityPool is one priority tier's worker pool.
type PriorityPool struct {
	queues  []JobQueue
	workers []*worker
	pending atomic.Int64

	nextSubmit atomic.Uint64

	wakeMu   sync.Mutex
	wakeCond *sync.Cond

	alive *atomic.Bool
	wg    sync.WaitGroup

	onPanic PanicHandler
}

// PoolOptions configures a PriorityPool at construction.
type PoolOptions struct {
	ThreadCount   int
	Bounded       bool
	QueueCapacity int // only meaningful when Bounded is true
	// Pin, when non-nil, is called once by each worker with a distinct
	// logical CPU index before it enters its loop.
	Pin     PinFunc
	PinBase int // first CPU index to offer workers of this pool
	OnPanic PanicHandler
}

// NewPriorityPool constructs a pool and immediately launches its workers.
func NewPriorityPool(opts PoolOptions, alive *atomic.Bool) *PriorityPool {
	n := opts.ThreadCount
	if n < 1 {
		n = 1
	}
	p := &PriorityPool{alive: alive, onPanic: opts.OnPanic}
	p.wakeCond = sync.NewCond(&p.wakeMu)

	p.queues = make([]JobQueue, n)
	for i := range p.queues {
		if opts.Bounded {
			p.queues[i] = newRingQueue(opts.QueueCapacity)
		} else {
			p.queues[i] = newLockedQueue()
		}
	}

	p.workers = make([]*worker, n)
	for i := 0; i < n; i++ {
		w := &worker{id: i, pool: p}
		if opts.Pin != nil {
			cpuID := opts.PinBase + i
			w.pin = func() error { return opts.Pin(cpuID) }
		}
		p.workers[i] = w
		p.wg.Add(1)
		go w.run()
	}
	return p
}

// ThreadCount returns the number of workers in this pool.
func (p *PriorityPool) ThreadCount() int { return len(p.queues) }

// Pending returns the approximate number of jobs submitted to this pool
// that have not yet completed (queued or in-flight).
func (p *PriorityPool) Pending() int64 { return p.pending.Load() }

// nextIndex returns the next round-robin queue index in [0, n).
func (p *PriorityPool) nextIndex() int {
	n := uint64(len(p.queues))
	return int((p.nextSubmit.Add(1) - 1) % n)
}

// SignalOne wakes at most one sleeping worker (Execute's notify_one).
func (p *PriorityPool) SignalOne() {
	p.wakeMu.Lock()
	p.wakeCond.Signal()
	p.wakeMu.Unlock()
}

// SignalAll wakes every sleeping worker (Dispatch's notify_all, and the
// back-pressure retry loop's notification before each cooperative drain).
func (p *PriorityPool) SignalAll() {
	p.wakeMu.Lock()
	p.wakeCond.Broadcast()
	p.wakeMu.Unlock()
}

// Submit places job on a round-robin queue, cooperatively draining and
// executing one available job itself whenever the chosen queue is at
// capacity, until the push finally succeeds. Never drops a job.
func (p *PriorityPool) Submit(job Job) {
	p.pending.Add(1)
	idx := p.nextIndex()
	var sp scratchPool
	for !p.queues[idx].PushBack(job) {
		p.SignalAll()
		if !p.executeOneAvailable(idx, &sp) {
			runtime.Gosched()
		}
	}
}

// RunInline executes job synchronously on the calling goroutine, used
// by the Dispatcher when this pool has a single worker. Concurrent
// inline callers are possible (a single-worker pool still accepts
// concurrent Execute/Dispatch calls from different goroutines), so each
// call allocates its own scratch buffer rather than sharing one across
// a pool-level scratchPool.
func (p *PriorityPool) RunInline(job Job) {
	p.pending.Add(1)
	var scratch []byte
	if job.SharedMemoryBytes > 0 {
		scratch = make([]byte, job.SharedMemoryBytes)
	}
	job.run(scratch, p.onPanic)
	p.pending.Add(-1)
}

// executeOneAvailable scans every queue once, starting at start,
// executing (and removing) the first available job. Returns false if
// none was found across the whole pool.
func (p *PriorityPool) executeOneAvailable(start int, sp *scratchPool) bool {
	n := len(p.queues)
	for k := 0; k < n; k++ {
		idx := (start + k) % n
		if job, ok := p.queues[idx].PopFront(); ok {
			p.runPopped(job, sp)
			return true
		}
	}
	return false
}

// DrainOnce performs one full scan-and-drain pass starting at start,
// using a throwaway scratch buffer. Exported for callers outside this
// package (scheduler.Wait) that need a single one-shot drain without
// access to the unexported scratchPool type used by persistent workers.
func (p *PriorityPool) DrainOnce(start int) bool {
	var sp scratchPool
	return p.ScanAndDrain(start, &sp)
}

// ScanAndDrain performs one full local-first, then work-stealing pass:
// for each queue starting at start, repeatedly pop and execute until
// that queue is empty, then advance to the next. Returns true if any
// job was executed. Shared by the worker main loop and by Wait's
// one-shot drain.
func (p *PriorityPool) ScanAndDrain(start int, sp *scratchPool) bool {
	n := len(p.queues)
	did := false
	for k := 0; k < n; k++ {
		idx := (start + k) % n
		for {
			job, ok := p.queues[idx].PopFront()
			if !ok {
				break
			}
			did = true
			p.runPopped(job, sp)
		}
	}
	return did
}

func (p *PriorityPool) runPopped(job Job, sp *scratchPool) {
	var scratch []byte
	if job.SharedMemoryBytes > 0 {
		scratch = sp.get(job.SharedMemoryBytes)
	}
	job.run(scratch, p.onPanic)
	p.pending.Add(-1)
}

// NextStart returns a round-robin starting index for callers that, like
// Wait, need to perform one scan-and-drain pass without submitting a job.
func (p *PriorityPool) NextStart() int { return p.nextIndex() }

// Join blocks until every worker in the pool has exited its loop. Must
// only be called after alive has been set to false and the wake
// condition has been (repeatedly) broadcast.
func (p *PriorityPool) Join() { p.wg.Wait() }
