// File: internal/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// worker is a single pool goroutine: scan-and-steal starting at its own
// home queue, then sleep on the pool's wake condition when a full pass
// finds nothing. Grounded on the original JobSystem's per-thread loop
// (TaskLoop + wait on m_WakeCondition) and the teacher's
// internal/concurrency/executor.go worker.run (optional thread pinning,
// panic containment at the task boundary).

package concurrency

import (
	"fmt"

	"github.com/momentics/jobsystem/affinity"
)

// worker owns one home queue index and a reusable scratch buffer.
type worker struct {
	id      int
	pool    *PriorityPool
	scratch scratchPool
	// pin, if set, binds the worker's OS thread to a logical CPU core
	// once before entering the loop. Pin errors are neither logged nor
	// reported (PoolOptions.OnPanic is for task panics only); they are
	// discarded here since affinity is advisory.
	pin func() error
}

// run is the worker's main loop: while the pool is alive, scan every
// queue starting at the worker's home index, draining each fully before
// moving to the next (local-first, then work-stealing). When a full
// pass finds nothing, sleep on the pool's wake condition until signaled
// or broadcast; spurious wakeups are tolerated by simply re-scanning.
func (w *worker) run() {
	defer w.pool.wg.Done()

	if w.pin != nil {
		_ = w.pin() // best-effort; unpinned execution is still correct
	}
	_ = affinity.SetThreadName(fmt.Sprintf("jobsystem-worker-%d", w.id))

	for w.pool.alive.Load() {
		if w.pool.ScanAndDrain(w.id, &w.scratch) {
			continue
		}
		w.pool.wakeMu.Lock()
		if w.pool.alive.Load() {
			w.pool.wakeCond.Wait()
		}
		w.pool.wakeMu.Unlock()
	}
}
