// File: internal/concurrency/queue_locked.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// lockedQueue is the unbounded job queue variant: a mutex-guarded ring
// (github.com/eapache/queue) backing an unlimited FIFO. Chosen over a
// bare slice to avoid the O(n) copy a slice-based pop would otherwise
// incur — queue.Queue grows its own ring instead of shifting elements.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

var _ JobQueue = (*lockedQueue)(nil)

type lockedQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func newLockedQueue() *lockedQueue {
	return &lockedQueue{q: queue.New()}
}

// PushBack appends job; always succeeds (unbounded).
func (l *lockedQueue) PushBack(job Job) bool {
	l.mu.Lock()
	l.q.Add(job)
	l.mu.Unlock()
	return true
}

// PopFront removes and returns the oldest Job; ok is false if empty.
func (l *lockedQueue) PopFront() (Job, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.q.Length() == 0 {
		return Job{}, false
	}
	job := l.q.Peek().(Job)
	l.q.Remove()
	return job, true
}

// Len returns the exact number of queued jobs.
func (l *lockedQueue) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.Length()
}
