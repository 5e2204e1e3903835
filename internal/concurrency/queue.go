// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// JobQueue is the multi-producer/multi-consumer FIFO contract shared by
// the bounded lock-free ring (queue_ring.go) and the unbounded
// mutex-guarded variant (queue_locked.go). No fairness guarantee across
// producers or consumers; FIFO ordering is only guaranteed for pushes
// observed by a single producer against a single queue.

package concurrency

// JobQueue is implemented by ringQueue and lockedQueue.
type JobQueue interface {
	// PushBack appends job. Returns false only if a bounded
	// implementation is at capacity; an unbounded implementation never
	// returns false.
	PushBack(job Job) bool
	// PopFront removes and returns the oldest Job. Returns false if
	// the queue is empty.
	PopFront() (Job, bool)
	// Len returns the approximate number of queued jobs.
	Len() int
}
