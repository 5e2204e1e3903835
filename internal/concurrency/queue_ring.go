// File: internal/concurrency/queue_ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ringQueue is a bounded, lock-free MPMC job queue: a power-of-two
// circular buffer of cells, each carrying a sequence number used to
// detect producer/consumer races without a mutex. Head and tail are
// padded to separate their cache lines (false-sharing avoidance).

package concurrency

import "sync/atomic"

var _ JobQueue = (*ringQueue)(nil)

type ringCell struct {
	sequence atomic.Uint64
	job      Job
}

type ringQueue struct {
	head uint64
	_    [56]byte // pad: head and tail live on separate cache lines
	tail uint64
	_    [56]byte
	mask uint64
	cells []ringCell
}

// newRingQueue allocates a bounded ring rounded up to the next power of two.
func newRingQueue(capacity int) *ringQueue {
	size := uint64(2)
	for size < uint64(capacity) {
		size <<= 1
	}
	q := &ringQueue{mask: size - 1, cells: make([]ringCell, size)}
	for i := range q.cells {
		q.cells[i].sequence.Store(uint64(i))
	}
	return q
}

// PushBack appends job; returns false if the ring is at capacity.
func (q *ringQueue) PushBack(job Job) bool {
	for {
		tail := atomic.LoadUint64(&q.tail)
		cell := &q.cells[tail&q.mask]
		seq := cell.sequence.Load()
		diff := int64(seq) - int64(tail)

		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				cell.job = job
				cell.sequence.Store(tail + 1)
				return true
			}
		case diff < 0:
			return false // full
		default:
			// another producer advanced tail; retry
		}
	}
}

// PopFront removes and returns the oldest Job; ok is false if empty.
func (q *ringQueue) PopFront() (Job, bool) {
	for {
		head := atomic.LoadUint64(&q.head)
		cell := &q.cells[head&q.mask]
		seq := cell.sequence.Load()
		diff := int64(seq) - int64(head+1)

		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				job := cell.job
				cell.job = Job{}
				cell.sequence.Store(head + q.mask + 1)
				return job, true
			}
		case diff < 0:
			return Job{}, false // empty
		default:
			// another consumer advanced head; retry
		}
	}
}

// Len returns the approximate number of queued jobs.
func (q *ringQueue) Len() int {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)
	return int(tail - head)
}

// Cap returns the fixed capacity of the ring.
func (q *ringQueue) Cap() int {
	return len(q.cells)
}
