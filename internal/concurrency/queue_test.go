// File: internal/concurrency/queue_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/jobsystem/api"
)

func TestRingQueue_PushPopFIFO(t *testing.T) {
	q := newRingQueue(4)
	for i := 0; i < 4; i++ {
		if !q.PushBack(Job{GroupID: uint32(i)}) {
			t.Fatalf("push %d: expected success", i)
		}
	}
	if q.PushBack(Job{GroupID: 99}) {
		t.Fatalf("push into full ring should fail")
	}
	for i := 0; i < 4; i++ {
		job, ok := q.PopFront()
		if !ok {
			t.Fatalf("pop %d: expected a job", i)
		}
		if job.GroupID != uint32(i) {
			t.Fatalf("pop %d: got GroupID %d, want %d", i, job.GroupID, i)
		}
	}
	if _, ok := q.PopFront(); ok {
		t.Fatalf("pop from empty ring should fail")
	}
}

func TestRingQueue_MPMC(t *testing.T) {
	q := newRingQueue(64)
	const producers, consumers, perProducer = 8, 8, 2000
	total := int64(producers * perProducer)

	var wg sync.WaitGroup
	var sent, received int64
	var receivedCount int64

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				val := int64(pid*perProducer + i + 1)
				for !q.PushBack(Job{GroupID: uint32(val)}) {
					runtime.Gosched()
				}
				atomic.AddInt64(&sent, val)
			}
		}(p)
	}

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				if job, ok := q.PopFront(); ok {
					atomic.AddInt64(&received, int64(job.GroupID))
					if atomic.AddInt64(&receivedCount, 1) == total {
						return
					}
				} else if atomic.LoadInt64(&receivedCount) >= total {
					return
				} else {
					runtime.Gosched()
				}
			}
		}()
	}

	wg.Wait()
	done := make(chan struct{})
	go func() { cwg.Wait(); close(done) }()
	select {
	case <-done:
		if sent != received {
			t.Fatalf("checksum mismatch: sent %d, received %d", sent, received)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for consumers (%d/%d)", atomic.LoadInt64(&receivedCount), total)
	}
}

func TestLockedQueue_PushPopFIFO(t *testing.T) {
	q := newLockedQueue()
	for i := 0; i < 10; i++ {
		if !q.PushBack(Job{GroupID: uint32(i)}) {
			t.Fatalf("push %d: unbounded queue should never reject", i)
		}
	}
	if q.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", q.Len())
	}
	for i := 0; i < 10; i++ {
		job, ok := q.PopFront()
		if !ok || job.GroupID != uint32(i) {
			t.Fatalf("pop %d: got (%v, %v), want (%d, true)", i, job.GroupID, ok, i)
		}
	}
}

func TestScratchPool_GrowsAndReuses(t *testing.T) {
	var sp scratchPool
	a := sp.get(16)
	if len(a) != 16 {
		t.Fatalf("len(a) = %d, want 16", len(a))
	}
	a[0] = 42
	b := sp.get(8)
	if len(b) != 8 {
		t.Fatalf("len(b) = %d, want 8", len(b))
	}
	if &b[0] != &a[0] {
		t.Fatalf("expected reuse of the same backing array for a smaller request")
	}
}

func TestJob_RunInvokesInOrderAndDecrementsOnce(t *testing.T) {
	ctx := api.NewContext(api.High)
	ctx.Add(1)

	var mu sync.Mutex
	var order []uint32
	job := Job{
		Ctx:   ctx,
		Begin: 5, End: 9,
		Task: func(a api.JobArguments) {
			mu.Lock()
			order = append(order, a.JobIndex)
			mu.Unlock()
		},
	}
	job.run(nil, nil)

	want := []uint32{5, 6, 7, 8}
	if len(order) != len(want) {
		t.Fatalf("invocations = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if ctx.IsBusy() {
		t.Fatalf("context still busy after job.run completed")
	}
}

func TestJob_RunRecoversPanicAndStillDecrements(t *testing.T) {
	ctx := api.NewContext(api.High)
	ctx.Add(1)

	var recovered any
	job := Job{
		Ctx:   ctx,
		Begin: 0, End: 1,
		Task: func(api.JobArguments) { panic("boom") },
	}
	job.run(nil, func(r any) { recovered = r })

	if recovered == nil {
		t.Fatalf("expected onPanic to be invoked")
	}
	if ctx.IsBusy() {
		t.Fatalf("context still busy after a panicking job")
	}
}
