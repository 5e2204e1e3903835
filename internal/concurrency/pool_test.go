// File: internal/concurrency/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/jobsystem/api"
)

func TestPriorityPool_WorkStealingExecutesEverySubmission(t *testing.T) {
	var alive atomic.Bool
	alive.Store(true)
	pool := NewPriorityPool(PoolOptions{ThreadCount: 4}, &alive)
	defer func() {
		alive.Store(false)
		for i := 0; i < 10; i++ {
			pool.SignalAll()
		}
		pool.Join()
	}()

	const n = 5000
	ctx := api.NewContext(api.High)
	ctx.Add(n)
	var count int64
	for i := 0; i < n; i++ {
		pool.Submit(Job{
			Ctx: ctx, Begin: 0, End: 1,
			Task: func(api.JobArguments) { atomic.AddInt64(&count, 1) },
		})
	}
	pool.SignalAll()

	deadline := time.Now().Add(5 * time.Second)
	for ctx.IsBusy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ctx.IsBusy() {
		t.Fatalf("jobs still outstanding after deadline")
	}
	if count != n {
		t.Fatalf("executed count = %d, want %d", count, n)
	}
}

func TestPriorityPool_BoundedSubmitNeverDropsUnderPressure(t *testing.T) {
	var alive atomic.Bool
	alive.Store(true)
	pool := NewPriorityPool(PoolOptions{ThreadCount: 1, Bounded: true, QueueCapacity: 8}, &alive)
	defer func() {
		alive.Store(false)
		for i := 0; i < 10; i++ {
			pool.SignalAll()
		}
		pool.Join()
	}()

	const n = 2000
	ctx := api.NewContext(api.High)
	ctx.Add(n)
	var count int64
	for i := 0; i < n; i++ {
		pool.Submit(Job{
			Ctx: ctx, Begin: 0, End: 1,
			Task: func(api.JobArguments) { atomic.AddInt64(&count, 1) },
		})
	}
	pool.SignalAll()

	deadline := time.Now().Add(5 * time.Second)
	for ctx.IsBusy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if count != n {
		t.Fatalf("executed count = %d, want %d", count, n)
	}
}

func TestPriorityPool_RunInlineExecutesSynchronously(t *testing.T) {
	var alive atomic.Bool
	alive.Store(true)
	pool := NewPriorityPool(PoolOptions{ThreadCount: 1}, &alive)
	defer func() {
		alive.Store(false)
		pool.SignalAll()
		pool.Join()
	}()

	ctx := api.NewContext(api.Streaming)
	ctx.Add(1)
	ran := false
	pool.RunInline(Job{Ctx: ctx, Begin: 0, End: 1, Task: func(api.JobArguments) { ran = true }})

	if !ran {
		t.Fatalf("expected RunInline to execute the job before returning")
	}
	if ctx.IsBusy() {
		t.Fatalf("context still busy after RunInline")
	}
}

func TestPriorityPool_AvailableThreadsTracksPending(t *testing.T) {
	var alive atomic.Bool
	alive.Store(true)
	pool := NewPriorityPool(PoolOptions{ThreadCount: 2}, &alive)
	defer func() {
		alive.Store(false)
		pool.SignalAll()
		pool.Join()
	}()

	if pool.Pending() != 0 {
		t.Fatalf("fresh pool should have 0 pending")
	}

	block := make(chan struct{})
	ctx := api.NewContext(api.High)
	ctx.Add(1)
	pool.Submit(Job{Ctx: ctx, Begin: 0, End: 1, Task: func(api.JobArguments) { <-block }})
	pool.SignalAll()

	deadline := time.Now().Add(time.Second)
	for pool.Pending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if pool.Pending() == 0 {
		t.Fatalf("expected pending > 0 while job is blocked")
	}
	close(block)

	// The context is released inside the job, just before the pool's
	// pending count drops, so wait for both.
	deadline = time.Now().Add(time.Second)
	for (ctx.IsBusy() || pool.Pending() != 0) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if pool.Pending() != 0 {
		t.Fatalf("expected pending back to 0 after completion, got %d", pool.Pending())
	}
}
