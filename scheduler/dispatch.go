// File: scheduler/dispatch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Execute, Dispatch, IsBusy, Wait, and GetDispatchGroupCount: the
// Dispatcher's job-submission surface. Translated from the original
// JobSystem.cpp's Execute/Dispatch/IsBusy/Wait, line for line, onto Go's
// sync.Cond (Signal for notify_one, Broadcast for notify_all) and
// atomic.Uint64 (for the Context counter).

package scheduler

import (
	"runtime"

	"github.com/momentics/jobsystem/api"
	"github.com/momentics/jobsystem/internal/concurrency"
)

// Execute submits a single job. A no-op if the scheduler is not alive or
// ctx is nil (spec.md §7 policy 1: misuse is silently ignored, never a
// panic). When the target tier has a single worker, the job runs
// inline on the caller so a single-core configuration stays
// non-degenerate.
func Execute(ctx *api.Context, task api.Task) {
	if ctx == nil {
		return
	}
	pool := poolFor(ctx.Priority)
	if pool == nil {
		return
	}

	ctx.Add(1)
	job := concurrency.Job{Task: task, Ctx: ctx, GroupID: 0, Begin: 0, End: 1}

	if pool.ThreadCount() <= 1 {
		pool.RunInline(job)
		return
	}
	pool.Submit(job)
	pool.SignalOne()
}

// TryExecute behaves exactly like Execute, except callers that need to
// distinguish "scheduler not running" from "accepted" can do so: it
// returns api.ErrNotInitialized instead of silently dropping the job
// when the scheduler is not alive or ctx's tier has no pool.
func TryExecute(ctx *api.Context, task api.Task) error {
	if ctx == nil {
		return api.ErrNotInitialized
	}
	pool := poolFor(ctx.Priority)
	if pool == nil {
		return api.ErrNotInitialized
	}
	Execute(ctx, task)
	return nil
}

// Dispatch fans jobCount sub-items out into ⌈jobCount/groupSize⌉ groups
// of up to groupSize consecutive indices each, executed serially within
// a group and concurrently across groups. A no-op if jobCount or
// groupSize is 0, or the scheduler is not alive, or ctx is nil.
// sharedMemoryBytes is optional and defaults to 0 (no scratch buffer).
func Dispatch(ctx *api.Context, jobCount, groupSize uint32, task api.Task, sharedMemoryBytes ...int) {
	if jobCount == 0 || groupSize == 0 {
		return
	}
	if ctx == nil {
		return
	}
	pool := poolFor(ctx.Priority)
	if pool == nil {
		return
	}

	shared := 0
	if len(sharedMemoryBytes) > 0 {
		shared = sharedMemoryBytes[0]
	}

	groupCount := GetDispatchGroupCount(jobCount, groupSize)
	ctx.Add(uint64(groupCount))
	inline := pool.ThreadCount() <= 1

	for g := uint32(0); g < groupCount; g++ {
		begin := g * groupSize
		end := begin + groupSize
		if end > jobCount {
			end = jobCount
		}
		job := concurrency.Job{
			Task: task, Ctx: ctx, GroupID: g,
			Begin: begin, End: end, SharedMemoryBytes: shared,
		}
		if inline {
			pool.RunInline(job)
			continue
		}
		pool.Submit(job)
	}

	if !inline {
		pool.SignalAll()
	}
}

// GetDispatchGroupCount returns ⌈jobCount/groupSize⌉, or 0 if either
// argument is 0.
func GetDispatchGroupCount(jobCount, groupSize uint32) uint32 {
	if jobCount == 0 || groupSize == 0 {
		return 0
	}
	return (jobCount + groupSize - 1) / groupSize
}

// IsBusy reports whether any job submitted against ctx is still
// outstanding.
func IsBusy(ctx *api.Context) bool {
	if ctx == nil {
		return false
	}
	return ctx.IsBusy()
}

// Wait converts the caller into a temporary worker for ctx's priority
// tier until ctx becomes idle. Returning from Wait implies every job
// submitted to ctx before the call has completed.
func Wait(ctx *api.Context) {
	if ctx == nil || !ctx.IsBusy() {
		return
	}
	pool := poolFor(ctx.Priority)
	if pool == nil {
		// Scheduler was shut down mid-wait; nothing left to steal work
		// from, so just spin until whatever is in flight finishes.
		for ctx.IsBusy() {
			runtime.Gosched()
		}
		return
	}

	pool.SignalAll()
	pool.DrainOnce(pool.NextStart())

	for ctx.IsBusy() {
		runtime.Gosched()
	}
}
