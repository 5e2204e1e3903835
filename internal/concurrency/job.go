// File: internal/concurrency/job.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Job is the schedulable unit produced by Execute/Dispatch. Immutable
// once enqueued.

package concurrency

import "github.com/momentics/jobsystem/api"

// Job holds everything a worker needs to run one group's sub-items.
type Job struct {
	Task    api.Task
	Ctx     *api.Context
	GroupID uint32
	// Begin/End form the half-open range [Begin, End) of sub-item
	// indices this Job executes serially. Execute uses [0, 1).
	Begin, End uint32
	// SharedMemoryBytes is 0 when no scratch buffer was requested.
	SharedMemoryBytes int
}

// run executes every sub-item in [Begin, End) in ascending order, then
// decrements Ctx exactly once. scratch is nil unless SharedMemoryBytes > 0.
// Panics raised by Task are recovered and reported through onPanic so a
// misbehaving callable cannot corrupt the worker loop or leak the
// outstanding counter.
func (j Job) run(scratch []byte, onPanic func(recovered any)) {
	defer j.Ctx.Done()
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(r)
		}
	}()

	args := api.JobArguments{GroupID: j.GroupID, Scratch: scratch}
	for i := j.Begin; i < j.End; i++ {
		args.JobIndex = i
		args.GroupIndex = i - j.Begin
		args.IsFirstInGroup = i == j.Begin
		args.IsLastInGroup = i == j.End-1
		j.Task(args)
	}
}
