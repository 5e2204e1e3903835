// File: scheduler/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package scheduler is the Dispatcher: the public surface of the job
// scheduler (Initialize, Shutdown, Execute, Dispatch, IsBusy, Wait,
// GetThreadCount, GetDispatchGroupCount) backed by one process-global
// SchedulerState. Grounded on the original Cyclone JobSystem's free
// functions and the teacher's facade.HioloadWS lifecycle
// (New/Start/Stop), adapted to Go's package-level singleton idiom since
// the scheduler is deliberately process-wide rather than handle-based.
package scheduler
