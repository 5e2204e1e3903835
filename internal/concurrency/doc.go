// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency implements the scheduler's engine: job descriptors,
// bounded/unbounded job queues, the priority-partitioned worker pool with
// work-stealing, and per-worker scratch memory. It has no knowledge of
// the public Dispatcher surface in package scheduler, which owns process
// lifetime and wires these pieces together.
package concurrency
