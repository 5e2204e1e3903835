// File: api/context.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Context is the caller-owned completion handle tracking outstanding jobs
// for a related batch of Execute/Dispatch submissions. The zero value is
// a valid, idle, High-priority context.

package api

import "sync/atomic"

// Context aggregates the outstanding-job count for a batch of submissions.
// Callers must keep a Context alive until IsBusy reports false / Wait
// returns. The same Context must not be mutated concurrently by two
// submitters unless they serialize externally; workers may concurrently
// decrement it.
type Context struct {
	outstanding atomic.Uint64
	// Priority selects which tier's pool jobs submitted against this
	// Context are scheduled on. Defaults to High (the zero value).
	Priority Priority
}

// NewContext constructs a fresh, idle Context for the given priority.
func NewContext(priority Priority) *Context {
	return &Context{Priority: priority}
}

// Add increases the outstanding-job counter by delta (Done performs the
// matching decrement, one job at a time). Exported so
// the scheduler package can manage the counter without this package
// depending on the scheduler's internals.
func (c *Context) Add(delta uint64) {
	c.outstanding.Add(delta)
}

// Done decrements the outstanding-job counter by exactly one, with
// release ordering so a later IsBusy/Wait observing zero also observes
// every write the completed job performed.
func (c *Context) Done() {
	c.outstanding.Add(^uint64(0))
}

// Outstanding returns the current outstanding-job count with acquire
// semantics.
func (c *Context) Outstanding() uint64 {
	return c.outstanding.Load()
}

// IsBusy reports whether any jobs submitted against this Context are
// still outstanding.
func (c *Context) IsBusy() bool {
	return c.Outstanding() > 0
}
