// File: scheduler/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Initialize. No pack repo supplies a generic
// options library for this shape, so these are hand-rolled — the usual
// Go idiom seen throughout the ecosystem for optional constructor
// configuration.

package scheduler

import "github.com/momentics/jobsystem/control"

// Option mutates a control.Config during Initialize.
type Option func(*control.Config)

// WithLogSink overrides the sink Initialize emits its startup line
// through, and that recovered job panics are reported through.
func WithLogSink(sink control.LogSink) Option {
	return func(c *control.Config) { c.LogSink = sink }
}

// WithThreadCounts overrides one or more tiers' default sizing formula.
// A zero value leaves that tier on its default formula.
func WithThreadCounts(high, low, streaming uint32) Option {
	return func(c *control.Config) {
		c.HighThreads = high
		c.LowThreads = low
		c.StreamingThreads = streaming
	}
}

// WithBoundedQueues switches every tier's job queues to the bounded
// lock-free ring (capacity per worker) instead of the unbounded locked
// queue. Bounded queues pair with cooperative back-pressure on the
// submitter per spec.md §4.2.
func WithBoundedQueues(capacity int) Option {
	return func(c *control.Config) {
		c.BoundedQueues = true
		c.QueueCapacity = capacity
	}
}

// WithAffinity enables pinning each worker to a distinct logical CPU
// core via the affinity package's platform hooks.
func WithAffinity(enabled bool) Option {
	return func(c *control.Config) { c.EnableAffinity = enabled }
}

// WithMetrics toggles recording pool statistics into the scheduler's
// MetricsRegistry (see MetricsSnapshot).
func WithMetrics(enabled bool) Option {
	return func(c *control.Config) { c.EnableMetrics = enabled }
}
