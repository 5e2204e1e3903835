// File: scheduler/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-global scheduler state: one PriorityPool per tier and the
// alive flag gating every public operation. Grounded on the original
// JobSystem::Initialize (hardware_concurrency observation, per-tier
// thread spawn) and the teacher's facade.New/Start/Stop lifecycle,
// collapsed into Go's package-level singleton idiom since spec.md §3
// describes the scheduler as process-global rather than handle-based.

package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/jobsystem/affinity"
	"github.com/momentics/jobsystem/api"
	"github.com/momentics/jobsystem/control"
	"github.com/momentics/jobsystem/internal/concurrency"
)

// poolSet is an immutable, fully-constructed snapshot of one tier per
// priority. Published once by Initialize and replaced wholesale (never
// mutated in place) by Shutdown, so poolFor can read it through an
// atomic.Pointer without a lock: a reader either sees the old snapshot
// in full or the new one in full, never a partially built array.
type poolSet [api.PriorityCount]*concurrency.PriorityPool

type state struct {
	mu        sync.Mutex
	alive     atomic.Bool
	pools     atomic.Pointer[poolSet]
	coreCount int
	cfg       *control.Config
	metrics   *control.MetricsRegistry
	debug     *control.DebugProbes
}

var global state

// Initialize constructs the process-global scheduler, clamping every
// tier's worker count to [1, maxThreadCount] (maxThreadCount == 0 means
// unbounded — the spec's default of "infinity"). Returns
// api.ErrAlreadyInitialized if called while already alive; safe to call
// again after Shutdown. Options override the default per-tier sizing,
// queue shape, affinity, and logging described in control.Config.
func Initialize(maxThreadCount uint32, opts ...Option) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.alive.Load() {
		return api.ErrAlreadyInitialized
	}

	cfg := control.DefaultConfig()
	cfg.MaxThreadCount = maxThreadCount
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.LogSink == nil {
		cfg.LogSink = control.DefaultLogSink
	}

	coreCount := runtime.NumCPU()
	high, highDegraded := clampThreads(cfg.HighThreads, coreCount-1, cfg.MaxThreadCount)
	low, lowDegraded := clampThreads(cfg.LowThreads, coreCount-2, cfg.MaxThreadCount)
	streaming, streamingDegraded := clampThreads(cfg.StreamingThreads, 1, cfg.MaxThreadCount)

	global.coreCount = coreCount
	global.cfg = cfg
	global.metrics = nil
	if cfg.EnableMetrics {
		global.metrics = control.NewMetricsRegistry()
	}
	global.debug = control.NewDebugProbes()
	control.RegisterPlatformProbes(global.debug)

	onPanic := func(r any) {
		cfg.LogSink("recovered panic in job: %v", r)
	}

	var pin concurrency.PinFunc
	if cfg.EnableAffinity {
		pin = affinity.SetAffinity
	}

	// Workers loop only while alive is true, so it must be set before any
	// pool launches them. poolFor still reports "not alive" until the
	// pool set is published below, because it treats a nil snapshot so.
	global.alive.Store(true)

	var pools poolSet
	pools[api.High] = concurrency.NewPriorityPool(concurrency.PoolOptions{
		ThreadCount: high, Bounded: cfg.BoundedQueues, QueueCapacity: cfg.QueueCapacity,
		Pin: pin, PinBase: 1, OnPanic: onPanic,
	}, &global.alive)
	pools[api.Low] = concurrency.NewPriorityPool(concurrency.PoolOptions{
		ThreadCount: low, Bounded: cfg.BoundedQueues, QueueCapacity: cfg.QueueCapacity,
		Pin: pin, PinBase: 1 + high, OnPanic: onPanic,
	}, &global.alive)
	streamingBase := coreCount - streaming
	if streamingBase < 0 {
		streamingBase = 0
	}
	pools[api.Streaming] = concurrency.NewPriorityPool(concurrency.PoolOptions{
		ThreadCount: streaming, Bounded: cfg.BoundedQueues, QueueCapacity: cfg.QueueCapacity,
		Pin: pin, PinBase: streamingBase, OnPanic: onPanic,
	}, &global.alive)

	if cfg.EnableMetrics {
		global.metrics.Set("core_count", coreCount)
		global.metrics.Set("high_threads", high)
		global.metrics.Set("low_threads", low)
		global.metrics.Set("streaming_threads", streaming)
	}

	global.debug.RegisterProbe("pool.pending", func() any {
		snapshot := global.pools.Load()
		if snapshot == nil {
			return nil
		}
		return map[string]int64{
			"high":      snapshot[api.High].Pending(),
			"low":       snapshot[api.Low].Pending(),
			"streaming": snapshot[api.Streaming].Pending(),
		}
	})

	// Publish the fully-constructed pool set with one Store: a reader sees
	// either no snapshot (and treats the scheduler as not alive) or this
	// complete one, never a half-built one.
	global.pools.Store(&pools)

	cfg.LogSink("initialize: coreCount=%d highCount=%d lowCount=%d streamingCount=%d",
		coreCount, high, low, streaming)

	if highDegraded || lowDegraded || streamingDegraded {
		err := api.NewSchedulerError(api.ErrCodeResourceExhausted,
			"scheduler started with one or more tiers degraded below their default sizing")
		if highDegraded {
			err.WithContext("high", high)
		}
		if lowDegraded {
			err.WithContext("low", low)
		}
		if streamingDegraded {
			err.WithContext("streaming", streaming)
		}
		return err
	}

	return nil
}

// clampThreads resolves a tier's worker count: an explicit override wins
// over the formula, the result is never below 1, and it never exceeds
// maxThreadCount unless maxThreadCount is 0 (unbounded). degraded is true
// when maxThreadCount forced the tier below what the formula (or an
// explicit override) asked for.
func clampThreads(override uint32, formula int, maxThreadCount uint32) (n int, degraded bool) {
	n = formula
	if override > 0 {
		n = int(override)
	}
	if n < 1 {
		n = 1
	}
	if maxThreadCount > 0 && uint32(n) > maxThreadCount {
		n = int(maxThreadCount)
		degraded = true
	}
	return n, degraded
}

// Shutdown sets the alive flag false, then runs a dedicated waker that
// repeatedly broadcasts every pool's wake condition until all workers
// have joined — guaranteeing no worker is left sleeping through
// shutdown — grounded on spec.md §4.7's design note. Idempotent: calling
// Shutdown when not alive is a no-op.
func Shutdown() {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.alive.Load() {
		return
	}
	global.alive.Store(false)
	pools := global.pools.Load()
	global.pools.Store(nil)

	stop := make(chan struct{})
	var wakerWG sync.WaitGroup
	wakerWG.Add(1)
	go func() {
		defer wakerWG.Done()
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				for _, p := range pools {
					if p != nil {
						p.SignalAll()
					}
				}
			}
		}
	}()

	for _, p := range pools {
		if p != nil {
			p.Join()
		}
	}
	close(stop)
	wakerWG.Wait()

	global.cfg = nil
	global.metrics = nil
	global.debug = nil
}

// GetThreadCount returns the tier's configured worker count, or 0 if the
// scheduler is not alive.
func GetThreadCount(priority api.Priority) uint32 {
	p := poolFor(priority)
	if p == nil {
		return 0
	}
	return uint32(p.ThreadCount())
}

// GetAvailableThreadCount returns an estimate of idle workers in a tier:
// the configured thread count minus the number of jobs currently queued
// or in flight, floored at 0. Supplements spec.md's public surface with
// the original JobSystem::GetThreadCountAvaliable, clamped instead of
// allowed to wrap when pending exceeds thread count.
func GetAvailableThreadCount(priority api.Priority) uint32 {
	p := poolFor(priority)
	if p == nil {
		return 0
	}
	n := int64(p.ThreadCount())
	pending := p.Pending()
	if pending >= n {
		return 0
	}
	return uint32(n - pending)
}

// poolFor returns the pool backing priority, or nil if the scheduler is
// not alive. Reads an immutable poolSet snapshot through an
// atomic.Pointer rather than global.pools under a mutex: Initialize
// publishes the snapshot once, fully built, and Shutdown replaces it
// with nil, so a concurrent reader never observes a torn or
// partially-constructed array the way a direct array field guarded only
// by the alive flag would allow.
func poolFor(priority api.Priority) *concurrency.PriorityPool {
	if priority < 0 || priority >= api.PriorityCount {
		return nil
	}
	if !global.alive.Load() {
		return nil
	}
	snapshot := global.pools.Load()
	if snapshot == nil {
		return nil
	}
	return snapshot[priority]
}

// MetricsSnapshot returns a copy of the scheduler's recorded metrics, or
// nil if metrics are disabled or the scheduler is not alive.
func MetricsSnapshot() map[string]any {
	global.mu.Lock()
	m := global.metrics
	global.mu.Unlock()
	if m == nil {
		return nil
	}
	return m.GetSnapshot()
}

// DebugSnapshot returns the current output of every registered debug
// probe (platform info, per-tier pending counts), or nil if the
// scheduler is not alive.
func DebugSnapshot() map[string]any {
	global.mu.Lock()
	d := global.debug
	global.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.DumpState()
}
