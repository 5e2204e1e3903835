// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Scheduler-wide metrics registry: per-tier thread counts and whatever
// else scheduler.Initialize chooses to record, read back through
// scheduler.MetricsSnapshot. Enabled by default; passing WithMetrics(false)
// to Initialize disables it entirely.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds scheduler statistics recorded at startup (tier
// sizing) and, potentially, updated during the scheduler's lifetime.
type MetricsRegistry struct {
	mu         sync.RWMutex
	metrics    map[string]any
	lastUpdate time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set records or overwrites a single metric.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.lastUpdate = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns a point-in-time copy of every recorded metric.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}
