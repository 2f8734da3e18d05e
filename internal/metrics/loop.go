// Package metrics provides Prometheus metrics for the inspection loop and the shared segment.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hsvinspector",
		Subsystem: "loop",
		Name:      "frames_total",
		Help:      "Frames processed by the inspection loop",
	})

	cycleSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hsvinspector",
		Subsystem: "loop",
		Name:      "cycle_seconds",
		Help:      "Time spent acquiring, transforming and presenting one frame",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	maskCoverage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hsvinspector",
		Subsystem: "mask",
		Name:      "coverage_ratio",
		Help:      "Fraction of pixels included by the current mask",
	})

	loopRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hsvinspector",
		Subsystem: "loop",
		Name:      "running",
		Help:      "1 while the inspection loop is running",
	})

	presentErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hsvinspector",
		Subsystem: "display",
		Name:      "present_errors_total",
		Help:      "Failed attempts to present a view",
	}, []string{"view"})

	lockWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hsvinspector",
		Subsystem: "shm",
		Name:      "lock_wait_seconds",
		Help:      "Time spent waiting for the shared segment lock",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	lockHoldSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hsvinspector",
		Subsystem: "shm",
		Name:      "lock_hold_seconds",
		Help:      "Time the shared segment lock was held by the reader",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	// Local snapshot for the SSE exporter.
	stats   LoopStats
	statsMu sync.RWMutex
)

// LoopStats holds the latest loop values.
type LoopStats struct {
	Frames    uint64
	LastCycle time.Duration
	Coverage  float64
	LockHold  time.Duration
	Running   bool
}

// RecordCycle accounts one processed frame.
func RecordCycle(d time.Duration, coverage float64) {
	framesTotal.Inc()
	cycleSeconds.Observe(d.Seconds())
	maskCoverage.Set(coverage)

	statsMu.Lock()
	stats.Frames++
	stats.LastCycle = d
	stats.Coverage = coverage
	statsMu.Unlock()
}

// ObserveLockWait records how long the reader waited for the segment lock.
func ObserveLockWait(d time.Duration) {
	lockWaitSeconds.Observe(d.Seconds())
}

// ObserveLockHold records how long the reader held the segment lock.
func ObserveLockHold(d time.Duration) {
	lockHoldSeconds.Observe(d.Seconds())

	statsMu.Lock()
	stats.LockHold = d
	statsMu.Unlock()
}

// SetLoopRunning flips the running gauge.
func SetLoopRunning(running bool) {
	if running {
		loopRunning.Set(1)
	} else {
		loopRunning.Set(0)
	}

	statsMu.Lock()
	stats.Running = running
	statsMu.Unlock()
}

// IncPresentErrors counts a presentation failure for a view.
func IncPresentErrors(view string) {
	presentErrors.WithLabelValues(view).Inc()
}

// GetLoopStats returns a copy of the latest loop values.
func GetLoopStats() LoopStats {
	statsMu.RLock()
	defer statsMu.RUnlock()
	return stats
}

// ResetLoopStats clears the local snapshot. Prometheus counters are left untouched.
func ResetLoopStats() {
	statsMu.Lock()
	stats = LoopStats{}
	statsMu.Unlock()
}
