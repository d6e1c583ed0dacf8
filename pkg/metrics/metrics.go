package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Locking core metrics
	LockAcquireTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datamart_lock_acquire_total",
			Help: "Total number of Acquire calls by outcome (granted, contended, timeout, cancelled)",
		},
		[]string{"outcome"},
	)

	LockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datamart_lock_wait_duration_seconds",
			Help:    "Time an Acquire call spent blocked before returning",
			Buckets: prometheus.DefBuckets,
		},
	)

	LocksHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "datamart_locks_held",
			Help: "Current number of occupied resource keys",
		},
	)

	OutstandingTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "datamart_outstanding_tokens",
			Help: "Current number of unreleased lock tokens",
		},
	)

	// Scheduler metrics
	SchedulingLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datamart_scheduling_latency_seconds",
			Help:    "Time a dispatched work item spent in Acquire",
			Buckets: prometheus.DefBuckets,
		},
	)

	WorkItemsDispatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datamart_work_items_dispatched_total",
			Help: "Total number of work items accepted by Submit",
		},
	)

	WorkItemsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datamart_work_items_failed_total",
			Help: "Total number of work items whose Acquire call or handler returned an error",
		},
	)

	// Consumer metrics
	ChangeEventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datamart_change_events_consumed_total",
			Help: "Total number of change events consumed by topic",
		},
		[]string{"topic"},
	)

	ProjectionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datamart_projection_duration_seconds",
			Help:    "Time taken to project one change event into the data mart",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		LockAcquireTotal,
		LockWaitDuration,
		LocksHeld,
		OutstandingTokens,
		SchedulingLatency,
		WorkItemsDispatched,
		WorkItemsFailed,
		ChangeEventsConsumed,
		ProjectionDuration,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
