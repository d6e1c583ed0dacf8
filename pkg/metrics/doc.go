/*
Package metrics exposes Prometheus counters, gauges, and histograms for the
locking core, the scheduler, and the consumer, plus a Timer helper for
observing operation durations and an HTTP handler to serve them.

# Architecture

	┌──────────────────────────────────────────────────────────────┐
	│  Collaborator code                                            │
	│    timer := metrics.NewTimer()                                │
	│    ... do the thing ...                                        │
	│    timer.ObserveDuration(metrics.LockWaitDuration)             │
	│    metrics.LockAcquireTotal.WithLabelValues("granted").Inc()   │
	└──────────────────────────┬─────────────────────────────────────┘
	                           │
	                           ▼
	            prometheus.DefaultRegisterer (package init)
	                           │
	                           ▼
	                 metrics.Handler() ──► GET /metrics
	                           │
	                           ▼
	                  Prometheus scrape

Every metric in this package is a package-level var, constructed with
prometheus.NewCounterVec/NewHistogram/NewGauge and registered once
against the default registry in this package's own init() via
prometheus.MustRegister - so any collaborator can reference
metrics.LockAcquireTotal etc. directly without first obtaining a
registry handle.

# Core Components

LockAcquireTotal, LockWaitDuration, LocksHeld, OutstandingTokens: the
locking core's own instrumentation, updated from pkg/scheduler's
dispatch loop (the locking core itself has no metrics import, per its
own doc's third-party-dependency stance).

SchedulingLatency, WorkItemsDispatched, WorkItemsFailed: the
scheduler's instrumentation around Acquire and Handler execution.

ChangeEventsConsumed, ProjectionDuration: the consumer/data mart's
instrumentation around decoding and projecting change events.

Timer: a small helper wrapping time.Now()/time.Since() so call sites
write `timer := metrics.NewTimer(); ...; timer.ObserveDuration(h)`
instead of repeating the same two lines everywhere.

# Usage Examples

## Timing an operation

	timer := metrics.NewTimer()
	tok, err := svc.Acquire(ctx, keys, lock.Indefinite)
	timer.ObserveDuration(metrics.LockWaitDuration)
	if tok != nil {
		metrics.LockAcquireTotal.WithLabelValues("granted").Inc()
	}

## Exposing the metrics endpoint

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

# Integration Points

## Scheduler

pkg/scheduler increments WorkItemsDispatched on every Submit,
WorkItemsFailed on Acquire or Handler errors, and observes
SchedulingLatency around every Acquire call.

## Consumer / data mart

pkg/consumer increments ChangeEventsConsumed per record received,
before decoding;
pkg/datamart observes ProjectionDuration around ProjectChangeEvent.

## Health

pkg/metrics and pkg/health are mounted on the same HTTP listener in
cmd/datamartreplicator's serve command (/metrics and /readyz
respectively), but neither package depends on the other.

# Design Patterns

## Register once, at package init

Every metric is declared at package scope and registered exactly once,
in this package's own init(), so there is no explicit registration
step collaborators must remember to call - importing this package is
sufficient for its metrics to be scraped.

## Label cardinality kept small and closed

Labels used in this package (e.g. LockAcquireTotal's "outcome":
granted/contended/timeout/cancelled, ChangeEventsConsumed's "topic")
are drawn from small, fixed, enum-like sets, never from caller-supplied
free-form strings like a ResourceKey's canonical form - unbounded label
cardinality is a common way to overwhelm Prometheus, and this package
avoids it by design.

# Performance Characteristics

Incrementing a counter or observing a histogram is lock-free and O(1)
per call (Prometheus client library internals), safe to call on the
locking core's hot path at the same rate as Acquire/Release
themselves. Handler() serves the current state of every metric on
each scrape; cost is proportional to the number of distinct label
combinations actually observed, which this package's closed label sets
keep small.

# Troubleshooting

## A metric never appears on /metrics

The labelled vectors (LockAcquireTotal, ChangeEventsConsumed) expose a
series only once that label value has been observed; the unlabelled
counters, histograms, and gauges appear immediately at zero. Confirm
the code path that should increment/observe the labelled series has
actually executed.

## Unexpected label cardinality / memory growth

Check for a label value drawn from an unbounded source - this package
avoids that by design, but a future addition that labels by
ResourceKey or EntityID directly would reintroduce it.

# Monitoring Metrics

This package is itself the monitoring surface for the rest of the
repository; see each collaborator's own doc (pkg/lock, pkg/scheduler,
pkg/consumer) for which metrics it specifically updates.

# Best Practices

 1. Use NewTimer/ObserveDuration instead of hand-rolling
    time.Since(start).Seconds() at each call site.
 2. Keep label values to small, fixed sets - never label by a
    high-cardinality identifier like a ResourceKey or EntityID.
 3. Add a new metric here, not ad hoc in a collaborator package, so
    /metrics stays the single place metrics are declared.

# See Also

  - pkg/lock, pkg/scheduler, pkg/consumer, pkg/datamart - the collaborators this package instruments
  - pkg/health - the sibling HTTP endpoint mounted alongside /metrics
*/
package metrics
