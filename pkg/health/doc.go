/*
Package health exposes readiness over HTTP by polling the
lifecycle.Machine of each registered long-lived service (in the serve
command: the locking core and the consumer).

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                         Registry                            │
	│                                                              │
	│  Register("locking_service", lockService)                  │
	│  Register("consumer", consumer)                             │
	│                      │                                       │
	│                      ▼                                       │
	│            GET /readyz ──► Ready() polls every Reporter     │
	│                      │                                       │
	│       all Initialized/Active?  yes ─► 200 {"ready":true}    │
	│                      no  ─► 503 {"ready":false,...}          │
	└────────────────────────────────────────────────────────────┘

Unlike a push-based health check, Registry never receives updates -
every call to /readyz polls each Reporter's current State() fresh, so
the response always reflects the instant of the request, not a stale
cached value.

# Core Components

Reporter: the one-method interface (State() lifecycle.State) that
every long-lived collaborator in this repository already satisfies,
since they all embed a *lifecycle.Machine. Registering a component
requires no adapter code.

Registry: a name -> Reporter map plus the aggregation logic in Ready.
Registering the same name twice replaces the previous entry, so a
caller can safely re-register during a restart sequence without
accumulating stale entries.

# Usage Examples

## Wiring readiness into an HTTP server

	registry := health.NewRegistry()
	registry.Register("locking_service", lockService)
	registry.Register("consumer", consumer)

	mux := http.NewServeMux()
	mux.Handle("/readyz", registry.Handler())

## Checking readiness without HTTP (e.g. in a test)

	ready, states := registry.Ready()
	if !ready {
		t.Fatalf("not ready: %+v", states)
	}

# Integration Points

## lifecycle.Machine

Every Reporter this package polls is backed by the same
lifecycle.Machine used by pkg/lock, pkg/scheduler, and pkg/consumer -
this package adds no new state machine, it only aggregates the
existing one's State() across components.

## cmd/datamartreplicator

The serve command constructs one Registry, registers the locking
service and the consumer against it, and mounts registry.Handler() at
/readyz alongside metrics.Handler() at /metrics on the same listener.

# Design Patterns

## Poll, don't push

Ready() calls State() on every Reporter synchronously, on the
request's own goroutine. There is no background polling loop and no
cached readiness value to go stale - the tradeoff is that a Reporter
whose State() call were ever slow or blocking would slow every
/readyz request, which is why State() is specified (by every
implementation in this repository) to be a cheap, lock-protected read.

## Readiness, not liveness

Initialized and Active are both considered ready; Uninitialized,
Initializing, Destroying, and Destroyed are not. This package makes no
liveness claim beyond "this component's state machine says it's
available" - it does not, for example, verify the locking service can
actually acquire a lock right now.

# Performance Characteristics

Ready() is O(number of registered components), each a single mutex-
protected field read inside the component's own State() method. For
the handful of collaborators in this repository, a /readyz request
costs microseconds, not milliseconds.

# Troubleshooting

## /readyz always returns 503

Check each registered component's State() individually (via Ready's
second return value) - a component stuck in Initializing typically
means its own Init callback never returned (check that collaborator's
own logs), not a bug in this package.

## A component is ready but the process still seems unhealthy

This package intentionally does not check downstream dependencies
(the database, the Kafka brokers) - only the collaborator's own
lifecycle state. A component can report Active while its downstream
dependency is unreachable; that failure surfaces through its own
operations (Acquire errors, consumer fetch errors), not through
/readyz.

# Monitoring Metrics

This package exports no Prometheus metrics; /readyz is polled by an
external orchestrator (a container platform's readiness probe, a load
balancer health check), not scraped like /metrics.

# Best Practices

 1. Register every long-lived collaborator the process constructs -
    an unregistered component can be broken without /readyz ever
    reflecting it.
 2. Keep State() implementations lock-protected reads only - never add
    a Reporter whose State() call can block on I/O.
 3. Treat /readyz and /metrics as the two halves of the same listener;
    don't split them across different ports without a reason.

# See Also

  - pkg/lifecycle - the state machine every Reporter in this repository is backed by
  - pkg/metrics - the numeric counterpart mounted alongside this package's handler
  - cmd/datamartreplicator - wires this package's Registry into the serve command
*/
package health
