/*
Package lock implements the resource-scoped locking core: named, composite-
key locks that let concurrent task handlers avoid mutating the same logical
entity simultaneously, without deadlocking across overlapping lock sets.

# Architecture

	┌──────────────────────────────────────────────────────────────┐
	│                    ProcessScopeLockingService                │
	└───────────────────────────┬────────────────────────────────-─┘
	                            │
	         Acquire(ctx, keys, wait)     Release(token)
	                            │                   │
	                            ▼                   ▼
	┌────────────────────────────────────────────────────────────┐
	│  1. sort keys into the single process-wide order            │
	│  2. under the service mutex: is any sorted key occupied?    │
	│     no  -> occupy every key atomically, return a Token      │
	│     yes -> wait on deadline/cancellation, then recheck      │
	└────────────────────────────────────────────────────────────┘

The sorted acquisition order (ResourceKey.Compare) is the only mechanism
that prevents deadlock among acquirers whose key sets overlap: every Acquire
call checks and occupies its entire sorted key set atomically, so there is
never an intermediate state where one acquirer holds a prefix of its list
while another holds a conflicting suffix.

# Core Components

ResourceKey: a composite identifier (resource type plus zero or more
components) with a canonical, percent-encoded string form and a total
order. Two keys compare equal only if every component matches; the
canonical string is the only thing Acquire ever compares, which is also
why it is the only thing logged.

Token: the opaque receipt returned by a successful Acquire. It exists
only between that Acquire and the matching Release; holding onto a
Token past Release and presenting it again is rejected by a foreign-
token check, not silently accepted.

Service: the interface (Init/Acquire/Release/Destroy/State) that
ProcessScopeLockingService implements. Callers that only need to gate
work - the scheduler, the consumer - depend on this interface, not the
concrete type, so a future cluster-scope implementation can be swapped
in without touching them.

	svc := lock.NewProcessScopeLockingService()
	if err := svc.Init(&lock.Config{Scope: lock.Process}); err != nil {
		return err
	}
	defer svc.Destroy()

# Waiting

Acquire's wait parameter has three modes:

  - NonBlocking (0): fail fast, return (nil, nil) on first contention.
  - Indefinite (-1): wait until success, ctx cancellation, or service
    destruction - never times out on its own.
  - any positive duration: an absolute deadline; the wait clamps to at
    least 1ms and is re-evaluated on every wakeup (spurious, notified, or
    timeout), never reset by a spurious wakeup.

ctx cancellation is this package's analogue of thread interruption: an
Acquire in progress unwinds with (nil, nil) and never touches occupancy.

# Usage Examples

## Single-key, non-blocking attempt

	key, _ := lock.NewResourceKey("ENTITY", 100)
	tok, err := svc.Acquire(ctx, []*lock.ResourceKey{key}, lock.NonBlocking)
	if err != nil {
		return err
	}
	if tok == nil {
		// key already held elsewhere; try again later
		return nil
	}
	defer svc.Release(tok)

## Multi-key acquisition (e.g. a merge touching two entities)

	a, _ := lock.NewResourceKey("ENTITY", "AAA")
	b, _ := lock.NewResourceKey("ENTITY", "BBB")
	tok, err := svc.Acquire(ctx, []*lock.ResourceKey{a, b}, lock.Indefinite)
	if err != nil {
		return err
	}
	defer svc.Release(tok)
	// both AAA and BBB are held for the lifetime of this block, acquired
	// and released as a single atomic unit regardless of call order.

# Integration Points

## Scheduler

pkg/scheduler is this package's sole caller-facing consumer: a WorkItem
names the ResourceKeys its Handler needs, and the scheduler's dispatch
loop calls Acquire before running the handler and Release (deferred)
once it returns. No other package in this repository calls Acquire or
Release directly.

## Health

lock.Service.State() satisfies health.Reporter, so the locking
service's own lifecycle state is one of the signals cmd/datamartreplicator
serve registers on the /readyz endpoint.

## Logging and metrics

This package itself neither logs nor records metrics. pkg/scheduler's
dispatch logs each granted token's acquire and release via
log.WithToken, and records metrics.LockAcquireTotal,
metrics.LockWaitDuration, metrics.LocksHeld, and
metrics.OutstandingTokens around its own Acquire/Release calls - see
pkg/metrics.

# Design Patterns

## Sorted global acquisition order

Every Acquire call sorts its key set before touching occupancy,
independent of the order keys were passed in. This is the one
invariant responsible for deadlock-freedom across overlapping key
sets: if two acquirers ever disagree on acquisition order for the same
pair of keys, circular waits become possible.

## Condition-variable wait/drain, not polling

Waiters block on a sync.Cond rather than polling occupancy on a timer.
Every state change that could unblock a waiter (Release, Destroy)
broadcasts once, so a released key is reconsidered by every current
waiter on its next scheduling quantum rather than after a fixed poll
interval.

## Shared lifecycle machine

Init/Activate/Destroy are implemented once, in pkg/lifecycle, and
reused by this package, pkg/scheduler, and pkg/consumer, rather than
each collaborator hand-rolling its own state tracking.

# Performance Characteristics

Acquire sorts a k-key request once, in O(k log k), before taking the
service mutex. The critical section (the occupancy check plus, on
success, the occupy) is O(k), and the mutex is released while waiting.
Waiting acquirers re-check in O(k) on every wakeup; there is no
per-waiter busy loop. Release is O(k) to clear occupancy plus a single
broadcast, regardless of how many goroutines are waiting.

# Troubleshooting

## Acquire never returns (Indefinite wait)

  - Confirm the contending holder actually calls Release - a panic in
    a scheduler Handler before Release still runs it (deferred), but a
    goroutine leak elsewhere in the caller's own code will not.
  - Check metrics.OutstandingTokens for the scope; a count that only
    grows points at a missing Release somewhere outside this package's
    own call sites.

## Acquire returns (nil, nil) unexpectedly

This is NonBlocking's designed behavior on contention, not an error -
check the wait mode passed in before assuming a bug.

## Release returns an error

  - A nil token, or a token the service never issued (wrong scope, or
    already-released), is rejected rather than silently ignored -
    check for a double Release or a token passed across the wrong
    Service instance.

# Monitoring Metrics

  - datamart_lock_acquire_total{outcome} - granted, contended
    (NonBlocking), timeout, or cancelled.
  - datamart_lock_wait_duration_seconds - time spent inside Acquire,
    regardless of outcome.
  - datamart_locks_held - current count of occupied ResourceKeys.
  - datamart_outstanding_tokens - current count of un-Released Tokens;
    should track locks_held closely and never grow without bound.

# Best Practices

 1. Always defer Release immediately after a successful Acquire - see
    every example above - so a panic in between still releases.
 2. Prefer the smallest key set that covers the actual invariant: an
    update to one entity should acquire one key, not every key it
    might theoretically touch.
 3. Use NonBlocking for user-facing paths that should fail fast on
    contention, and Indefinite only where the caller is itself on a
    background goroutine prepared to wait (e.g. the scheduler).
 4. Never hold a Token past the operation that required the lock -
    Tokens are not meant to be cached or reused across operations.

# See Also

  - pkg/scheduler - gates task dispatch on Acquire/Release
  - pkg/lifecycle - the shared state machine this service embeds
  - pkg/metrics - lock-related counters, gauges, and histograms
  - pkg/health - lock.Service.State() as a readiness signal
*/
package lock
