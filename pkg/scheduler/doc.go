/*
Package scheduler dispatches lock-gated work items against a
lock.Service. A WorkItem names the ResourceKeys its Handler needs
exclusive access to; the scheduler acquires them before running the
handler and releases them once it returns, success or failure - the
concrete form of "the scheduler uses the locking service to gate task
execution" that the consumer builds on.

# Architecture

	Submit(item) ──► queue ──► dispatch goroutine
	                              │
	                              ▼
	                    lockService.Acquire(keys, wait)
	                              │
	                       token?  no  ──► drop (timeout/cancelled/destroyed)
	                              │ yes
	                              ▼
	                        item.Run(ctx)
	                              │
	                              ▼
	                    lockService.Release(token)

Each submitted item dispatches on its own goroutine as soon as it is
pulled off the queue, so unrelated work items never wait on each other -
only items whose ResourceKeys actually overlap serialize, through the
locking service itself.

# Core Components

WorkItem: ID (for logging/metrics), Keys (the ResourceKeys to acquire),
Wait (the lock.Wait mode to acquire them with), and Run (the Handler to
execute once they're held). The scheduler never inspects Keys beyond
passing them to Acquire - ordering, deduplication, and deadlock
avoidance are entirely the locking core's responsibility.

Scheduler: owns an internal queue and a lifecycle.Machine. New takes
the lock.Service to dispatch against and a queue depth; Start begins
the dispatch loop; Submit enqueues; Stop drains.

	sched := scheduler.New(lockService, 64)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

# Usage Examples

## Submitting a single-key work item

	key := scheduler.NewResourceKeyOrPanic("ENTITY", "100")
	err := sched.Submit(&scheduler.WorkItem{
		ID:   "evt-1",
		Keys: []*lock.ResourceKey{key},
		Wait: lock.Indefinite,
		Run: func(ctx context.Context) error {
			return projectOne(ctx, "100")
		},
	})

## Two conflicting work items serialize automatically

	keyA := scheduler.NewResourceKeyOrPanic("ENTITY", "shared")
	sched.Submit(&scheduler.WorkItem{ID: "a", Keys: []*lock.ResourceKey{keyA}, Wait: lock.Indefinite, Run: handlerA})
	sched.Submit(&scheduler.WorkItem{ID: "b", Keys: []*lock.ResourceKey{keyA}, Wait: lock.Indefinite, Run: handlerB})
	// handlerB's Acquire blocks until handlerA's Release, even though
	// both were submitted and dispatched concurrently.

# Integration Points

## Locking core

Scheduler holds a lock.Service and calls only Acquire/Release against
it - it never constructs or configures one itself; callers (pkg/consumer,
cmd/datamartreplicator) own that.

## Consumer

pkg/consumer is this package's only caller in this repository: it
constructs one Scheduler internally (scheduler.New) and submits one
WorkItem per decoded ChangeEvent, with Run wired to the Projector plus
the Kafka offset commit.

## Metrics

Submit increments metrics.WorkItemsDispatched; dispatch failures
increment metrics.WorkItemsFailed; the time spent in Acquire is
observed into metrics.SchedulingLatency via a metrics.Timer.

# Design Patterns

## Lock-gated dispatch, not lock-free work queues

Unlike a typical worker pool that dispatches purely on queue order,
this scheduler's actual concurrency is bounded by ResourceKey overlap,
not by a fixed worker count - an unbounded number of non-conflicting
items can run simultaneously, while conflicting ones serialize through
Acquire/Release.

## Shared lifecycle machine

Scheduler shares the same state machine as the locking core
(lifecycle.Machine): Start performs Init then Activate, Stop performs
Destroy and blocks until every dispatched handler has returned and
released its locks. Submit after Stop is rejected.

## Defer-release discipline

Every dispatch goroutine defers Release immediately after a successful
Acquire, mirroring pkg/lock's own best practice, so a panic inside
Run still releases the lock before the goroutine unwinds.

# Performance Characteristics

Submit is O(1) (a channel send) unless the queue is full, in which case
it blocks until space frees up. Dispatch spawns one goroutine per
queued item, so throughput is bounded by the locking core's Acquire
latency for contended keys, not by a fixed worker pool size - a
workload with little key overlap scales with available goroutines and
CPU, not with a tuned pool size.

# Troubleshooting

## Submit blocks

The internal queue is full; either increase queueSize at construction
or investigate why dispatch isn't draining it (a stuck Handler that
never returns holds its goroutine, but does not block the queue
itself, since dispatch happens on a separate goroutine per item).

## Work items seem to serialize more than expected

Check for unintentionally broad ResourceKeys - e.g. two logically
unrelated entities that happen to derive the same canonical key.

## Submit after Stop returns an error

This is by design: the scheduler rejects new work once Destroy has
begun, so in-flight work can drain to completion without new arrivals.

# Monitoring Metrics

  - datamart_work_items_dispatched_total - every successful Submit.
  - datamart_work_items_failed_total - Acquire failures and Handler errors.
  - datamart_scheduling_latency_seconds - time spent in Acquire per dispatch,
    whether it succeeds, fails, or yields no token.

# Best Practices

 1. Size queueSize to the expected burst, not the steady-state rate -
    Submit blocks once it's full, which is the intended backpressure
    mechanism.
 2. Keep Handler bodies short and idempotent where possible - a
    Handler that fails is not retried by this package.
 3. Always call Stop during graceful shutdown so in-flight locks are
    released before the process exits.
 4. Prefer lock.Indefinite for background collaborators (like the
    consumer) and a bounded wait only where a caller has its own
    timeout budget to enforce.

# See Also

  - pkg/lock - the Service this package dispatches against
  - pkg/consumer - the only caller of this package in this repository
  - pkg/lifecycle - the shared Start/Stop state machine
  - pkg/metrics - dispatch and latency instrumentation
*/
package scheduler
