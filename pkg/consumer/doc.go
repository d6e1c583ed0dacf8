/*
Package consumer ingests entity-resolution change events from Kafka via
twmb/franz-go and hands each one to pkg/scheduler as a lock-gated work
item, committing its Kafka offset only once the Projector has returned
successfully.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                     kgo.Client.PollFetches                  │
	└───────────────────────────┬──────────────────────────────--─┘
	                            │ record
	                            ▼
	          goccy/go-json.Unmarshal ──► types.ChangeEvent
	                            │
	                            ▼
	          resourceKeysFor (entity + affected entities)
	                            │
	                            ▼
	┌────────────────────────────────────────────────────────────┐
	│           scheduler.Submit(WorkItem{Keys, Wait, Run})       │
	│                                                               │
	│   Run: project(ctx, event)                                  │
	│        ──► success: CommitRecords, mirror offset, publish    │
	│        ──► failure: publish EventWorkItemFailed, return err  │
	└────────────────────────────────────────────────────────────┘

Offsets commit only after the Projector has returned successfully, so a
crash mid-projection replays the event on restart rather than losing
it; auto-commit is disabled on the underlying kgo.Client for exactly
this reason, and the commit is issued explicitly via CommitRecords.
Every successful commit is also mirrored into a local bbolt-backed
storage.OffsetStore, giving operators a way to inspect consumption
progress without querying the broker's commit log - this mirror is a
diagnostic aid, not the source of truth for delivery; see pkg/storage.

# Core Components

Config: Kafka connection details (brokers, topic, group ID), the offset
checkpoint directory, the internal scheduler's queue size, and the
lock.Wait mode to acquire a WorkItem's keys with.

Projector: the one-function type (func(ctx, *types.ChangeEvent) error)
the consumer delegates all domain-specific work to. pkg/datamart's
ProjectChangeEvent is the stock implementation this repository ships,
but any Projector can be substituted.

Consumer: owns the kgo.Client, an internal scheduler.Scheduler, an
events.Broker, and the storage.OffsetStore handed to New. It implements
the same Start/Stop/State lifecycle shape as pkg/scheduler, via an
embedded *lifecycle.Machine.

resourceKeysFor: derives one ResourceKey for the event's own entity
plus one per AffectedEntityID (e.g. the two sides of a merge), so a
merge and a concurrent update to either side can never interleave
their projections.

# Usage Examples

## Constructing and starting a consumer

	c := consumer.New(consumer.Config{
		Brokers:     []string{"localhost:9092"},
		Topic:       "change-events",
		GroupID:     "data-mart-replicator",
		DataDir:     "./data",
		QueueSize:   64,
		AcquireWait: lock.Indefinite,
	}, lockService, offsets, mart.ProjectChangeEvent)

	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Stop()

## Observing processing without touching the data mart

	sub := c.Events().Subscribe()
	go func() {
		for evt := range sub {
			log.Printf("%s: %s", evt.Type, evt.Message)
		}
	}()

# Integration Points

## pkg/scheduler

Consumer constructs its own internal *scheduler.Scheduler in New and
starts/stops it alongside its own lifecycle - every decoded event
becomes exactly one scheduler.WorkItem, and the consumer never calls
lock.Service.Acquire/Release directly.

## pkg/storage

The consumer is the sole caller of storage.OffsetStore, opened by the
caller (typically cmd/datamartreplicator's serve command) and passed
into New - the consumer never constructs its own OffsetStore.

## pkg/events

Every change-received, commit, and work-item-failure publishes to the
Consumer's own events.Broker (see Events), so admin tooling can watch
processing happen without polling the data mart or the metrics
endpoint.

## pkg/health

Consumer.State() satisfies health.Reporter, registered alongside the
locking service on the serve command's /readyz endpoint.

# Design Patterns

## Commit after success, never before

CommitRecords is called from inside the WorkItem's Run closure, after
the Projector has already returned nil - not from the poll loop itself
- so a WorkItem that never completes (process crash, panic) simply
never commits, and the next consumer instance re-fetches the same
record from the broker's last committed offset.

## Fallback work-item IDs via google/uuid

Upstream producers are expected to stamp an EventID on every change
event, but handleRecord falls back to uuid.New().String() when one is
missing, so a WorkItem always has a usable ID for logging and metrics
regardless of producer discipline.

## Broker ownership mirrors pkg/events' origin

This package owns its events.Broker exactly the way a supervising
manager owns a broker in the broader corpus this design is drawn from -
constructed in New, started/stopped alongside the consumer's own
lifecycle, never shared across Consumer instances.

# Performance Characteristics

handleRecord is O(1) amortized per record: one JSON decode
(goccy/go-json, chosen for this exact per-record hot path), a small,
fixed number of ResourceKey derivations, and one scheduler.Submit call.
The consumer's own throughput ceiling is therefore set by the
scheduler's queue size and the lock contention on the decoded
ResourceKeys, not by decoding cost.

# Troubleshooting

## Events are being redelivered after a restart

Expected if the previous process crashed mid-projection - Run's commit
happens only after the Projector returns successfully, so redelivery
on restart is correct replay behavior, not a bug. Design Projectors to
be idempotent under at-least-once delivery.

## "failed to submit work item" in logs

The internal scheduler rejected the work item because it is not
accepting work (for example once Stop has begun); the record is not
committed. A full queue does not produce this error - Submit blocks
until space frees up, which slows the poll loop instead.

## Consumer never becomes ready on /readyz

Check State() and the error Start returned - if the embedded
kgo.NewClient call fails, Init moves the Consumer to Destroyed and
Start returns a SetupError containing "failed to construct kafka
client"; the consumer does not log this error itself.

# Monitoring Metrics

  - datamart_change_events_consumed_total{topic} - one increment per
    record received, before decoding, regardless of eventual success or
    failure.

See pkg/scheduler's own Monitoring Metrics section for the
work-item-level counters this package's internal scheduler emits.

# Best Practices

 1. Keep Projectors idempotent - a crash between a successful
    CommitRecords and the next poll cycle is not possible, but a crash
    before CommitRecords always replays the same event.
 2. Always defer Stop after a successful Start, so in-flight
    projections drain and their offsets commit before process exit.
 3. Subscribe to Events() for observability tooling; never poll
    pkg/datamart directly to infer consumer progress.

# See Also

  - pkg/scheduler - gates every decoded event behind Acquire/Release
  - pkg/storage - the local offset mirror this package writes through
  - pkg/events - the broker this package publishes processing events to
  - pkg/datamart - the stock Projector this package is usually wired to
*/
package consumer
