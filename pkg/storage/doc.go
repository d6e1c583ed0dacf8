/*
Package storage provides durable local state for the consumer: the last
committed Kafka offset per topic/partition, via a small bbolt-backed
OffsetStore. This is deliberately the only durably-local piece of state
in the repository - the change events and projected entity documents
themselves live in the relational data mart, addressed by
lock.ResourceKey's canonical string, not here.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                      consumer.Consumer                     │
	│                                                               │
	│   kgo.Client.CommitRecords (source of truth, on the broker)  │
	│                        │                                       │
	│                        ▼                                       │
	│              storage.OffsetStore.CommitOffset                │
	│                  (local diagnostic mirror)                    │
	└───────────────────────────┬────────────────────────────────--┘
	                            │
	                            ▼
	                 consumer-offsets.db (bbolt file)
	                  bucket "offsets"
	                  key = topic + "|" + big-endian partition
	                  value = big-endian int64 offset

The consumer group's committed offset on the Kafka broker is always the
authoritative resume point; this package's own offset is written after
the broker commit succeeds and exists only so an operator can inspect
consumer progress (via the bbolt file directly, or future tooling built
on LoadOffset) without querying the broker.

# Core Components

OffsetStore: the interface (CommitOffset/LoadOffset/Close) the consumer
depends on. A future implementation (e.g. backed by the relational data
mart itself) can satisfy this without the consumer's own code changing.

BoltOffsetStore: the only implementation, backed by go.etcd.io/bbolt.
One file per consumer process (named consumer-offsets.db under the
configured data directory), one bucket, one key per topic/partition
pair.

# Usage Examples

## Opening and using a store

	store, err := storage.NewBoltOffsetStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	offset, found, err := store.LoadOffset("change-events", partition)
	if err != nil {
		return err
	}
	if !found {
		offset = -1 // start from the beginning of the partition
	}

## Recording a commit after a successful projection

	if err := store.CommitOffset(rec.Topic, rec.Partition, rec.Offset+1); err != nil {
		logger.Error().Err(err).Msg("failed to mirror offset locally")
		// not fatal: the broker's own committed offset remains authoritative
	}

# Integration Points

## pkg/consumer

Consumer.handleRecord calls CommitOffset only after kgo.Client's own
CommitRecords has already succeeded, and treats a CommitOffset failure
as log-worthy but non-fatal - losing the local mirror never risks
reprocessing or skipping a change event, since the broker's committed
offset is unaffected.

## cmd/datamartreplicator

The serve command opens one BoltOffsetStore per process, under the
data directory named in KafkaConfig.DataDir, and passes it to
consumer.New alongside the lock.Service and the Projector.

# Design Patterns

## Mirror, not source of truth

This package's offset is a read-after-write mirror of a decision
already made by Kafka's own consumer-group protocol, never the
deciding value itself - a design choice that keeps this package's own
durability guarantees irrelevant to correctness: a corrupted or deleted
consumer-offsets.db only loses a diagnostic, not committed progress.

## Fixed-width binary keys and values

Keys pack the topic name, a single '|' separator, and a big-endian
int32 partition; values are a big-endian int64 offset. Big-endian
encoding keeps keys in bbolt's natural byte-order sort, so a future
range scan over one topic's partitions would iterate in partition
order for free.

# Performance Characteristics

Every CommitOffset call is one bbolt read-write transaction (an fsync
by default) - proportional to the record rate, since the consumer calls
it once per record whose Projector returned successfully. LoadOffset is a single read-only transaction, O(1) relative to
the size of the offsets bucket.

# Troubleshooting

## consumer-offsets.db grows without a corresponding increase in committed records

The offsets bucket has exactly one key per topic/partition pair ever
seen; it does not grow per-record. Unexpected file growth points at
bbolt's own free-list/page churn from write volume, not a key-space
leak in this package.

## LoadOffset always returns found=false after a restart

Confirm NewBoltOffsetStore is pointed at the same dataDir across
restarts - a data directory that resets on redeploy (e.g. an ephemeral
container filesystem) loses this mirror even though the broker's
consumer-group offset is unaffected.

# Monitoring Metrics

This package exports no Prometheus metrics of its own; offset-related
observability is the consumer's (see pkg/consumer's
metrics.ChangeEventsConsumed) since this package is a pass-through
mirror, not a decision point.

# Best Practices

 1. Always call CommitOffset after the broker commit, never before -
    mirroring the decision rather than racing it.
 2. Treat a CommitOffset error as non-fatal and log-only, exactly as
    pkg/consumer does - the local mirror is a convenience, not a
    correctness dependency.
 3. Always defer Close on the store returned by NewBoltOffsetStore, to
    release the bbolt file lock cleanly on shutdown.

# See Also

  - pkg/consumer - the sole caller of this package
  - pkg/lock - the ResourceKey scheme the data mart itself (the real
    source of truth for projected state) is keyed by
*/
package storage
