/*
Package events provides an in-memory pub/sub broker used to fan out
occurrences inside the replicator process - lock acquisitions and
releases, change-record arrivals, work item lifecycle, schema
application - to interested observers such as logging bridges, metrics
collectors, and admin tooling.

# Architecture

	┌──────────────────────────────────────────────────────────────┐
	│                           Broker                              │
	│                                                                │
	│   Publish(event) ──► eventCh (buffered 100) ──► run() loop    │
	│                                                     │          │
	│                                                     ▼          │
	│                                           broadcast to every   │
	│                                           Subscriber (non-     │
	│                                           blocking, buffer 50) │
	└──────────────────────────────────────────────────────────────┘

Publish enqueues onto a single internal channel; one goroutine (run)
drains it and fans each event out to every current subscriber. This
indirection means Publish itself never iterates the subscriber set nor
blocks on a slow one - only run does, and only after checking each
subscriber's own buffer is not full.

# Core Components

Event: Type (one of the EventXxx constants), a Timestamp (defaulted to
time.Now() by Publish if left zero), a free-form Message, and an
optional Metadata map for small key/value context (e.g. resource_key,
entity_id).

Broker: owns the distribution goroutine and the subscriber set.
Start/Stop bound its lifetime; Subscribe/Unsubscribe manage individual
listeners.

Subscriber: a buffered channel of *Event. Consuming from it is the
subscriber's own responsibility - the broker never blocks waiting for
a read.

# Usage Examples

## Basic subscribe/publish

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			log.Printf("%s: %s", event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventWorkItemFailed,
		Message: "projection failed: constraint violation",
		Metadata: map[string]string{
			"resource_key": key.CanonicalString(),
		},
	})

## Owning a broker inside a collaborator

	type Consumer struct {
		eventBroker *events.Broker
		// ...
	}

	func New(...) *Consumer {
		return &Consumer{eventBroker: events.NewBroker(), /* ... */}
	}

	func (c *Consumer) Events() *events.Broker { return c.eventBroker }

	// Start/Stop the broker alongside the collaborator's own lifecycle:
	c.eventBroker.Start()
	defer c.eventBroker.Stop()

# Integration Points

## Consumer

pkg/consumer owns one Broker for its own lifetime (started inside
Start, stopped inside Stop) and publishes EventChangeReceived,
EventWorkItemFailed, and EventChangeCommitted at the three points in
handleRecord where those occurrences happen. Consumer.Events() exposes
it for admin tooling to subscribe to.

## Admin tooling (future)

No component in this repository subscribes to a Broker today beyond
tests; the accessor pattern above exists so a future admin CLI command
or websocket bridge can Subscribe without the consumer needing to know
about it in advance.

# Design Patterns

## Publish never blocks on a subscriber

A subscriber whose 50-event buffer is full simply misses the event
(the broadcast's send is a non-blocking select with a default case).
This is a deliberate best-effort tradeoff: a stalled or absent observer
must never be able to apply backpressure to the publisher.

## Observability only, never delivery

The locking core and the scheduler do not depend on this broker for
correctness - it exists to let something outside the process's normal
call graph observe what happened, not to hand off work between
components. Nothing in this repository blocks on a Broker's output
before proceeding.

# Performance Characteristics

Publish is O(1): a single buffered channel send. Each broadcast is
O(subscribers), with each subscriber send itself O(1) due to the
non-blocking select. With the default 100-deep internal channel and
50-deep subscriber buffers, a burst well under those depths never
drops; sustained publish rates faster than the slowest subscriber can
drain will eventually drop events for that subscriber only, not for
others.

# Troubleshooting

## A subscriber isn't seeing events it should

  - Check whether its buffer filled and events were dropped for it
    specifically (other subscribers are unaffected) - Publish/broadcast
    never blocks nor retries a full subscriber.
  - Confirm Subscribe was called after Start - events published before
    a given Subscribe call are never backfilled to it.

## Stop hangs

Stop closes an internal channel and returns; it does not wait for
subscribers to drain. If it appears to hang, the blockage is more
likely in the caller's own shutdown sequence than in this package.

# Monitoring Metrics

This package exports no Prometheus metrics of its own.
Broker.SubscriberCount() is available for a caller to report as a
gauge if a deployment wants visibility into how many observers are
attached.

# Best Practices

 1. Always pair Start with a deferred Stop, and Subscribe with a
    deferred Unsubscribe, mirroring the locking core's own Acquire/
    Release discipline.
 2. Keep Metadata small and string-valued - it exists for grep-friendly
    context, not as a general payload channel.
 3. Never make a subscriber's processing block on anything the
    publisher depends on; the broker's non-blocking design only holds
    if subscribers are truly independent observers.

# See Also

  - pkg/consumer - the one collaborator in this repository that owns a Broker
  - pkg/log - the structured-logging counterpart most subscribers bridge into
  - pkg/metrics - numeric counters for the same occurrences this package narrates
*/
package events
