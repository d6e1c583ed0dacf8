/*
Package types defines the wire and projection shapes shared between the
consumer and the data mart: ChangeEvent (the decoded Kafka record) and
EntityDocument (one projected row). Neither type carries behavior -
deriving lock.ResourceKeys from a ChangeEvent and projecting an
EntityDocument both live in their respective packages (consumer,
datamart).

# Architecture

	Kafka record (JSON) ──► ChangeEvent ──► resourceKeysFor ──► []lock.ResourceKey
	                                │
	                                ▼
	                       datamart.Project
	                                │
	                                ▼
	                       EntityDocument row

# Core Components

ChangeEvent: EventID, EntityID, DataSource, RecordID, Operation,
Timestamp, AffectedEntityIDs, and Document (the raw entity document,
passed through unparsed). pkg/consumer inspects EntityID and
AffectedEntityIDs (to derive lock keys) and EventID (as the work-item
ID); everything else is opaque payload the
data mart either ignores (the envelope fields) or projects verbatim
(Document).

ChangeOperation: one of "created", "updated", "deleted" - deleted is
the only value pkg/datamart branches on (it deletes the row instead of
upserting it).

EntityDocument: ResourceKey (the canonical string form, not a
structured key), Document, and ProjectedAt - the shape returned by
datamart.DataMart.Lookup.

# Usage Examples

## Decoding a Kafka record

	var event types.ChangeEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		return err
	}

## Constructing a ChangeEvent in a test

	event := &types.ChangeEvent{
		EntityID:  "100",
		Operation: types.ChangeOperationUpdated,
		Document:  []byte(`{"name":"Alice"}`),
	}

# Integration Points

## Consumer

pkg/consumer unmarshals each Kafka record's value into a ChangeEvent
and derives lock.ResourceKeys from EntityID and AffectedEntityIDs
before submitting a scheduler.WorkItem.

## Data mart

pkg/datamart.ProjectChangeEvent reads Operation (to decide upsert vs.
delete) and Document (the bytes actually projected); it never inspects
EventID, DataSource, RecordID, or Timestamp.

# Design Patterns

## Behaviorless data types

Both structs are plain data: no methods, no invariants enforced by the
type itself. Validation (e.g. rejecting an event with no EntityID)
happens in the packages that consume these types, not here - this
mirrors spec.md's own data model section, which specifies shape, not
behavior.

## Envelope vs. payload separation

ChangeEvent deliberately separates metadata about the change (EventID,
DataSource, RecordID, Timestamp) from the payload being projected
(Document). This is why datamart.ProjectChangeEvent projects
event.Document directly rather than marshaling the whole ChangeEvent -
conflating the two would leak Kafka-record bookkeeping into the data
mart's rows.

# Performance Characteristics

Both types decode/encode in time linear in Document's size via
goccy/go-json in pkg/consumer; the struct types themselves add no
overhead beyond standard struct field access.

# Troubleshooting

## A projected row contains unexpected envelope fields

Check that the code path still projects event.Document and not
json.Marshal(event) - see pkg/datamart's doc for the distinction this
package's design depends on.

## AffectedEntityIDs not producing the expected extra locks

Confirm the field is populated by the upstream producer; this package
places no constraint on its length (including zero), and pkg/consumer
derives exactly one ResourceKey per affected entity plus one for
EntityID.

# Monitoring Metrics

This package exports no metrics; see pkg/metrics for the
change-event-consumed and projection-duration instrumentation that
wraps operations on these types.

# Best Practices

 1. Treat Document as opaque in every package except pkg/datamart -
    don't parse it speculatively elsewhere.
 2. Keep new wire fields optional (`omitempty` or a zero-value default)
    so older producers remain compatible.
 3. Add new ChangeOperation values deliberately and update every
    switch/if that branches on Operation - there is exactly one
    decision point today (pkg/datamart's delete-vs-upsert branch).

# See Also

  - pkg/consumer - decodes ChangeEvent off the wire
  - pkg/datamart - projects ChangeEvent.Document into EntityDocument rows
  - pkg/lock - ResourceKey, the identifier derived from these types
*/
package types
