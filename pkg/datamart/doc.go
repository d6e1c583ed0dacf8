/*
Package datamart projects entity-resolution change events into a single
relational table, entity_documents, keyed by a lock.ResourceKey's
canonical string. It is the one stock Projector this repository ships,
and the reference caller of pkg/schema's generated DDL.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│              consumer.Consumer (holds the lock)              │
	└───────────────────────────┬──────────────────────────────--─┘
	                            │ ProjectChangeEvent(ctx, event)
	                            ▼
	┌────────────────────────────────────────────────────────────┐
	│                         DataMart                            │
	│                                                               │
	│   derive ResourceKey("ENTITY", event.EntityID)               │
	│                   │                                           │
	│   deleted? ───yes──►  Project(ctx, key, nil)  ──► DELETE row  │
	│        │no                                                    │
	│        ▼                                                      │
	│   Project(ctx, key, event.Document)  ──► INSERT ... ON CONFLICT│
	│                                           DO UPDATE            │
	└───────────────────────────┬──────────────────────────────--─┘
	                            │
	                            ▼
	                entity_documents (see pkg/schema)

Only event.Document - the raw entity document the upstream resolver
produced - is ever written to the document column. The surrounding
ChangeEvent envelope (event id, data source, operation, timestamp) is
metadata about the change, consulted to decide how to project, never
projected itself.

# Core Components

DataMart: holds a *sql.DB already pointed at a schema-applied database
(see pkg/schema.Apply). It has no connection-pool or retry logic of its
own - database/sql's pool and the driver underneath it (lib/pq or
go-sql-driver/mysql, selected in pkg/schema) own that.

Project: the low-level primitive - upsert or delete one row by
ResourceKey, given an already-decoded document or nil. Callers that
don't need the ChangeEvent-specific derivation (e.g. a future backfill
tool that already knows the key) can call this directly.

ProjectChangeEvent: the consumer.Projector this package offers out of
the box - derives the ResourceKey from the event and delegates to
Project.

Lookup: returns the currently projected document for a key, for read
paths outside the projection pipeline (e.g. an operator tool or a
future query API).

# Usage Examples

## Constructing and wiring into a consumer

	db, err := schema.Open(dialect, dsn)
	if err != nil {
		return err
	}
	mart := datamart.New(db)
	c := consumer.New(consumerCfg, lockService, offsets, mart.ProjectChangeEvent)

## Projecting directly, bypassing ChangeEvent derivation

	key, _ := lock.NewResourceKey("ENTITY", "100")
	if err := mart.Project(ctx, key, []byte(`{"name":"Acme Corp"}`)); err != nil {
		return err
	}

## Looking up a projected document

	doc, found, err := mart.Lookup(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		// no row has ever been projected for this key
	}

# Integration Points

## pkg/consumer

Consumer.handleRecord's scheduler.WorkItem.Run calls ProjectChangeEvent
only while the event's ResourceKeys are held - DataMart itself never
acquires a lock, so calling Project outside a held lock (e.g. from ad
hoc tooling) is the caller's own responsibility to serialize.

## pkg/schema

DataMart assumes entity_documents already exists in the shape
schema.EntityDocumentsTable() describes; it does not create or migrate
the table itself. The upsert statement's column list (resource_key,
document, projected_at) matches that table definition exactly.

## pkg/metrics

ProjectChangeEvent wraps its body in a metrics.Timer observing
metrics.ProjectionDuration, the data mart's one instrumentation point.

# Design Patterns

## Envelope vs. payload separation

types.ChangeEvent carries both the change's own metadata and the raw
Document it describes; this package is deliberately the one place that
enforces the two are never conflated - see ProjectChangeEvent's own doc
comment for the invariant this protects.

## Thin collaborator, not part of the locking core

This package holds no lock.Service reference and never calls
Acquire/Release - spec.md classifies projection as a caller-supplied
Handler, not part of the locking core's own interesting surface. A
different Projector (or none at all, for a caller only interested in
lock semantics) is a drop-in replacement.

## Upsert over read-then-write

Project always issues a single INSERT ... ON CONFLICT DO UPDATE (or a
single DELETE), never a SELECT followed by an INSERT/UPDATE - there is
no read-modify-write race to protect against here, since the caller
already holds the ResourceKey's lock for the duration of the call.

# Performance Characteristics

Every Project call is exactly one round trip to the database - a
single INSERT/UPDATE or DELETE statement, no transaction spanning
multiple statements. Lookup is a single indexed point read by primary
key (resource_key). Neither scales with the size of the document
itself beyond whatever the driver and column type (jsonb on Postgres,
json on MySQL) impose.

# Troubleshooting

## "datamart: upsert ...: ..." wrapped errors

The wrapped driver error is almost always either a connectivity problem
(check db's underlying connection pool / the database's availability)
or a malformed document (validate event.Document is valid JSON before
it reaches this package - datamart does not validate document shape,
only pass it through).

## A deleted entity's row never disappears

Confirm the event actually carries types.ChangeOperationDeleted;
ProjectChangeEvent only issues a DELETE for that exact operation value,
any other operation value always upserts.

## ON CONFLICT syntax error against MySQL

The current upsert statement is Postgres syntax only (ON CONFLICT ...
DO UPDATE); MySQL requires ON DUPLICATE KEY UPDATE instead. This is a
known, documented gap, not yet implemented.

# Monitoring Metrics

  - datamart_projection_duration_seconds - time spent inside
    ProjectChangeEvent, covering both the upsert and the delete path.

# Best Practices

 1. Always apply pkg/schema's DDL (schema.Apply) before constructing a
    DataMart against a fresh database.
 2. Never call Project concurrently for the same ResourceKey outside a
    held lock - this package performs no locking of its own.
 3. Pass event.Document through unparsed; do not re-marshal or
    re-derive it from other ChangeEvent fields before projecting.

# See Also

  - pkg/schema - the DDL this package's upsert statement depends on
  - pkg/consumer - the sole caller of ProjectChangeEvent
  - pkg/types - ChangeEvent and EntityDocument definitions
  - pkg/metrics - ProjectionDuration
*/
package datamart
