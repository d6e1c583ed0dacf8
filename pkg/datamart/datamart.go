package datamart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/metrics"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/types"
)

// DataMart projects JSON entity documents through the schema-managed
// entity_documents table, one row per lock.ResourceKey's canonical
// string. It is intentionally thin: spec.md designates the projection as
// an external collaborator of the locking core, not part of its
// interesting surface.
type DataMart struct {
	db *sql.DB
}

// New returns a DataMart writing through db. The caller is responsible
// for having already applied the schema (see pkg/schema).
func New(db *sql.DB) *DataMart {
	return &DataMart{db: db}
}

// Project upserts doc under key's canonical string, or deletes the row
// if doc is nil - the projection for a ChangeOperationDeleted event.
// Callers are expected to call this only while holding key's lock (e.g.
// from within a scheduler.WorkItem's Handler); Project does not acquire
// anything itself.
func (d *DataMart) Project(ctx context.Context, key *lock.ResourceKey, doc []byte) error {
	if doc == nil {
		_, err := d.db.ExecContext(ctx,
			`DELETE FROM entity_documents WHERE resource_key = $1`,
			key.CanonicalString(),
		)
		if err != nil {
			return fmt.Errorf("datamart: delete %s: %w", key.CanonicalString(), err)
		}
		return nil
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO entity_documents (resource_key, document, projected_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (resource_key) DO UPDATE SET document = $2, projected_at = $3`,
		key.CanonicalString(), doc, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("datamart: upsert %s: %w", key.CanonicalString(), err)
	}
	return nil
}

// ProjectChangeEvent is the consumer.Projector this package offers: it
// derives the same primary ResourceKey the consumer used to gate the
// event and projects event.Document - the raw entity document - as-is.
// The event envelope itself (event id, data source, timestamp, ...) is
// metadata about the change, not part of the projected document, so it
// is never written to entity_documents.
func (d *DataMart) ProjectChangeEvent(ctx context.Context, event *types.ChangeEvent) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ProjectionDuration)

	key, err := lock.NewResourceKey("ENTITY", event.EntityID)
	if err != nil {
		return fmt.Errorf("datamart: deriving resource key: %w", err)
	}

	if event.Operation == types.ChangeOperationDeleted {
		return d.Project(ctx, key, nil)
	}

	return d.Project(ctx, key, event.Document)
}

// Lookup returns the currently projected document for key, and false if
// no row exists.
func (d *DataMart) Lookup(ctx context.Context, key *lock.ResourceKey) (*types.EntityDocument, bool, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT resource_key, document, projected_at FROM entity_documents WHERE resource_key = $1`,
		key.CanonicalString(),
	)

	var doc types.EntityDocument
	if err := row.Scan(&doc.ResourceKey, &doc.Document, &doc.ProjectedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("datamart: lookup %s: %w", key.CanonicalString(), err)
	}
	return &doc, true, nil
}
