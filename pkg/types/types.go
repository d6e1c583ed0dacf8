package types

import "time"

// ChangeEvent is the decoded form of one entity-resolution change record
// consumed from the change-events topic. EntityID and AffectedEntityIDs
// are the identifiers used to derive the lock.ResourceKeys that gate its
// projection.
type ChangeEvent struct {
	EventID    string          `json:"event_id"`
	EntityID   string          `json:"entity_id"`
	DataSource string          `json:"data_source"`
	RecordID   string          `json:"record_id"`
	Operation  ChangeOperation `json:"operation"`
	Timestamp  time.Time       `json:"timestamp"`

	// AffectedEntityIDs lists other entities this change touches (e.g. a
	// merge or un-merge in the entity-resolution process). A WorkItem
	// derived from this event acquires one ResourceKey per entry here
	// plus EntityID itself, so a merge can never race the projection of
	// either side.
	AffectedEntityIDs []string `json:"affected_entity_ids,omitempty"`

	// Document is the raw entity document to project, passed through
	// unparsed - the data mart is the only component that interprets it.
	Document []byte `json:"document"`
}

// ChangeOperation classifies what kind of mutation a ChangeEvent records.
type ChangeOperation string

const (
	ChangeOperationCreated ChangeOperation = "created"
	ChangeOperationUpdated ChangeOperation = "updated"
	ChangeOperationDeleted ChangeOperation = "deleted"
)

// EntityDocument is one projected row in the entity_documents table: a
// canonical resource key paired with the JSON document currently
// projected for it.
type EntityDocument struct {
	ResourceKey string    `json:"resource_key"`
	Document    []byte    `json:"document"`
	ProjectedAt time.Time `json:"projected_at"`
}
