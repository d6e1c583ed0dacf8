package storage

// OffsetStore persists the consumer's last-committed offset per
// topic/partition as a local mirror of the broker commit. The consumer
// does not read it back on restart; where consumption resumes is decided
// by the consumer group's committed offset on the broker.
type OffsetStore interface {
	// CommitOffset durably records offset as the last completed offset
	// for partition within topic.
	CommitOffset(topic string, partition int32, offset int64) error

	// LoadOffset returns the last committed offset for topic/partition,
	// and false if none has ever been committed.
	LoadOffset(topic string, partition int32) (int64, bool, error)

	// Close releases the underlying database handle.
	Close() error
}
