package storage

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketOffsets = []byte("offsets")

// BoltOffsetStore is an OffsetStore backed by a local bbolt file. It is
// the consumer's only piece of durable local state; the change events
// and projection results themselves live in the data mart's relational
// schema, not here.
type BoltOffsetStore struct {
	db *bolt.DB
}

// NewBoltOffsetStore opens (creating if absent) a bbolt database under
// dataDir for offset checkpointing.
func NewBoltOffsetStore(dataDir string) (*BoltOffsetStore, error) {
	dbPath := filepath.Join(dataDir, "consumer-offsets.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open offset database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, bucketErr := tx.CreateBucketIfNotExists(bucketOffsets)
		return bucketErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create offsets bucket: %w", err)
	}

	return &BoltOffsetStore{db: db}, nil
}

// Close implements OffsetStore.
func (s *BoltOffsetStore) Close() error {
	return s.db.Close()
}

// CommitOffset implements OffsetStore.
func (s *BoltOffsetStore) CommitOffset(topic string, partition int32, offset int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOffsets)
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(offset))
		return b.Put(offsetKey(topic, partition), buf)
	})
}

// LoadOffset implements OffsetStore.
func (s *BoltOffsetStore) LoadOffset(topic string, partition int32) (int64, bool, error) {
	var offset int64
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOffsets)
		data := b.Get(offsetKey(topic, partition))
		if data == nil {
			return nil
		}
		found = true
		offset = int64(binary.BigEndian.Uint64(data))
		return nil
	})
	return offset, found, err
}

func offsetKey(topic string, partition int32) []byte {
	key := make([]byte, len(topic)+1+4)
	copy(key, topic)
	key[len(topic)] = '|'
	binary.BigEndian.PutUint32(key[len(topic)+1:], uint32(partition))
	return key
}
