package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldlink/internal/node/storage"
)

// IncrementCounter increments named counter and returns new value
func (s *Storage) IncrementCounter(ctx context.Context, name string) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var value uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCounters)
		if bucket == nil {
			return fmt.Errorf("counters bucket not found")
		}

		if raw := bucket.Get([]byte(name)); raw != nil {
			value = binary.BigEndian.Uint64(raw)
		}
		value++

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, value)
		return bucket.Put([]byte(name), buf)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}

	return value, nil
}

// GetCounters returns all counters
func (s *Storage) GetCounters(ctx context.Context) (map[string]uint64, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	counters := make(map[string]uint64)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCounters)
		if bucket == nil {
			return fmt.Errorf("counters bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			if len(v) != 8 {
				return fmt.Errorf("invalid counter value for %s", k)
			}
			counters[string(k)] = binary.BigEndian.Uint64(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get counters: %w", err)
	}

	return counters, nil
}
