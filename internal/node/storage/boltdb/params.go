package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldlink/internal/node/storage"
)

const keyCurrentParams = "current"

// SaveParams stores target values as a single JSON document
func (s *Storage) SaveParams(ctx context.Context, params map[string]float64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketParams)
		if bucket == nil {
			return fmt.Errorf("params bucket not found")
		}

		if err := bucket.Put([]byte(keyCurrentParams), data); err != nil {
			return fmt.Errorf("failed to save params: %w", err)
		}
		return nil
	})
}

// LoadParams returns stored target values
func (s *Storage) LoadParams(ctx context.Context) (map[string]float64, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	params := make(map[string]float64)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketParams)
		if bucket == nil {
			return fmt.Errorf("params bucket not found")
		}

		data := bucket.Get([]byte(keyCurrentParams))
		if data == nil {
			// ничего еще не применялось
			return nil
		}

		return json.Unmarshal(data, &params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load params: %w", err)
	}

	return params, nil
}
