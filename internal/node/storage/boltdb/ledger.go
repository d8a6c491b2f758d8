package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/fieldlink/internal/node/storage"
)

// MarkApplied records task id with application time (RFC3339Nano).
// Check and write happen in one transaction.
func (s *Storage) MarkApplied(ctx context.Context, taskID string, at time.Time) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}
	if taskID == "" {
		return false, storage.ErrEmptyTaskID
	}

	inserted := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketApplied)
		if bucket == nil {
			return fmt.Errorf("applied tasks bucket not found")
		}

		if bucket.Get([]byte(taskID)) != nil {
			return nil
		}

		if err := bucket.Put([]byte(taskID), []byte(at.UTC().Format(time.RFC3339Nano))); err != nil {
			return fmt.Errorf("failed to save applied task: %w", err)
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("transaction failed: %w", err)
	}

	return inserted, nil
}

// IsApplied reports whether task id was already recorded
func (s *Storage) IsApplied(ctx context.Context, taskID string) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	applied := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketApplied)
		if bucket == nil {
			return fmt.Errorf("applied tasks bucket not found")
		}
		applied = bucket.Get([]byte(taskID)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check applied task: %w", err)
	}

	return applied, nil
}
