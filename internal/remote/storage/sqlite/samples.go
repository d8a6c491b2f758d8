package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/remote/storage"
)

// MaxListLimit верхняя граница выборки семплов
const MaxListLimit = 1000

// SaveSample appends a sample to the journal
func (s *Storage) SaveSample(ctx context.Context, sample *models.StoredSample) error {
	data, err := json.Marshal(sample.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal sample data: %w", err)
	}

	query := `
		INSERT INTO samples (id, uid, node_type, data, sampled_at, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		sample.ID,
		sample.DeviceID,
		sample.NodeType,
		string(data),
		sample.SampledAt.Unix(),
		sample.ReceivedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	return nil
}

// ListSamples returns latest samples for a device, newest first
func (s *Storage) ListSamples(ctx context.Context, uid string, limit int) ([]*models.StoredSample, error) {
	if limit <= 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: %d", storage.ErrInvalidLimit, limit)
	}

	query := `
		SELECT id, uid, node_type, data, sampled_at, received_at
		FROM samples
		WHERE uid = ?
		ORDER BY seq DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples := make([]*models.StoredSample, 0)
	for rows.Next() {
		var (
			sample     models.StoredSample
			data       string
			sampledAt  int64
			receivedAt int64
		)

		if err := rows.Scan(&sample.ID, &sample.DeviceID, &sample.NodeType, &data, &sampledAt, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}

		if err := json.Unmarshal([]byte(data), &sample.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sample %s data: %w", sample.ID, err)
		}

		sample.SampledAt = time.Unix(sampledAt, 0).UTC()
		sample.ReceivedAt = time.Unix(receivedAt, 0).UTC()
		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}

	return samples, nil
}
