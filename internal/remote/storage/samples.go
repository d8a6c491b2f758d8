package storage

import (
	"context"

	"github.com/iudanet/fieldlink/internal/models"
)

// SampleStorage append-only журнал принятых семплов
type SampleStorage interface {
	// SaveSample appends a sample. ID must be set by the caller
	SaveSample(ctx context.Context, sample *models.StoredSample) error

	// ListSamples returns latest samples for a device, newest first
	ListSamples(ctx context.Context, uid string, limit int) ([]*models.StoredSample, error)
}
