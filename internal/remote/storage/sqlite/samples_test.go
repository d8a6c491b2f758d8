package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/remote/storage"
)

func newStoredSample(uid string, v float64, at time.Time) *models.StoredSample {
	return &models.StoredSample{
		ID:         uuid.New().String(),
		DeviceID:   uid,
		NodeType:   "v1",
		Data:       map[string]float64{"temp": v},
		SampledAt:  at,
		ReceivedAt: at.Add(time.Second),
	}
}

func TestSamples_SaveAndList(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, s.SaveSample(ctx, newStoredSample("dev-1", float64(i), base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, s.SaveSample(ctx, newStoredSample("dev-2", 99, base)))

	samples, err := s.ListSamples(ctx, "dev-1", 3)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	// новые первыми
	assert.Equal(t, 4.0, samples[0].Data["temp"])
	assert.Equal(t, 2.0, samples[2].Data["temp"])
	assert.Equal(t, "dev-1", samples[0].DeviceID)
	assert.Equal(t, "v1", samples[0].NodeType)
	assert.True(t, base.Add(4*time.Minute).Equal(samples[0].SampledAt))
	assert.True(t, base.Add(4*time.Minute+time.Second).Equal(samples[0].ReceivedAt))

	samples, err = s.ListSamples(ctx, "unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSamples_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	sample := newStoredSample("dev-1", 1, time.Now())
	require.NoError(t, s.SaveSample(ctx, sample))
	assert.Error(t, s.SaveSample(ctx, sample))
}

func TestSamples_InvalidLimit(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, limit := range []int{0, -1, MaxListLimit + 1} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			_, err := s.ListSamples(context.Background(), "dev-1", limit)
			assert.ErrorIs(t, err, storage.ErrInvalidLimit)
		})
	}
}
