package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/validation"
	"github.com/iudanet/fieldlink/pkg/api"
)

const (
	defaultSampleLimit = 50
	maxSampleLimit     = 1000
)

// SampleStorage чтение сохраненных семплов
type SampleStorage interface {
	ListSamples(ctx context.Context, uid string, limit int) ([]*models.StoredSample, error)
}

// SamplesHandler отдает последние семплы устройства
type SamplesHandler struct {
	logger  *slog.Logger
	storage SampleStorage
}

// NewSamplesHandler creates a new samples handler
func NewSamplesHandler(logger *slog.Logger, storage SampleStorage) *SamplesHandler {
	return &SamplesHandler{
		logger:  logger,
		storage: storage,
	}
}

// HandleList обрабатывает GET /api/v1/samples?uid=&limit=
func (h *SamplesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "only GET is supported")
		return
	}

	query := r.URL.Query()
	uid := query.Get("uid")
	if err := validation.ValidateDeviceID(uid); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultSampleLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSampleLimit {
			writeError(w, h.logger, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	samples, err := h.storage.ListSamples(r.Context(), uid, limit)
	if err != nil {
		h.logger.Error("Failed to list samples", "uid", uid, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to list samples")
		return
	}

	resp := api.SampleListResponse{Samples: make([]api.SampleRecord, 0, len(samples))}
	for _, s := range samples {
		resp.Samples = append(resp.Samples, api.SampleRecord{
			ID:         s.ID,
			UID:        s.DeviceID,
			NodeType:   s.NodeType,
			Data:       s.Data,
			Time:       s.SampledAt,
			ReceivedAt: s.ReceivedAt,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
