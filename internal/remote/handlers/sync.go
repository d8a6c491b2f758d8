package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/remote/storage"
	"github.com/iudanet/fieldlink/internal/validation"
	"github.com/iudanet/fieldlink/pkg/api"
)

// maxSampleBody ограничение размера тела семпла
const maxSampleBody = 1 << 20

// SyncStorage хранилище, нужное приему семплов
type SyncStorage interface {
	SaveSample(ctx context.Context, sample *models.StoredSample) error
	MatchTask(ctx context.Context, uid string) (*models.Task, error)
}

// SampleMirror получает копию каждого сохраненного семпла (например, InfluxDB).
// Mirror не должен блокировать обработку запроса.
type SampleMirror interface {
	Mirror(sample *models.StoredSample)
}

// SyncRecorder учитывает принятые семплы и выданные задачи
type SyncRecorder interface {
	SampleStored(uid string)
	TaskDelivered(uid string)
}

// SyncHandler принимает семпл и в том же ответе выдает ожидающую задачу устройства
type SyncHandler struct {
	logger   *slog.Logger
	storage  SyncStorage
	mirror   SampleMirror
	recorder SyncRecorder
	now      func() time.Time
}

// NewSyncHandler creates a new sync handler; mirror and recorder may be nil
func NewSyncHandler(logger *slog.Logger, storage SyncStorage, mirror SampleMirror, recorder SyncRecorder) *SyncHandler {
	return &SyncHandler{
		logger:   logger,
		storage:  storage,
		mirror:   mirror,
		recorder: recorder,
		now:      time.Now,
	}
}

// HandleSample обрабатывает POST / и POST /api/v1/samples
func (h *SyncHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req api.SampleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSampleBody)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode sample", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateDeviceID(req.UID); err != nil {
		h.logger.Warn("Invalid device id", "uid", req.UID, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	received := h.now().UTC()
	sampledAt := received
	if req.Time != "" {
		t, err := time.ParseInLocation(models.SampleTimeLayout, req.Time, time.UTC)
		if err != nil {
			h.logger.Warn("Invalid sample time", "uid", req.UID, "time", req.Time)
			writeError(w, h.logger, http.StatusBadRequest, "time must use layout "+models.SampleTimeLayout)
			return
		}
		sampledAt = t
	}

	sample := &models.StoredSample{
		ID:         uuid.New().String(),
		DeviceID:   req.UID,
		NodeType:   req.NodeType,
		Data:       req.Data,
		SampledAt:  sampledAt,
		ReceivedAt: received,
	}
	if sample.Data == nil {
		sample.Data = map[string]float64{}
	}

	ctx := r.Context()
	log := h.logger.With("uid", req.UID, "sample_id", sample.ID)

	if err := h.storage.SaveSample(ctx, sample); err != nil {
		log.Error("Failed to save sample", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to save sample")
		return
	}
	if h.recorder != nil {
		h.recorder.SampleStored(req.UID)
	}
	if h.mirror != nil {
		h.mirror.Mirror(sample)
	}

	resp := api.SyncResponse{
		ID:     sample.ID,
		Status: api.StatusOK,
	}

	task, err := h.storage.MatchTask(ctx, req.UID)
	switch {
	case err == nil:
		resp.Action = &api.TaskAction{
			ID:        task.ID,
			UID:       task.DeviceID,
			Targets:   task.Targets,
			CreatedAt: task.CreatedAt,
		}
		if h.recorder != nil {
			h.recorder.TaskDelivered(req.UID)
		}
		log.Info("Task delivered", "task_id", task.ID)
	case errors.Is(err, storage.ErrTaskNotFound):
		log.Debug("Sample stored, no pending task")
	default:
		log.Error("Failed to match task", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to match task")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
