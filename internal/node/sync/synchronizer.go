package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	nodeapi "github.com/iudanet/fieldlink/internal/node/api"
	"github.com/iudanet/fieldlink/internal/node/metrics"
	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/pkg/api"
)

// lostServerPrefix тело синтетического ответа при ошибке транспорта
const lostServerPrefix = "Lost server: "

// Synchronizer выполняет один обмен семпл -> ответ с удаленной стороной
type Synchronizer struct {
	client   nodeapi.ClientAPI
	metrics  *metrics.Metrics
	logger   *slog.Logger
	identity models.DeviceIdentity
}

// NewSynchronizer creates a new synchronizer; m may be nil
func NewSynchronizer(client nodeapi.ClientAPI, identity models.DeviceIdentity, m *metrics.Metrics, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		client:   client,
		identity: identity,
		metrics:  m,
		logger:   logger,
	}
}

// Transmit отправляет семпл с идентификатором устройства.
// Всегда возвращает ResponseEntry: при ошибке транспорта это синтетический 400.
func (s *Synchronizer) Transmit(ctx context.Context, sample *models.Sample) models.ResponseEntry {
	req := api.SampleRequest{
		UID:      s.identity.UID,
		NodeType: s.identity.ControllerKind,
		Time:     sample.Timestamp.Format(models.SampleTimeLayout),
		Data:     sample.Payload,
	}

	started := time.Now()
	status, body, err := s.client.PushSample(ctx, req)
	elapsed := time.Since(started)

	if err != nil {
		s.logger.Warn("Transmission failed", "error", err, "elapsed", elapsed)
		entry := models.ResponseEntry{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(lostServerPrefix + err.Error()),
		}
		s.metrics.ObserveExchange("transport_error", elapsed)
		return entry
	}

	s.logger.Debug("Sample transmitted", "status", status, "elapsed", elapsed)
	s.metrics.ObserveExchange(fmt.Sprintf("http_%d", status), elapsed)

	return models.ResponseEntry{StatusCode: status, Body: body}
}

// Decode единственный шаг разбора ответа в SyncOutcome
func Decode(entry models.ResponseEntry) models.SyncOutcome {
	switch entry.StatusCode {
	case http.StatusOK:
		return decodeOK(entry.Body)
	case http.StatusBadRequest:
		return models.Rejected(entry.StatusCode, models.ReasonConnectivity, string(entry.Body))
	case http.StatusInternalServerError:
		return models.Rejected(entry.StatusCode, models.ReasonServer, string(entry.Body))
	case models.StatusAbsent:
		return models.Unknown(entry.StatusCode, "status absent")
	default:
		return models.Unknown(entry.StatusCode, string(entry.Body))
	}
}

func decodeOK(body []byte) models.SyncOutcome {
	var resp api.SyncResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Unknown(http.StatusOK, fmt.Sprintf("malformed response body: %v", err))
	}

	if resp.Action == nil {
		return models.Acknowledged()
	}

	// задача без целевых значений считается некорректной
	if resp.Action.Targets == nil {
		return models.Unknown(http.StatusOK, "action without targets")
	}

	return models.Delivered(&models.Task{
		ID:        resp.Action.ID,
		DeviceID:  resp.Action.UID,
		Targets:   resp.Action.Targets,
		CreatedAt: resp.Action.CreatedAt,
	})
}
