// Package influx зеркалирует принятые семплы в InfluxDB для построения графиков.
// Запись неблокирующая: точки буферизуются клиентом и отправляются пачками,
// ошибки асинхронной записи только логируются.
package influx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/models"
)

const (
	measurement = "sample"

	defaultConnectTimeout = 10 * time.Second
	defaultBatchSize      = 100
	defaultFlushInterval  = 1000 // миллисекунды
)

// Mirror пишет копии семплов в бакет InfluxDB
type Mirror struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   *slog.Logger
}

// Connect создает клиента, проверяет сервер через ping
// и запускает обработку ошибок асинхронной записи
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger *slog.Logger) (*Mirror, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)),
	)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	m := &Mirror{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   logger,
	}
	go m.logWriteErrors(m.writeAPI.Errors())

	logger.Info("InfluxDB mirror connected", "url", cfg.URL, "bucket", cfg.Bucket)
	return m, nil
}

func (m *Mirror) logWriteErrors(errs <-chan error) {
	for err := range errs {
		m.logger.Warn("InfluxDB write failed", "error", err)
	}
}

// Mirror ставит семпл в буфер записи. Семплы без показаний пропускаются.
func (m *Mirror) Mirror(sample *models.StoredSample) {
	point := samplePoint(sample)
	if point == nil {
		return
	}
	m.writeAPI.WritePoint(point)
}

// Flush отправляет буферизованные точки
func (m *Mirror) Flush() {
	m.writeAPI.Flush()
}

// Close отправляет оставшиеся точки и закрывает клиента
func (m *Mirror) Close() error {
	m.writeAPI.Flush()
	m.client.Close()
	return nil
}

// samplePoint строит точку: теги uid и node_type, поля из показаний,
// время - момент снятия показаний на узле
func samplePoint(sample *models.StoredSample) *write.Point {
	if sample == nil || len(sample.Data) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(sample.Data))
	for k, v := range sample.Data {
		fields[k] = v
	}

	tags := map[string]string{"uid": sample.DeviceID}
	if sample.NodeType != "" {
		tags["node_type"] = sample.NodeType
	}

	ts := sample.SampledAt
	if ts.IsZero() {
		ts = sample.ReceivedAt
	}

	return write.NewPoint(measurement, tags, fields, ts)
}
