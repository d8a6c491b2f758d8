// Package watchdog читает семплы с контроллера в фоне и складывает их в очередь
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/fieldlink/internal/node/controller"
	"github.com/iudanet/fieldlink/internal/node/metrics"
	"github.com/iudanet/fieldlink/internal/node/queue"
)

// Watchdog фоновый читатель контроллера
type Watchdog struct {
	reader  controller.Reader
	queue   *queue.SampleQueue
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   func() time.Time
}

// New creates a new watchdog; m may be nil
func New(reader controller.Reader, q *queue.SampleQueue, m *metrics.Metrics, logger *slog.Logger) *Watchdog {
	return &Watchdog{
		reader:  reader,
		queue:   q,
		metrics: m,
		logger:  logger,
		clock:   time.Now,
	}
}

// WithClock подменяет источник времени для меток семплов
func (w *Watchdog) WithClock(clock func() time.Time) *Watchdog {
	w.clock = clock
	return w
}

// Run читает семплы, пока ctx не отменен.
// Ошибка разбора кадра логируется и пропускается; любая другая ошибка чтения
// завершает Run и возвращается вызывающему.
func (w *Watchdog) Run(ctx context.Context) error {
	w.logger.Info("Watchdog started")
	defer w.logger.Info("Watchdog stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		sample, err := w.reader.ReadSample(ctx)
		if err != nil {
			// чтение прервано остановкой
			if ctx.Err() != nil {
				return nil
			}

			if errors.Is(err, controller.ErrParseFailure) {
				w.metrics.IncParseFailures()
				w.logger.Warn("Controller frame rejected", "checksum", "failed", "error", err)
				continue
			}

			w.logger.Error("Controller read failed", "error", err)
			return fmt.Errorf("controller read failed: %w", err)
		}

		sample.Timestamp = w.clock()
		evicted := w.queue.Append(sample)

		w.metrics.IncSamplesRead()
		w.metrics.AddDropped(evicted)
		w.metrics.SetQueueLength(w.queue.Len())

		w.logger.Debug("Sample read", "checksum", "ok", "values", len(sample.Payload), "evicted", evicted)
	}
}
