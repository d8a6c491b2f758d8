// Package reconcile разбирает ответы удаленной стороны и применяет выданные задачи
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/node/display"
	"github.com/iudanet/fieldlink/internal/node/metrics"
	"github.com/iudanet/fieldlink/internal/node/queue"
	"github.com/iudanet/fieldlink/internal/node/storage"
	nodesync "github.com/iudanet/fieldlink/internal/node/sync"
)

// Applier применяет целевые значения к контроллеру
type Applier interface {
	SetParams(ctx context.Context, targets map[string]float64) (map[string]float64, error)
}

// Reconciler обрабатывает очередь ответов в порядке поступления
type Reconciler struct {
	responses *queue.ResponseQueue
	samples   *queue.SampleQueue
	applier   Applier
	ledger    storage.TaskLedger
	counters  storage.CounterStorage
	publisher display.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	clock     func() time.Time
}

// Option настраивает Reconciler
type Option func(*Reconciler)

// WithLedger включает журнал применённых задач (повторно задача не применяется)
func WithLedger(ledger storage.TaskLedger) Option {
	return func(r *Reconciler) { r.ledger = ledger }
}

// WithCounters включает сохраняемые счетчики исходов обмена
func WithCounters(counters storage.CounterStorage) Option {
	return func(r *Reconciler) { r.counters = counters }
}

// WithPublisher задает получателя событий панели
func WithPublisher(p display.Publisher) Option {
	return func(r *Reconciler) { r.publisher = p }
}

// WithMetrics задает метрики
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) { r.metrics = m }
}

// WithClock подменяет источник времени
func WithClock(clock func() time.Time) Option {
	return func(r *Reconciler) { r.clock = clock }
}

// New creates a new reconciler
func New(responses *queue.ResponseQueue, samples *queue.SampleQueue, applier Applier, logger *slog.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		responses: responses,
		samples:   samples,
		applier:   applier,
		publisher: display.Nop{},
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Drain разбирает все накопленные ответы и возвращает их исходы в порядке обработки.
// Каждый ответ извлекается из очереди ровно один раз.
func (r *Reconciler) Drain(ctx context.Context) []models.SyncOutcome {
	var outcomes []models.SyncOutcome
	for {
		entry, ok := r.responses.Pop()
		if !ok {
			return outcomes
		}
		outcomes = append(outcomes, r.Resolve(ctx, entry))
	}
}

// Resolve обрабатывает один ответ
func (r *Reconciler) Resolve(ctx context.Context, entry models.ResponseEntry) models.SyncOutcome {
	outcome := nodesync.Decode(entry)

	switch outcome.Kind {
	case models.OutcomeDelivered:
		r.applyTask(ctx, outcome.Task)
	case models.OutcomeAcknowledged:
		r.logger.Debug("Exchange acknowledged, no task")
	case models.OutcomeRejected:
		r.logger.Warn("Exchange rejected, sample discarded",
			"status", outcome.StatusCode,
			"reason", outcome.Reason,
			"detail", outcome.Detail,
		)
	default:
		if outcome.StatusCode == models.StatusAbsent {
			r.logger.Debug("Exchange without status, discarded")
		} else {
			r.logger.Warn("Unexpected exchange status, discarded",
				"status", outcome.StatusCode,
				"detail", outcome.Detail,
			)
		}
	}

	r.countOutcome(ctx, outcome)
	return outcome
}

// applyTask применяет задачу и очищает накопленные семплы.
// Ошибка применения не останавливает очистку очереди: устаревшие семплы хуже
// пропущенного обновления целевых значений.
func (r *Reconciler) applyTask(ctx context.Context, task *models.Task) {
	log := r.logger.With("task_id", task.ID)

	if r.ledger != nil && task.ID != "" {
		applied, err := r.ledger.IsApplied(ctx, task.ID)
		if err != nil {
			log.Warn("Failed to check task ledger", "error", err)
		} else if applied {
			r.metrics.IncTasksDuplicate()
			log.Warn("Task already applied, skipping")
			return
		}
	}

	_, applyErr := r.applier.SetParams(ctx, task.Targets)
	if applyErr != nil {
		r.metrics.IncApplyFailures()
		log.Error("Failed to apply targets", "error", applyErr)
	}

	dropped := r.samples.Clear()
	r.metrics.AddDropped(dropped)
	r.metrics.SetQueueLength(0)

	if r.ledger != nil && task.ID != "" {
		if _, err := r.ledger.MarkApplied(ctx, task.ID, r.clock()); err != nil {
			log.Warn("Failed to record applied task", "error", err)
		}
	}

	if applyErr != nil {
		return
	}

	r.metrics.IncTasksApplied()
	log.Info("Task applied", "targets", len(task.Targets), "dropped_samples", dropped)

	r.publisher.Publish(display.Event{
		Kind:    display.EventTargetsApplied,
		At:      r.clock(),
		TaskID:  task.ID,
		Targets: task.Targets,
		Source:  "remote",
	})
}

func (r *Reconciler) countOutcome(ctx context.Context, outcome models.SyncOutcome) {
	if r.counters == nil {
		return
	}
	if _, err := r.counters.IncrementCounter(ctx, outcome.Kind.String()); err != nil {
		r.logger.Debug("Failed to update exchange counter", "error", err)
	}
}
