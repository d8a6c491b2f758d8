// Package engine запускает и контролирует рабочие циклы узла:
// фоновое чтение контроллера и цикл синхронизации с удаленной стороной.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/fieldlink/internal/models"
	"github.com/iudanet/fieldlink/internal/node/controller"
	"github.com/iudanet/fieldlink/internal/node/display"
	"github.com/iudanet/fieldlink/internal/node/metrics"
	"github.com/iudanet/fieldlink/internal/node/queue"
	"github.com/iudanet/fieldlink/internal/node/reconcile"
	"github.com/iudanet/fieldlink/internal/node/watchdog"
)

// ErrErrorLimitReached число подряд неудачных обменов достигло предела
var ErrErrorLimitReached = errors.New("error limit reached")

// Transmitter выполняет один обмен семпл -> ответ
type Transmitter interface {
	Transmit(ctx context.Context, sample *models.Sample) models.ResponseEntry
}

// Config параметры цикла синхронизации
type Config struct {
	Interval     time.Duration
	StartupDelay time.Duration
	// ErrorLimit 0 - без ограничения
	ErrorLimit int
}

// Deps зависимости движка. Overrides, Publisher и Metrics необязательны.
type Deps struct {
	Reader       controller.Reader
	Samples      *queue.SampleQueue
	Responses    *queue.ResponseQueue
	Synchronizer Transmitter
	Reconciler   *reconcile.Reconciler
	Params       reconcile.Applier
	Overrides    display.OverrideSource
	Publisher    display.Publisher
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// Engine владеет обоими рабочими циклами и дожидается их завершения в Run
type Engine struct {
	deps     Deps
	watchdog *watchdog.Watchdog
	cfg      Config
	failures int
}

// New creates a new engine
func New(cfg Config, deps Deps) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if deps.Overrides == nil {
		deps.Overrides = display.NullOverrides{}
	}
	if deps.Publisher == nil {
		deps.Publisher = display.Nop{}
	}

	return &Engine{
		cfg:      cfg,
		deps:     deps,
		watchdog: watchdog.New(deps.Reader, deps.Samples, deps.Metrics, deps.Logger),
	}
}

// Run запускает оба цикла и блокируется до их завершения.
// Фатальная ошибка любого цикла отменяет общий контекст; второй цикл
// замечает отмену в ближайшей точке ожидания. Отмена ctx - штатная остановка.
func (e *Engine) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.watchdog.Run(gctx)
	})

	g.Go(func() error {
		return e.loop(gctx)
	})

	// закрываем канал контроллера, чтобы прервать блокирующее чтение
	g.Go(func() error {
		<-gctx.Done()
		e.closeReader()
		return nil
	})

	err := g.Wait()
	if err != nil {
		e.deps.Logger.Error("Engine stopped", "error", err)
		return err
	}

	e.deps.Logger.Info("Engine stopped")
	return nil
}

func (e *Engine) closeReader() {
	closer, ok := e.deps.Reader.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		e.deps.Logger.Warn("Failed to close controller link", "error", err)
	}
}

// loop цикл синхронизации: пауза на старте, затем итерация раз в Interval
func (e *Engine) loop(ctx context.Context) error {
	log := e.deps.Logger
	log.Info("Sync loop started",
		"interval", e.cfg.Interval,
		"startup_delay", e.cfg.StartupDelay,
		"error_limit", e.cfg.ErrorLimit,
	)

	if e.cfg.StartupDelay > 0 {
		timer := time.NewTimer(e.cfg.StartupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := e.step(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Info("Sync loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// step одна итерация: локальные значения панели, обмен, разбор ответов
func (e *Engine) step(ctx context.Context) error {
	e.applyOverrides(ctx)

	sample, evicted := e.deps.Samples.PopNewest()
	e.deps.Metrics.AddDropped(evicted)
	e.deps.Metrics.SetQueueLength(e.deps.Samples.Len())

	if sample != nil {
		entry := e.deps.Synchronizer.Transmit(ctx, sample)
		if ctx.Err() != nil {
			// обмен прерван остановкой, ответ не разбираем
			return nil
		}

		e.deps.Responses.Push(entry)
		e.deps.Publisher.Publish(display.Event{
			Kind:   display.EventSampleSent,
			At:     time.Now(),
			Sample: sample,
			Status: entry.StatusCode,
		})
	}

	for _, outcome := range e.deps.Reconciler.Drain(ctx) {
		if !outcome.Failed() {
			e.failures = 0
			continue
		}

		e.failures++
		if e.cfg.ErrorLimit > 0 && e.failures >= e.cfg.ErrorLimit {
			return fmt.Errorf("%w: %d consecutive failed exchanges, last %s",
				ErrErrorLimitReached, e.failures, outcome)
		}
	}

	e.deps.Logger.Debug("Iteration done",
		"sample_queue", e.deps.Samples.Len(),
		"response_queue", e.deps.Responses.Len(),
		"evicted", evicted,
		"failures", e.failures,
	)

	return nil
}

// applyOverrides значения, заданные на панели, имеют приоритет над удаленными:
// применяются в начале каждой итерации
func (e *Engine) applyOverrides(ctx context.Context) {
	targets, ok := e.deps.Overrides.OverrideTargets()
	if !ok {
		return
	}

	if _, err := e.deps.Params.SetParams(ctx, targets); err != nil {
		e.deps.Metrics.IncApplyFailures()
		e.deps.Logger.Error("Failed to apply override targets", "error", err)
		return
	}

	e.deps.Logger.Info("Override targets applied", "count", len(targets))
	e.deps.Publisher.Publish(display.Event{
		Kind:    display.EventTargetsApplied,
		At:      time.Now(),
		Targets: targets,
		Source:  "override",
	})
}
