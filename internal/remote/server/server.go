// Package server собирает HTTP API удаленной стороны: маршруты, middleware
// и жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/remote/handlers"
	"github.com/iudanet/fieldlink/internal/remote/metrics"
	"github.com/iudanet/fieldlink/internal/remote/middleware"
)

const shutdownTimeout = 10 * time.Second

// Маршруты API
const (
	PathRoot        = "/"
	PathSamples     = "/api/v1/samples"
	PathTasks       = "/api/v1/tasks"
	PathUpdateQueue = "/api/update_queue"
	PathHealth      = "/api/v1/health"
	PathMetrics     = "/metrics"
)

// Paths все известные маршруты (метки метрик)
var Paths = []string{PathRoot, PathSamples, PathTasks, PathUpdateQueue, PathHealth, PathMetrics}

// Store хранилище, необходимое всем обработчикам
type Store interface {
	handlers.SyncStorage
	handlers.TaskStorage
	handlers.SampleStorage
	handlers.Pinger
}

// Deps зависимости сервера. Mirror и Metrics могут быть nil.
type Deps struct {
	Store   Store
	Mirror  handlers.SampleMirror
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Version string
}

// Server HTTP сервер удаленной стороны
type Server struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	logger  *slog.Logger
	cfg     config.ServerConfig
}

// New регистрирует маршруты и оборачивает их в цепочку middleware:
// recovery, логирование с метриками, затем ограничение частоты (если включено)
func New(cfg config.ServerConfig, deps Deps) *Server {
	syncHandler := handlers.NewSyncHandler(deps.Logger, deps.Store, deps.Mirror, deps.Metrics)
	taskHandler := handlers.NewTaskHandler(deps.Logger, deps.Store, deps.Metrics)
	samplesHandler := handlers.NewSamplesHandler(deps.Logger, deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.Store, deps.Version)

	mux := http.NewServeMux()
	// узел отправляет семплы на корень, /api/v1/samples - тот же обмен
	mux.HandleFunc("POST "+PathRoot+"{$}", syncHandler.HandleSample)
	mux.HandleFunc("POST "+PathSamples, syncHandler.HandleSample)
	mux.HandleFunc("GET "+PathSamples, samplesHandler.HandleList)
	mux.HandleFunc(PathTasks, taskHandler.HandleTasks)
	mux.HandleFunc(PathUpdateQueue, taskHandler.HandleUpdateQueue)
	mux.HandleFunc("GET "+PathHealth, healthHandler.Health)
	mux.Handle("GET "+PathMetrics, deps.Metrics.Handler())

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger, deps.Metrics, PathHealth, PathMetrics),
	}

	s := &Server{logger: deps.Logger, cfg: cfg}
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Window, deps.Logger)
		chain = append(chain, s.limiter.Middleware)
	}
	s.handler = middleware.Chain(mux, chain...)

	return s
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает cfg.Addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// Close освобождает фоновые ресурсы middleware
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
