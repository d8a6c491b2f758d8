package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/logging"
	"github.com/iudanet/fieldlink/internal/models"
	nodeapi "github.com/iudanet/fieldlink/internal/node/api"
	"github.com/iudanet/fieldlink/internal/node/controller"
	"github.com/iudanet/fieldlink/internal/node/display"
	"github.com/iudanet/fieldlink/internal/node/engine"
	"github.com/iudanet/fieldlink/internal/node/metrics"
	"github.com/iudanet/fieldlink/internal/node/queue"
	"github.com/iudanet/fieldlink/internal/node/reconcile"
	"github.com/iudanet/fieldlink/internal/node/storage/boltdb"
	nodesync "github.com/iudanet/fieldlink/internal/node/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	displayEventBuffer     = 64
	metricsShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("fieldlink-node", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "Path to YAML config file")
	showVersion := flags.Bool("version", false, "Show version information")
	uid := flags.String("uid", "", "Device UID (overrides config)")
	remote := flags.String("remote", "", "Remote address (overrides config)")
	controllerPath := flags.String("controller", "", `Controller device path, "-" for stdin (overrides config)`)
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		printVersion()
		return nil
	}

	cfg, err := config.LoadNode(*configPath, func(c *config.NodeConfig) {
		if *uid != "" {
			c.Device.UID = *uid
		}
		if *remote != "" {
			c.Remote.Addr = *remote
		}
		if *controllerPath != "" {
			c.Controller.Path = *controllerPath
		}
		if *logLevel != "" {
			c.Logging.Level = *logLevel
		}
	})
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, "fieldlink-node", Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runNode(ctx, cfg, logger)
}

func runNode(ctx context.Context, cfg *config.NodeConfig, logger *slog.Logger) error {
	store, err := boltdb.New(ctx, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open local storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close local storage", "error", err)
		}
	}()

	link, err := openController(cfg.Controller)
	if err != nil {
		return err
	}

	params := controller.NewParams(link, store)
	if err := params.Restore(ctx); err != nil {
		logger.Warn("Failed to restore controller params", "error", err)
	}

	var m *metrics.Metrics
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	samples := queue.NewSampleQueue(cfg.Sync.QueueLimit)
	responses := queue.NewResponseQueue()

	identity := models.DeviceIdentity{UID: cfg.Device.UID, ControllerKind: cfg.Device.ControllerKind}
	client := nodeapi.NewClient(cfg.Remote.Addr, cfg.Remote.Timeout)
	synchronizer := nodesync.NewSynchronizer(client, identity, m, logger)

	g, gctx := errgroup.WithContext(ctx)

	var (
		publisher display.Publisher      = display.Nop{}
		overrides display.OverrideSource = display.NullOverrides{}
	)
	if cfg.Display.Enabled {
		bus, src, err := startDisplay(gctx, g, cfg, logger)
		if err != nil {
			// панель необязательна: синхронизация работает и без нее
			logger.Warn("Display bridge disabled", "error", err)
		} else {
			defer bus.Close()
			publisher = bus
			overrides = src
		}
	}

	reconciler := reconcile.New(responses, samples, params, logger,
		reconcile.WithLedger(store),
		reconcile.WithCounters(store),
		reconcile.WithPublisher(publisher),
		reconcile.WithMetrics(m),
	)

	eng := engine.New(engine.Config{
		Interval:     cfg.Sync.Interval(),
		StartupDelay: cfg.Sync.StartupDelay,
		ErrorLimit:   cfg.Sync.ErrorLimit,
	}, engine.Deps{
		Reader:       link,
		Samples:      samples,
		Responses:    responses,
		Synchronizer: synchronizer,
		Reconciler:   reconciler,
		Params:       params,
		Overrides:    overrides,
		Publisher:    publisher,
		Metrics:      m,
		Logger:       logger,
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Metrics.Addr, m.Handler(), logger)
		})
	}

	logger.Info("Node started",
		"uid", identity.UID,
		"controller_kind", identity.ControllerKind,
		"remote", cfg.Remote.Addr,
		"queue_limit", cfg.Sync.QueueLimit,
		"interval", cfg.Sync.Interval(),
	)

	g.Go(func() error {
		return eng.Run(gctx)
	})

	return g.Wait()
}

// openController открывает канал к контроллеру.
// "-" означает кадры из stdin и команды в stdout.
func openController(cfg config.ControllerConfig) (*controller.FrameLink, error) {
	if cfg.Path == "-" {
		rw := struct {
			io.Reader
			io.Writer
			io.Closer
		}{os.Stdin, os.Stdout, os.Stdin}
		return controller.NewFrameLink(rw, cfg.MaxFrameSize), nil
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open controller %s: %w", cfg.Path, err)
	}
	return controller.NewFrameLink(f, cfg.MaxFrameSize), nil
}

// startDisplay подключает MQTT мост панели и запускает публикацию событий
func startDisplay(ctx context.Context, g *errgroup.Group, cfg *config.NodeConfig, logger *slog.Logger) (*display.Bus, *display.Overrides, error) {
	topics := display.Topics{Prefix: cfg.Display.TopicPrefix, UID: cfg.Device.UID}

	broker, err := display.ConnectBroker(cfg.Display, topics)
	if err != nil {
		return nil, nil, err
	}

	overrides := display.NewOverrides()
	bridge := display.NewBridge(broker, topics, overrides, logger)
	if err := bridge.Start(); err != nil {
		_ = bridge.Close()
		return nil, nil, err
	}

	bus := display.NewBus()
	events, unsubscribe := bus.Subscribe(displayEventBuffer)

	g.Go(func() error {
		defer func() {
			unsubscribe()
			if err := bridge.Close(); err != nil {
				logger.Warn("Failed to close display bridge", "error", err)
			}
		}()
		return bridge.Run(ctx, events)
	})

	logger.Info("Display bridge connected", "broker", cfg.Display.Broker, "prefix", cfg.Display.TopicPrefix)
	return bus, overrides, nil
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printVersion() {
	fmt.Printf("Fieldlink Node\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
