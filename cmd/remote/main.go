package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/iudanet/fieldlink/internal/config"
	"github.com/iudanet/fieldlink/internal/logging"
	"github.com/iudanet/fieldlink/internal/remote/handlers"
	"github.com/iudanet/fieldlink/internal/remote/influx"
	"github.com/iudanet/fieldlink/internal/remote/metrics"
	"github.com/iudanet/fieldlink/internal/remote/server"
	"github.com/iudanet/fieldlink/internal/remote/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("fieldlink-remote", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "Path to YAML config file")
	showVersion := flags.Bool("version", false, "Show version information")
	addr := flags.String("addr", "", "Listen address (overrides config)")
	dbPath := flags.String("db", "", "Path to SQLite database (overrides config)")
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

	cfg, err := config.LoadRemote(*configPath, func(c *config.RemoteConfig) {
		if *addr != "" {
			c.Server.Addr = *addr
		}
		if *dbPath != "" {
			c.Database.Path = *dbPath
		}
		if *logLevel != "" {
			c.Logging.Level = *logLevel
		}
	})
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, "fieldlink-remote", Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRemote(ctx, cfg, logger)
}

func runRemote(ctx context.Context, cfg *config.RemoteConfig, logger *slog.Logger) error {
	store, err := sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, server.Paths...)

	// интерфейс остается nil, если зеркалирование выключено или недоступно
	var mirror handlers.SampleMirror
	if cfg.InfluxDB.Enabled {
		im, err := influx.Connect(ctx, cfg.InfluxDB, logger)
		if err != nil {
			logger.Warn("InfluxDB mirror disabled", "error", err)
		} else {
			defer func() {
				if err := im.Close(); err != nil {
					logger.Warn("Failed to close InfluxDB mirror", "error", err)
				}
			}()
			mirror = im
		}
	}

	srv := server.New(cfg.Server, server.Deps{
		Store:   store,
		Mirror:  mirror,
		Metrics: m,
		Logger:  logger,
		Version: Version,
	})

	logger.Info("Remote started", "addr", cfg.Server.Addr, "database", cfg.Database.Path)
	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("Fieldlink Remote\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
