// Package logging строит *slog.Logger из конфигурации.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/fieldlink/internal/config"
)

// New создает logger с форматом, уровнем и полями по умолчанию (service, version)
func New(cfg config.LoggingConfig, service, version string) *slog.Logger {
	return NewWithWriter(cfg, service, version, output(cfg.Output))
}

// NewWithWriter как New, но пишет в заданный writer
func NewWithWriter(cfg config.LoggingConfig, service, version string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("version", version),
	})

	return slog.New(handler)
}

// ParseLevel переводит строковый уровень в slog.Level (info по умолчанию)
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func output(name string) io.Writer {
	if strings.ToLower(name) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
