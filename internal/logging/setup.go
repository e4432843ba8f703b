package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/agrodesk/farmers-api/internal/config"
)

// Setup configures structured logger / Configure le logger structuré
//
// Records go to stdout as text or JSON, and to Loki as well when enabled.
// The returned func flushes buffered Loki entries and must be called on exit.
func Setup(conf config.LoggingConfig, production bool) func() {
	level := ParseLevel(conf.Level)

	var consoleHandler slog.Handler
	if strings.ToLower(conf.Format) == "json" {
		consoleHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     level,
			AddSource: production,
		})
	} else {
		consoleHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	if !conf.LokiEnabled {
		slog.SetDefault(slog.New(consoleHandler))
		slog.Debug("📊 Logging configured", "level", level.String(), "format", conf.Format, "loki_enabled", false)
		return func() {}
	}

	lokiHandler := NewLokiHandler(conf.LokiURL, conf.LokiLabels, conf.LokiBatchSize, true, level)
	slog.SetDefault(slog.New(NewTee(consoleHandler, lokiHandler)))

	slog.Info("📊 Logging configured",
		"level", level.String(),
		"format", conf.Format,
		"loki_enabled", true,
		"loki_url", conf.LokiURL,
	)
	return func() { lokiHandler.Close() }
}

// ParseLevel maps a config level name to a slog level; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
