package logging_test

import (
	"log/slog"
	"testing"

	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logging.ParseLevel(tt.in), tt.in)
	}
}

func TestSetup_ConsoleOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	flush := logging.Setup(config.LoggingConfig{Level: "warn", Format: "json"}, false)
	defer flush()

	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelError))
}

func TestSetup_WithLoki(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := &lokiRecorder{}
	srv := rec.server(t)

	flush := logging.Setup(config.LoggingConfig{
		Level:         "info",
		LokiEnabled:   true,
		LokiURL:       srv.URL,
		LokiLabels:    map[string]string{"app": "farmers-api"},
		LokiBatchSize: 100,
	}, false)

	slog.Info("farmer created", "id", 7)
	flush()

	var msgs []any
	for _, line := range rec.lines(t) {
		msgs = append(msgs, line["msg"])
	}
	assert.Contains(t, msgs, "farmer created")
}
