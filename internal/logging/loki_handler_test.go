package logging_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/agrodesk/farmers-api/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lokiPushRequest struct {
	Streams []struct {
		Stream map[string]string `json:"stream"`
		Values [][]string        `json:"values"`
	} `json:"streams"`
}

type lokiRecorder struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (rec *lokiRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (rec *lokiRecorder) lines(t *testing.T) []map[string]any {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()

	var out []map[string]any
	for _, body := range rec.bodies {
		var pushReq lokiPushRequest
		require.NoError(t, json.Unmarshal(body, &pushReq))
		for _, stream := range pushReq.Streams {
			for _, value := range stream.Values {
				require.Len(t, value, 2)
				var line map[string]any
				require.NoError(t, json.Unmarshal([]byte(value[1]), &line))
				out = append(out, line)
			}
		}
	}
	return out
}

func TestLokiHandler(t *testing.T) {
	rec := &lokiRecorder{}
	server := rec.server(t)

	labels := map[string]string{"app": "farmers-api"}
	handler := logging.NewLokiHandler(server.URL, labels, 1, true, slog.LevelInfo)
	defer handler.Close()

	logger := slog.New(handler)
	logger.Info("farmer created", "id", 7)

	require.NoError(t, handler.Close())

	rec.mu.Lock()
	require.Len(t, rec.bodies, 1, "Loki server did not receive any request")
	var pushReq lokiPushRequest
	require.NoError(t, json.Unmarshal(rec.bodies[0], &pushReq))
	rec.mu.Unlock()

	require.Len(t, pushReq.Streams, 1)
	assert.Equal(t, labels, pushReq.Streams[0].Stream)
	require.Len(t, pushReq.Streams[0].Values, 1)
	assert.NotEmpty(t, pushReq.Streams[0].Values[0][0])

	lines := rec.lines(t)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "farmer created", lines[0]["msg"])
	assert.Equal(t, float64(7), lines[0]["id"])
}

func TestLokiHandler_Batching(t *testing.T) {
	rec := &lokiRecorder{}
	server := rec.server(t)

	handler := logging.NewLokiHandler(server.URL, nil, 2, true, slog.LevelInfo)
	defer handler.Close()

	logger := slog.New(handler)

	logger.Info("message 1")
	time.Sleep(100 * time.Millisecond)

	rec.mu.Lock()
	assert.Empty(t, rec.bodies, "Loki server should not have received any request yet")
	rec.mu.Unlock()

	// Second record fills the batch and flushes synchronously.
	logger.Info("message 2")

	rec.mu.Lock()
	assert.Len(t, rec.bodies, 1, "Loki server should have received one request")
	rec.mu.Unlock()

	lines := rec.lines(t)
	require.Len(t, lines, 2)
	assert.Equal(t, "message 1", lines[0]["msg"])
	assert.Equal(t, "message 2", lines[1]["msg"])
}

func TestLokiHandler_WithAttrsAndGroup(t *testing.T) {
	rec := &lokiRecorder{}
	server := rec.server(t)

	handler := logging.NewLokiHandler(server.URL, nil, 0, true, slog.LevelInfo)
	logger := slog.New(handler).With("request_id", "abc").WithGroup("farmer")

	logger.Info("updated", "id", 3)

	lines := rec.lines(t)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["request_id"])
	assert.Equal(t, float64(3), lines[0]["farmer.id"])
}

func TestLokiHandler_LevelAndDisabled(t *testing.T) {
	rec := &lokiRecorder{}
	server := rec.server(t)

	handler := logging.NewLokiHandler(server.URL, nil, 0, true, slog.LevelWarn)
	slog.New(handler).Info("dropped")
	assert.Empty(t, rec.lines(t))

	disabled := logging.NewLokiHandler(server.URL, nil, 0, false, slog.LevelDebug)
	slog.New(disabled).Error("also dropped")
	assert.Empty(t, rec.lines(t))
}

func TestLokiHandler_UnreachableServer(t *testing.T) {
	handler := logging.NewLokiHandler("http://127.0.0.1:1", nil, 0, true, slog.LevelInfo)
	assert.NotPanics(t, func() {
		slog.New(handler).Info("nobody listening")
	})
	assert.NoError(t, handler.Close())
}

func TestTee(t *testing.T) {
	var primary, secondary bytes.Buffer
	tee := logging.NewTee(
		slog.NewTextHandler(&primary, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&secondary, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(tee).With("store", "farmers")

	logger.Info("info only on primary")
	logger.Warn("warn on both")

	assert.Contains(t, primary.String(), "info only on primary")
	assert.Contains(t, primary.String(), "warn on both")
	assert.NotContains(t, secondary.String(), "info only on primary")
	assert.Contains(t, secondary.String(), `"store":"farmers"`)
}
