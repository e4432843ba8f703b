// Package logging holds slog handlers used by the server: a Loki push
// handler and a fan-out handler writing to several sinks at once.
package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const flushInterval = 5 * time.Second

// LokiHandler is a slog.Handler that pushes records to Loki over HTTP.
// Records are batched and flushed when the batch is full, on a timer, or on Close.
// Handlers derived with WithAttrs/WithGroup share the parent's batch.
type LokiHandler struct {
	sink   *lokiSink
	attrs  []slog.Attr
	prefix string
}

type lokiSink struct {
	url        string
	labels     map[string]string
	client     *http.Client
	batch      []lokiEntry
	batchMu    sync.Mutex
	batchSize  int
	flushTimer *time.Timer
	enabled    bool
	level      slog.Level
}

type lokiEntry struct {
	timestamp time.Time
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiHandler creates a handler pushing to the Loki instance at url
// (e.g. "http://localhost:3100"). labels are attached to the stream;
// batchSize 0 sends every record immediately.
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Level) *LokiHandler {
	if labels == nil {
		labels = make(map[string]string)
	}

	s := &lokiSink{
		url:       url + "/loki/api/v1/push",
		labels:    labels,
		client:    &http.Client{Timeout: 5 * time.Second},
		batch:     make([]lokiEntry, 0, batchSize),
		batchSize: batchSize,
		enabled:   enabled,
		level:     level,
	}

	if batchSize > 0 && enabled {
		s.flushTimer = time.AfterFunc(flushInterval, s.periodicFlush)
	}

	return &LokiHandler{sink: s}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.sink.enabled && level >= h.sink.level
}

// Handle encodes the record as a JSON line and queues it.
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.sink.enabled {
		return nil
	}

	logData := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, a := range h.attrs {
		logData[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		logData[h.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	logJSON, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	return h.sink.add(lokiEntry{timestamp: r.Time, line: string(logJSON)})
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, slog.Attr{Key: h.prefix + a.Key, Value: a.Value.Resolve()})
	}
	return &LokiHandler{sink: h.sink, attrs: merged, prefix: h.prefix}
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LokiHandler{sink: h.sink, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// Close stops the flush timer and sends whatever is still queued.
func (h *LokiHandler) Close() error {
	if h.sink.flushTimer != nil {
		h.sink.flushTimer.Stop()
	}
	return h.sink.flush()
}

func (s *lokiSink) add(entry lokiEntry) error {
	s.batchMu.Lock()
	s.batch = append(s.batch, entry)
	full := s.batchSize > 0 && len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if full || s.batchSize == 0 {
		return s.flush()
	}
	return nil
}

func (s *lokiSink) flush() error {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return nil
	}

	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	// Loki expects [timestamp_in_nanoseconds, log_line]
	values := make([][]string, len(entries))
	for i, entry := range entries {
		values[i] = []string{strconv.FormatInt(entry.timestamp.UnixNano(), 10), entry.line}
	}

	return s.send(lokiPushRequest{
		Streams: []lokiStream{{Stream: s.labels, Values: values}},
	})
}

// send never fails the caller when Loki is unreachable; logs are best effort.
func (s *lokiSink) send(req lokiPushRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush()
	if s.flushTimer != nil {
		s.flushTimer.Reset(flushInterval)
	}
}
