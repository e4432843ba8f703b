package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors
type Metrics struct {
	// Farmer registry metrics
	FarmerWrites  *prometheus.CounterVec // Farmer write operations by operation and outcome
	StorageErrors *prometheus.CounterVec // Storage failures by store and operation
	YieldImports  prometheus.Counter     // Yield history rows imported

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // Total HTTP requests by method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // HTTP request latency in seconds
	ActiveConnections   prometheus.Gauge         // Current number of active HTTP connections

	// Security metrics
	RateLimitHits *prometheus.CounterVec // Rate limit violations by endpoint

	// System metrics
	DatabaseConnections *prometheus.GaugeVec // Open connections per store
	BackgroundTasks     *prometheus.GaugeVec // Status of background tasks (running/stopped)
}

// NewMetrics initializes a Metrics instance. A nil registerer means the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		FarmerWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmers_writes_total",
				Help: "Total number of farmer write operations by operation (create, update, deactivate) and outcome",
			},
			[]string{"operation", "outcome"},
		),

		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_errors_total",
				Help: "Total number of storage failures by store and operation",
			},
			[]string{"store", "operation"},
		),

		YieldImports: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "yield_history_imported_rows_total",
				Help: "Total number of yield history rows imported",
			},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				// Buckets optimized for API response times: 10ms to 10s
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Current number of active HTTP connections",
			},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_rate_limit_hits_total",
				Help: "Total number of rate limit violations by endpoint",
			},
			[]string{"endpoint"},
		),

		// System metrics
		DatabaseConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "database_connections_active",
				Help: "Current number of open database connections per store",
			},
			[]string{"store"},
		),

		BackgroundTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "background_tasks_status",
				Help: "Status of background tasks (1=running, 0=stopped)",
			},
			[]string{"task_name"},
		),
	}

	return m
}

// RecordFarmerWrite records the outcome of a farmer write.
// Operation is one of "create", "update" or "deactivate"; outcome is
// "success", "invalid", "not_found" or "error".
func (m *Metrics) RecordFarmerWrite(operation, outcome string) {
	m.FarmerWrites.WithLabelValues(operation, outcome).Inc()
}

// RecordStorageError counts a failed statement against a store.
func (m *Metrics) RecordStorageError(store, operation string) {
	m.StorageErrors.WithLabelValues(store, operation).Inc()
}

// RecordYieldImport adds imported rows to the import counter.
func (m *Metrics) RecordYieldImport(rows int) {
	m.YieldImports.Add(float64(rows))
}

// RecordHTTPRequest records an HTTP request with method, path, and status code.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(statusCode)).Inc()
}

// RecordHTTPDuration records the duration of an HTTP request.
func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementActiveConnections increments the active connections gauge.
func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

// DecrementActiveConnections decrements the active connections gauge.
func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

// RecordRateLimitHit records a rate limit violation for a specific endpoint.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// UpdateDatabaseConnections updates the open connections gauge of a store.
func (m *Metrics) UpdateDatabaseConnections(store string, count int) {
	m.DatabaseConnections.WithLabelValues(store).Set(float64(count))
}

// SetBackgroundTaskStatus sets the status of a background task.
// Status: 1 for running, 0 for stopped.
func (m *Metrics) SetBackgroundTaskStatus(taskName string, running bool) {
	status := 0.0
	if running {
		status = 1.0
	}
	m.BackgroundTasks.WithLabelValues(taskName).Set(status)
}

// statusCodeToString keeps exact labels for the codes this API returns and groups the rest.
func statusCodeToString(code int) string {
	switch code {
	case 200:
		return "200"
	case 201:
		return "201"
	case 400:
		return "400"
	case 404:
		return "404"
	case 429:
		return "429"
	case 500:
		return "500"
	case 503:
		return "503"
	default:
		if code >= 200 && code < 300 {
			return "2xx"
		} else if code >= 300 && code < 400 {
			return "3xx"
		} else if code >= 400 && code < 500 {
			return "4xx"
		} else if code >= 500 && code < 600 {
			return "5xx"
		}
		return "unknown"
	}
}
