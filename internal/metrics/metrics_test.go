package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/agrodesk/farmers-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	assert.NotNil(t, m)
	assert.NotNil(t, m.FarmerWrites)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.DatabaseConnections)
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// Two instances on distinct registries must not collide.
	assert.NotPanics(t, func() {
		metrics.NewMetrics(prometheus.NewRegistry())
		metrics.NewMetrics(prometheus.NewRegistry())
	})
}

func TestRecordFarmerWrite(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordFarmerWrite("create", "success")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FarmerWrites.WithLabelValues("create", "success")))
	m.RecordFarmerWrite("update", "not_found")
	m.RecordFarmerWrite("update", "not_found")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FarmerWrites.WithLabelValues("update", "not_found")))
}

func TestRecordStorageError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordStorageError("farmers", "list")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageErrors.WithLabelValues("farmers", "list")))
}

func TestRecordYieldImport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordYieldImport(12)
	m.RecordYieldImport(3)
	assert.Equal(t, 15.0, testutil.ToFloat64(m.YieldImports))
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordHTTPRequest("GET", "/api/farmers", 200)
	m.RecordHTTPRequest("PUT", "/api/farmers/{id}", 418)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/farmers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("PUT", "/api/farmers/{id}", "4xx")))
}

func TestRecordHTTPDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordHTTPDuration("GET", "/test", 1*time.Second)

	expected := `
# HELP http_request_duration_seconds HTTP request latency in seconds
# TYPE http_request_duration_seconds histogram
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.01"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.05"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.1"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.25"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="0.5"} 0
http_request_duration_seconds_bucket{method="GET",path="/test",le="1"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="2.5"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="5"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="10"} 1
http_request_duration_seconds_bucket{method="GET",path="/test",le="+Inf"} 1
http_request_duration_seconds_sum{method="GET",path="/test"} 1
http_request_duration_seconds_count{method="GET",path="/test"} 1
`
	err := testutil.CollectAndCompare(m.HTTPRequestDuration, strings.NewReader(expected), "http_request_duration_seconds")
	assert.NoError(t, err)
}

func TestIncrementDecrementActiveConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.IncrementActiveConnections()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveConnections))
	m.DecrementActiveConnections()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveConnections))
}

func TestRecordRateLimitHit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RecordRateLimitHit("/api/farmers")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits.WithLabelValues("/api/farmers")))
}

func TestUpdateDatabaseConnections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.UpdateDatabaseConnections("yield", 1)
	m.UpdateDatabaseConnections("farmers", 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseConnections.WithLabelValues("yield")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatabaseConnections.WithLabelValues("farmers")))
}

func TestSetBackgroundTaskStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.SetBackgroundTaskStatus("test_task", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackgroundTasks.WithLabelValues("test_task")))
	m.SetBackgroundTaskStatus("test_task", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BackgroundTasks.WithLabelValues("test_task")))
}
