package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthAndReadiness(t *testing.T) {
	h, container := setupTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := decode[HealthResponse](t, rec); got.Status != "ok" || got.Uptime == "" {
		t.Errorf("Unexpected health response: %+v", got)
	}

	rec = doJSON(t, h, http.MethodGet, "/readiness", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	ready := decode[HealthResponse](t, rec)
	if ready.Checks["yield"] != "ok" || ready.Checks["farmers"] != "ok" {
		t.Errorf("Unexpected readiness checks: %+v", ready.Checks)
	}

	container.YieldDB.Close()
	rec = doJSON(t, h, http.MethodGet, "/readiness", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503 with a closed store, got %d", rec.Code)
	}
	if got := decode[HealthResponse](t, rec); got.Checks["yield"] != "error" || got.Checks["farmers"] != "ok" {
		t.Errorf("Unexpected readiness checks: %+v", got.Checks)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h, _ := setupTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected incoming request ID to be kept, got %q", got)
	}
}

func TestCorsAnyOrigin(t *testing.T) {
	h, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/farmers", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code >= 300 {
		t.Fatalf("Preflight failed with status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestStaticFrontEnd(t *testing.T) {
	h, _ := setupTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>farmers</h1>") {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/static/app.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Errorf("GET /static/app.js = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestServer(t)

	doJSON(t, h, http.MethodGet, "/api/farmers", "")
	doJSON(t, h, http.MethodPut, "/api/farmers/42", `{"name":"x"}`)

	rec := doJSON(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `path="GET /api/farmers"`) {
		t.Error("Expected request metric labelled with the route pattern")
	}
	if !strings.Contains(body, `path="PUT /api/farmers/{id}"`) {
		t.Error("Expected update route pattern without the concrete id")
	}
	if !strings.Contains(body, `farmers_writes_total{operation="update",outcome="not_found"} 1`) {
		t.Error("Expected the not found update to be counted")
	}
}
