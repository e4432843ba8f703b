package web

import (
	"net/http"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
func NewMux(h *Handler, conf *config.Config, container *app.Container) (http.Handler, *Middleware) {
	mux := http.NewServeMux()
	mw := NewMiddleware(conf, container.Metrics)

	// Health check endpoints (no rate limiting for load balancers)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)

	if conf.Metrics.Enabled {
		mux.Handle("GET "+conf.Metrics.Path, promhttp.HandlerFor(container.Gatherer, promhttp.HandlerOpts{}))
	}

	// Yield history (read only)
	mux.HandleFunc("GET /api/data", h.YieldHistory)

	// Farmer registry
	mux.HandleFunc("GET /api/crop_distribution", h.CropDistribution)
	mux.HandleFunc("GET /api/farmers", h.ListFarmers)
	mux.Handle("POST /api/farmers", chain(h.CreateFarmer, mw.RateLimitWrites))
	mux.Handle("PUT /api/farmers/{id}", chain(h.UpdateFarmer, mw.RateLimitWrites))
	mux.Handle("DELETE /api/farmers/{id}", chain(h.DeactivateFarmer, mw.RateLimitWrites))

	// Front-end
	mux.HandleFunc("GET /{$}", h.Home)
	mux.Handle("GET /static/", h.Static())

	// Global middlewares - applied in reverse order / Middlewares globaux appliqués en ordre inverse
	var handler http.Handler = mux
	handler = mw.MetricsMiddleware(handler) // Metrics first to capture everything
	handler = mw.RateLimit(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Cors(handler)
	handler = Timeout(conf.Server.RequestTimeout)(handler)
	handler = Logging(handler)   // Logging includes request ID
	handler = RequestID(handler) // RequestID first - generates ID for all middleware

	return handler, mw
}

// chain applies middleware to HTTP handler / Applique les middlewares au gestionnaire HTTP
func chain(f http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = f

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
