package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrodesk/farmers-api/internal/config"
	"github.com/agrodesk/farmers-api/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestID generates unique request ID / Génère un ID unique pour la requête
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// Logging logs HTTP requests / Enregistre les requêtes HTTP
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request",
			RequestIDKey, GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// MetricsMiddleware tracks HTTP request metrics / Suit les métriques des requêtes HTTP
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.metrics.IncrementActiveConnections()
		defer m.metrics.DecrementActiveConnections()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		// The mux records the matched pattern on the request; ids stay out of labels.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.metrics.RecordHTTPRequest(r.Method, route, rw.statusCode)
		m.metrics.RecordHTTPDuration(r.Method, route, time.Since(start))
	})
}

// Timeout puts a deadline on the request context. Store calls made with that
// context are abandoned when it expires.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if duration <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if ctx.Err() == context.DeadlineExceeded {
				slog.Warn("request timeout", "path", r.URL.Path, "timeout", duration)
			}
		})
	}
}

// Middleware holds middleware configuration and dependencies / Contient la configuration middleware
type Middleware struct {
	conf          *config.Config
	globalLimiter *clientBuckets
	writeLimiter  *clientBuckets
	metrics       *metrics.Metrics
	cors          *cors.Cors
}

// responseWriter wraps ResponseWriter to capture status / Encapsule ResponseWriter pour capturer le statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures status code / Capture le code de statut
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// NewMiddleware creates middleware with rate limiters / Crée le middleware avec limiteurs
func NewMiddleware(conf *config.Config, metrics *metrics.Metrics) *Middleware {
	mw := &Middleware{
		conf:    conf,
		metrics: metrics,
		cors: cors.New(cors.Options{
			AllowedOrigins: conf.Cors.AllowedOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
		}),
	}

	if conf.RateLimiter.Enabled {
		mw.globalLimiter = newClientBuckets(conf.RateLimiter.RPS, conf.RateLimiter.Burst)

		// Production halves the write budget of each route
		writeRPS, writeBurst := conf.RateLimiter.RPS, conf.RateLimiter.Burst
		if conf.IsProduction() {
			writeRPS /= 2
			if writeBurst > 2 {
				writeBurst /= 2
			}
		}
		mw.writeLimiter = newClientBuckets(writeRPS, writeBurst)
	}

	return mw
}

// Stop ends the background sweeps of the rate limiters
func (m *Middleware) Stop() {
	if m.globalLimiter != nil {
		m.globalLimiter.stop()
	}
	if m.writeLimiter != nil {
		m.writeLimiter.stop()
	}
}

// Cors handles CORS headers and preflight requests / Gère les en-têtes CORS
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return m.cors.Handler(next)
}

// SecurityHeaders adds security headers / Ajoute les en-têtes de sécurité
func (m *Middleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cspValue := "default-src 'self'; frame-ancestors 'none'; object-src 'none'"
		if m.conf.IsProduction() {
			cspValue += "; script-src 'self' cdn.jsdelivr.net; style-src 'self' cdn.jsdelivr.net"
		} else {
			cspValue += "; script-src 'self' 'unsafe-inline' cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' cdn.jsdelivr.net"
		}
		cspValue += "; img-src 'self' data:; font-src 'self'; connect-src 'self'"
		w.Header().Set("Content-Security-Policy", cspValue)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if m.conf.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
