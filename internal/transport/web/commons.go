package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/agrodesk/farmers-api/internal/app"
	"github.com/agrodesk/farmers-api/internal/domain"
)

const maxBodyBytes = 1 << 20

// MsgInvalidJSON is returned when a request body is not a JSON object.
const MsgInvalidJSON = "Invalid JSON body"

// Handler is a container for application dependencies that are required by HTTP handlers.
// By embedding the application's dependency injection container, it provides handlers
// with access to services, stores and configuration.
type Handler struct {
	container *app.Container
}

// NewHandler creates and returns a new Handler instance.
func NewHandler(container *app.Container) *Handler {
	return &Handler{container: container}
}

// ErrorResponse is a helper function for sending standardized JSON error responses.
// It sets the "Content-Type" header to "application/json", writes the specified HTTP status code,
// and sends a JSON body with an "error" key containing the provided message.
func ErrorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": message,
	})
}

// writeError maps a service error onto its status code. The message is sent as is.
func writeError(w http.ResponseWriter, err error) {
	ErrorResponse(w, err.Error(), domain.StatusCode(err))
}

// jsonResponse sends data as a JSON body with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

// limitRequestBody wraps a request body with MaxBytesReader to limit its size.
func limitRequestBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
// It writes a 400 and returns false when the body cannot be decoded
// or carries anything after the first JSON value.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	limitRequestBody(w, r, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			return true
		}
		if err == nil {
			err = errTrailingData
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		ErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}

	slog.Debug("invalid request body", "path", r.URL.Path, "err", err)
	ErrorResponse(w, MsgInvalidJSON, http.StatusBadRequest)
	return false
}
