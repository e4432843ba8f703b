package domain

import (
	"errors"
	"net/http"
)

// Kind classifies a failure by who is at fault.
type Kind string

const (
	KindValidation Kind = "validation" // Bad or missing request input
	KindNotFound   Kind = "not_found"  // Lookup key matched no row
	KindStorage    Kind = "storage"    // Any database failure
)

// Error is the error type returned by services. Message is what clients see.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to the HTTP status sent back to clients.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewStorageError wraps a database failure, keeping its message verbatim.
func NewStorageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or KindStorage for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// StatusCode returns the HTTP status for any error.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return http.StatusInternalServerError
}
