package db

import "errors"

// Common database errors
var (
	ErrNoRecord = errors.New("no matching record found")
	ErrDup      = errors.New("record already exists")
	ErrBusy     = errors.New("database is busy")
	ErrLocked   = errors.New("database is locked")
)

// classifiedError tags a driver error with one of the sentinels above while
// keeping the driver's message as its own.
type classifiedError struct {
	sentinel error
	err      error
}

// Classify returns err tagged with sentinel: errors.Is(result, sentinel) holds
// and result.Error() is still err.Error().
func Classify(sentinel, err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{sentinel: sentinel, err: err}
}

func (e *classifiedError) Error() string {
	return e.err.Error()
}

func (e *classifiedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *classifiedError) Unwrap() error {
	return e.err
}
