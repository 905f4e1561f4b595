package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indicates a roster row whose date or time could not be parsed
	ErrMalformedRecord = errors.New("malformed record")

	// ErrConnection indicates a connection failure
	ErrConnection = errors.New("connection failed")

	// ErrUpstream indicates the roster source answered with an unusable response
	ErrUpstream = errors.New("upstream error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("timeout")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// RecordError describes one roster row that was skipped.
type RecordError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

// Unwrap makes errors.Is match both ErrMalformedRecord and the parse cause.
func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}
