package appointments

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an appointment id does not exist.
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidRequest = errors.New("invalid appointment request")
)

// ValidationError lists the required fields that were blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
