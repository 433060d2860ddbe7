package journey

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownQuestion is returned when a caller names a question id the
	// registry does not hold.
	ErrUnknownQuestion = errors.New("journey: unknown question id")

	// ErrInvalidRegistry is returned when a question table breaks the
	// single-linear-chain invariant.
	ErrInvalidRegistry = errors.New("journey: invalid question registry")
)

// ConfigError marks a broken question chain. It is fatal and never retried.
type ConfigError struct {
	QuestionID string
	Reason     string
	Err        error
}

func (e *ConfigError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("journey: configuration error at %q: %s", e.QuestionID, e.Reason)
	}
	return "journey: configuration error: " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
