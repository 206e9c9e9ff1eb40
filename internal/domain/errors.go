package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks malformed dates, months, or mansion names. It is
// raised at the boundary, before any calculation runs.
var ErrInvalidInput = errors.New("invalid input")

// ProviderError wraps a failure from the sunrise or ephemeris provider.
// Provider errors are not retried; the resolution for that date fails.
type ProviderError struct {
	Provider string // "sunrise" or "ephemeris"
	Input    string // date or instant that was requested
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider failed for %s: %v", e.Provider, e.Input, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err wraps a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
