package dispatch

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/textwave/ai-api-service/services/providers"
)

var (
	// ErrCancelled is returned when the caller abandoned the request while
	// a dispatch was in flight. It is never converted into a provider
	// failure and never triggers fallback.
	ErrCancelled = errors.New("dispatch cancelled by caller")

	// ErrTimedOut is returned when the caller's own deadline expired
	// during a dispatch.
	ErrTimedOut = errors.New("dispatch deadline exceeded")
)

// ValidationError reports a semantically invalid task request. No provider
// is contacted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AllProvidersFailed aggregates every recorded provider failure after the
// chain was exhausted without a success. Attempts are in chain order, one
// per contacted provider, so the caller can tell "all providers down" apart
// from "request was invalid".
type AllProvidersFailed struct {
	Attempts []*providers.ProviderError
}

// Error implements the error interface. The message enumerates every
// attempted provider with its failure class; raw provider bodies or stack
// traces are never included.
func (e *AllProvidersFailed) Error() string {
	var combined error
	for _, attempt := range e.Attempts {
		combined = multierr.Append(combined, attempt)
	}
	if combined == nil {
		return "all providers failed"
	}
	return "all providers failed: " + combined.Error()
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsAllProvidersFailed reports whether err is a chain-exhaustion failure.
func IsAllProvidersFailed(err error) bool {
	var aerr *AllProvidersFailed
	return errors.As(err, &aerr)
}
