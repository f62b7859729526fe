package providers

import "fmt"

// FailureClass categorizes a failed provider call. It is explicit data
// rather than an exception identity so the fallback decision is testable
// independent of the transport.
type FailureClass string

const (
	// FailureTransient covers timeouts, rate limits, and 5xx responses.
	// The next provider in the chain is worth trying.
	FailureTransient FailureClass = "transient"

	// FailurePermanent covers auth failures, bad requests, and unknown
	// models. The failure is provider-specific, not request-specific, so
	// the chain still advances to the next provider.
	FailurePermanent FailureClass = "permanent"

	// FailureUnknown covers everything else.
	FailureUnknown FailureClass = "unknown"
)

// ClassifyStatus maps an HTTP status code to a FailureClass.
func ClassifyStatus(status int) FailureClass {
	switch {
	case status == 400, status == 401, status == 403, status == 404:
		return FailurePermanent
	case status == 408, status == 429, status >= 500:
		return FailureTransient
	default:
		return FailureUnknown
	}
}

// ProviderError represents one failed provider call attempt.
type ProviderError struct {
	// Provider that generated the error.
	Provider string

	// Class drives the fallback decision.
	Class FailureClass

	// StatusCode is the HTTP status, when one was received.
	StatusCode int

	// Message is a sanitized description. Raw provider bodies are never
	// carried here.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d, %s)", e.Provider, e.Message, e.StatusCode, e.Class)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Class)
}

// Unwrap implements error unwrapping.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a provider error with an explicit class.
func NewProviderError(provider string, class FailureClass, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Class:      class,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// NewStatusError creates a provider error classified from an HTTP status.
func NewStatusError(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Class:      ClassifyStatus(statusCode),
		StatusCode: statusCode,
		Message:    message,
	}
}
