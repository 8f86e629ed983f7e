package core

import (
	"errors"
	"fmt"
	"time"
)

// PipelineError is the root of the closed failure taxonomy. Every error the
// pipeline surfaces implements it, so stages decide control flow by matching
// on the concrete type (via errors.As) rather than on message text.
type PipelineError interface {
	error
	pipelineError()
}

// excerpt truncates s for inclusion in error messages and logs.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ParseError reports a failure to turn free text into structured meeting
// details, carrying excerpts of the offending input and, when available,
// the raw service response.
type ParseError struct {
	Input    string // excerpt of the user request
	Response string // excerpt of the raw extraction response, empty if the call itself failed
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse meeting details from: '%s'", excerpt(e.Input, 50))
}

func (e *ParseError) pipelineError() {}

// ValidationError reports a rejected field, the value supplied, and a
// human-readable reason. Raised both at the sanitization gate and by the
// Validate stage.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s='%s': %s", e.Field, excerpt(e.Value, 50), e.Reason)
}

func (e *ValidationError) pipelineError() {}

// ProviderError reports a failed call to the calendar/mail provider after
// the retry budget is exhausted.
type ProviderError struct {
	Provider  string // e.g. "Calendar", "Gmail"
	Operation string // e.g. "create_event", "send_email"
	Err       error  // underlying cause
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) pipelineError() {}

// AuthError reports a credential failure from the provider layer.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "failed to authenticate with provider"
	}
	return e.Message
}

func (e *AuthError) pipelineError() {}

// RateLimitError reports a provider rate limit, optionally with the retry
// hint the provider returned.
type RateLimitError struct {
	RetryAfter time.Duration // zero if the provider gave no hint
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "rate limit exceeded"
}

func (e *RateLimitError) pipelineError() {}

// ClassifyProviderError wraps err into the taxonomy if it is not already a
// member. The pipeline never lets an unclassified failure escape the
// CreateEvent or Notify stages.
func ClassifyProviderError(provider, operation string, err error) PipelineError {
	var pe PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Operation: operation, Err: err}
}
