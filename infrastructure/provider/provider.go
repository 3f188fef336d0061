// Package provider implements text embedding backends: a local sentence
// transformer run through hugot, and any OpenAI-compatible HTTP endpoint.
package provider

import (
	"errors"

	"github.com/helixml/fundmatch/domain/search"
)

// Common errors.
var (
	// ErrRateLimited indicates the provider rate limited the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelUnavailable indicates no model could be found or loaded.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)

// Embedder is a search.Embedder that holds releasable resources.
type Embedder interface {
	search.Embedder

	// Close releases any resources held by the provider.
	Close() error
}

// ProviderError wraps provider errors with additional context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a new ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.cause != nil && e.cause.Error() != e.message {
		return e.operation + ": " + e.message + ": " + e.cause.Error()
	}
	return e.operation + ": " + e.message
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }

// Is matches ErrRateLimited for HTTP 429 responses.
func (e *ProviderError) Is(target error) bool {
	return target == ErrRateLimited && e.statusCode == 429
}

// Operation returns the operation that failed.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the HTTP status code if available.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Message returns the error message.
func (e *ProviderError) Message() string { return e.message }
