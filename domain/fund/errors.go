package fund

import (
	"errors"
	"fmt"
)

// ErrCatalogLoad is matched by every CatalogLoadError.
var ErrCatalogLoad = errors.New("catalog load failed")

// CatalogLoadError reports a malformed or unreadable catalog source.
type CatalogLoadError struct {
	source string
	line   int
	reason string
	cause  error
}

// NewCatalogLoadError creates a CatalogLoadError. A line of zero means the
// error is not tied to a specific row.
func NewCatalogLoadError(source string, line int, reason string, cause error) *CatalogLoadError {
	return &CatalogLoadError{
		source: source,
		line:   line,
		reason: reason,
		cause:  cause,
	}
}

// Error implements the error interface.
func (e *CatalogLoadError) Error() string {
	msg := "load catalog"
	if e.source != "" {
		msg += " " + e.source
	}
	if e.line > 0 {
		msg += fmt.Sprintf(" (record %d)", e.line)
	}
	msg += ": " + e.reason
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CatalogLoadError) Unwrap() error { return e.cause }

// Is makes every CatalogLoadError match ErrCatalogLoad.
func (e *CatalogLoadError) Is(target error) bool { return target == ErrCatalogLoad }

// Source returns the catalog source.
func (e *CatalogLoadError) Source() string { return e.source }

// Line returns the 1-based record number, or 0.
func (e *CatalogLoadError) Line() int { return e.line }

// Reason returns the human-readable reason.
func (e *CatalogLoadError) Reason() string { return e.reason }
