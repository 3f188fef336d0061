package search

import "errors"

// Sentinel errors for the match pipeline.
var (
	// ErrInvalidQuery indicates the query is empty after trimming.
	ErrInvalidQuery = errors.New("query cannot be empty")

	// ErrInvalidTopK indicates a non-positive candidate count.
	ErrInvalidTopK = errors.New("top_k must be at least 1")

	// ErrEmbedding is matched by every EmbeddingError.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates vectors of different lengths were compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates vectors from different models were compared.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// EmbeddingError reports a failure to load the model or embed text.
type EmbeddingError struct {
	operation string
	cause     error
}

// NewEmbeddingError creates an EmbeddingError.
func NewEmbeddingError(operation string, cause error) *EmbeddingError {
	return &EmbeddingError{operation: operation, cause: cause}
}

// Error implements the error interface.
func (e *EmbeddingError) Error() string {
	if e.cause == nil {
		return "embedding " + e.operation + " failed"
	}
	return "embedding " + e.operation + ": " + e.cause.Error()
}

// Unwrap returns the underlying cause.
func (e *EmbeddingError) Unwrap() error { return e.cause }

// Is makes every EmbeddingError match ErrEmbedding.
func (e *EmbeddingError) Is(target error) bool { return target == ErrEmbedding }

// Operation returns the failed operation.
func (e *EmbeddingError) Operation() string { return e.operation }
