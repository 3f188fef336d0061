package service

import "errors"

var (
	// ErrEmptyInput indicates there was no text to embed.
	ErrEmptyInput = errors.New("embedding input is empty")

	// ErrEmbeddingCount indicates the embedder returned a different number of
	// vectors than texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
