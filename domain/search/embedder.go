package search

import "context"

// Embedder converts text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// ModelID identifies the model that produces the vectors. Vectors from
	// different model IDs are never compared.
	ModelID() string
}
