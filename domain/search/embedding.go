package search

import "fmt"

// Embedding is a vector tagged with the model that produced it.
type Embedding struct {
	model  string
	vector []float64
}

// NewEmbedding creates an Embedding, copying the vector.
func NewEmbedding(model string, vector []float64) Embedding {
	v := make([]float64, len(vector))
	copy(v, vector)
	return Embedding{model: model, vector: v}
}

// Model returns the model ID.
func (e Embedding) Model() string { return e.model }

// Dimension returns the vector length.
func (e Embedding) Dimension() int { return len(e.vector) }

// Vector returns a copy of the vector.
func (e Embedding) Vector() []float64 {
	v := make([]float64, len(e.vector))
	copy(v, e.vector)
	return v
}

// Compatible returns an error when the two embeddings cannot be compared.
func (e Embedding) Compatible(other Embedding) error {
	if e.model != other.model {
		return fmt.Errorf("%w: %q vs %q", ErrModelMismatch, e.model, other.model)
	}
	if len(e.vector) != len(other.vector) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(e.vector), len(other.vector))
	}
	return nil
}
