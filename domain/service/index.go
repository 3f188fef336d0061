package service

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
)

// Index is an immutable snapshot of a catalog and its embeddings. It is safe
// for concurrent use.
type Index struct {
	catalog    fund.Catalog
	embeddings []search.Embedding
	model      string
	dimension  int
	embedder   search.Embedder
	builtAt    time.Time
}

// Catalog returns the indexed catalog.
func (i *Index) Catalog() fund.Catalog { return i.catalog }

// Len returns the number of indexed funds.
func (i *Index) Len() int { return len(i.embeddings) }

// Model returns the ID of the model that produced the embeddings.
func (i *Index) Model() string { return i.model }

// Dimension returns the embedding dimension.
func (i *Index) Dimension() int { return i.dimension }

// BuiltAt returns when the index was built.
func (i *Index) BuiltAt() time.Time { return i.builtAt }

// Embedding returns the embedding of the record at position n.
func (i *Index) Embedding(n int) search.Embedding { return i.embeddings[n] }

// EmbedQuery normalizes and embeds a query with the model that built the
// index.
func (i *Index) EmbedQuery(ctx context.Context, text string) (search.Embedding, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return search.Embedding{}, search.NewEmbeddingError("query", ErrEmptyInput)
	}

	vectors, err := i.embedder.Embed(ctx, []string{normalized})
	if err != nil {
		return search.Embedding{}, search.NewEmbeddingError("query", err)
	}
	if len(vectors) != 1 {
		return search.Embedding{}, search.NewEmbeddingError("query",
			fmt.Errorf("%w: got %d, expected 1", ErrEmbeddingCount, len(vectors)))
	}

	query := search.NewEmbedding(i.embedder.ModelID(), vectors[0])
	if query.Dimension() != i.dimension {
		return search.Embedding{}, search.NewEmbeddingError("query",
			fmt.Errorf("%w: got %d, index has %d", search.ErrDimensionMismatch, query.Dimension(), i.dimension))
	}
	return query, nil
}

// Score returns the cosine similarity of query against every indexed fund in
// catalog order.
func (i *Index) Score(query search.Embedding) ([]float64, error) {
	return search.Score(query, i.embeddings)
}
