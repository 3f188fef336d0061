package service

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	"golang.org/x/sync/errgroup"
)

// IndexBuilderOption configures an IndexBuilder.
type IndexBuilderOption func(*IndexBuilder)

// WithBatchBudget sets how catalog texts are split into embedding batches.
func WithBatchBudget(budget search.BatchBudget) IndexBuilderOption {
	return func(b *IndexBuilder) { b.budget = budget }
}

// WithParallelism sets how many batches are embedded at once.
func WithParallelism(n int) IndexBuilderOption {
	return func(b *IndexBuilder) {
		if n > 0 {
			b.parallelism = n
		}
	}
}

// IndexBuilder embeds catalogs into immutable indexes.
type IndexBuilder struct {
	embedder    search.Embedder
	budget      search.BatchBudget
	parallelism int
}

// NewIndexBuilder creates an IndexBuilder around a loaded embedder.
func NewIndexBuilder(embedder search.Embedder, opts ...IndexBuilderOption) (*IndexBuilder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("NewIndexBuilder: nil embedder")
	}
	b := &IndexBuilder{
		embedder:    embedder,
		budget:      search.DefaultBatchBudget(),
		parallelism: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build embeds every record of the catalog and returns a new Index.
func (b *IndexBuilder) Build(ctx context.Context, catalog fund.Catalog) (*Index, error) {
	embeddings, err := b.EmbedTexts(ctx, catalog.Texts())
	if err != nil {
		return nil, err
	}

	return &Index{
		catalog:    catalog,
		embeddings: embeddings,
		model:      b.embedder.ModelID(),
		dimension:  embeddings[0].Dimension(),
		embedder:   b.embedder,
		builtAt:    time.Now(),
	}, nil
}

// EmbedTexts normalizes and embeds texts, returning one embedding per text in
// input order. Batches run concurrently; any failure fails the whole call.
func (b *IndexBuilder) EmbedTexts(ctx context.Context, texts []string) ([]search.Embedding, error) {
	if len(texts) == 0 {
		return nil, search.NewEmbeddingError("build", ErrEmptyInput)
	}

	normalized := make([]string, len(texts))
	for i, t := range texts {
		normalized[i] = Normalize(t)
		if normalized[i] == "" {
			return nil, search.NewEmbeddingError("build", fmt.Errorf("text %d: %w", i, ErrEmptyInput))
		}
	}

	vectors := make([][]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)

	for _, span := range b.budget.Spans(normalized) {
		g.Go(func() error {
			out, err := b.embedder.Embed(gctx, normalized[span.Start:span.End])
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", span.Start, span.End, err)
			}
			if len(out) != span.Len() {
				return fmt.Errorf("embed batch [%d:%d]: %w: got %d, expected %d",
					span.Start, span.End, ErrEmbeddingCount, len(out), span.Len())
			}
			copy(vectors[span.Start:span.End], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, search.NewEmbeddingError("build", err)
	}

	model := b.embedder.ModelID()
	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, search.NewEmbeddingError("build", fmt.Errorf("model %q returned empty vectors", model))
	}

	embeddings := make([]search.Embedding, len(vectors))
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, search.NewEmbeddingError("build",
				fmt.Errorf("%w: text %d has %d, expected %d", search.ErrDimensionMismatch, i, len(v), dimension))
		}
		embeddings[i] = search.NewEmbedding(model, v)
	}
	return embeddings, nil
}
