package provider

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/helixml/fundmatch/domain/search"
)

// VectorStore persists embeddings between runs.
type VectorStore interface {
	Get(ctx context.Context, model string, texts []string) (map[string][]float64, error)
	Put(ctx context.Context, model string, vectors map[string][]float64) error
}

// CachedEmbedder serves repeated texts from an in-memory LRU and, when a
// VectorStore is set, from persistent storage before calling the wrapped
// embedder. Store failures are logged and never fail an Embed call.
type CachedEmbedder struct {
	inner  search.Embedder
	recent *lru.Cache[string, []float64]
	store  VectorStore
	logger *slog.Logger
}

// NewCachedEmbedder wraps inner. A size of zero or less disables the LRU and
// a nil store disables persistence.
func NewCachedEmbedder(inner search.Embedder, size int, store VectorStore, logger *slog.Logger) (*CachedEmbedder, error) {
	if inner == nil {
		return nil, fmt.Errorf("cached embedder: inner embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &CachedEmbedder{
		inner:  inner,
		store:  store,
		logger: logger,
	}
	if size > 0 {
		recent, err := lru.New[string, []float64](size)
		if err != nil {
			return nil, fmt.Errorf("cached embedder: %w", err)
		}
		c.recent = recent
	}
	return c, nil
}

// ModelID returns the wrapped embedder's model identifier.
func (c *CachedEmbedder) ModelID() string { return c.inner.ModelID() }

// Embed returns one vector per text, in input order.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make(map[string][]float64, len(texts))
	var missing []string
	for _, text := range texts {
		if _, ok := vectors[text]; ok {
			continue
		}
		if v, ok := c.lookupRecent(text); ok {
			vectors[text] = v
			continue
		}
		vectors[text] = nil
		missing = append(missing, text)
	}

	if len(missing) > 0 && c.store != nil {
		stored, err := c.store.Get(ctx, c.ModelID(), missing)
		if err != nil {
			c.logger.WarnContext(ctx, "embedding cache lookup failed", slog.Any("error", err))
		}
		remaining := missing[:0]
		for _, text := range missing {
			if v, ok := stored[text]; ok {
				vectors[text] = v
				c.remember(text, v)
				continue
			}
			remaining = append(remaining, text)
		}
		missing = remaining
	}

	if len(missing) > 0 {
		computed, err := c.inner.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(computed) != len(missing) {
			return nil, fmt.Errorf("cached embedder: expected %d embeddings, got %d", len(missing), len(computed))
		}

		fresh := make(map[string][]float64, len(missing))
		for i, text := range missing {
			vectors[text] = computed[i]
			fresh[text] = computed[i]
			c.remember(text, computed[i])
		}

		if c.store != nil {
			if err := c.store.Put(ctx, c.ModelID(), fresh); err != nil {
				c.logger.WarnContext(ctx, "embedding cache write failed", slog.Any("error", err))
			}
		}
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = append([]float64(nil), vectors[text]...)
	}
	return out, nil
}

// Len returns the number of vectors held in memory.
func (c *CachedEmbedder) Len() int {
	if c.recent == nil {
		return 0
	}
	return c.recent.Len()
}

// Close closes the wrapped embedder when it holds resources.
func (c *CachedEmbedder) Close() error {
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (c *CachedEmbedder) lookupRecent(text string) ([]float64, bool) {
	if c.recent == nil {
		return nil, false
	}
	return c.recent.Get(text)
}

func (c *CachedEmbedder) remember(text string, vector []float64) {
	if c.recent == nil {
		return
	}
	c.recent.Add(text, append([]float64(nil), vector...))
}

var _ Embedder = (*CachedEmbedder)(nil)
