package service

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"testing"

	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// bagEmbedder hashes each word into a bucket, so texts sharing words have a
// positive cosine similarity.
type bagEmbedder struct {
	mu        sync.Mutex
	calls     [][]string
	dimension int
	err       error
	short     bool
}

func (f *bagEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, texts)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.short {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, f.dimension)
		for _, word := range strings.Fields(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(word))
			v[int(h.Sum32())%f.dimension]++
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (f *bagEmbedder) ModelID() string { return "bag-of-words" }

func (f *bagEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testCatalog(t *testing.T) fund.Catalog {
	t.Helper()
	names := []string{"Axis Long Term Equity Fund", "ICICI Tax Saving Plan", "HDFC Balanced Advantage Fund"}
	records := make([]fund.Record, len(names))
	for i, name := range names {
		r, err := fund.NewRecord(name, map[fund.Field]string{fund.FieldType: "ELSS"})
		require.NoError(t, err)
		records[i] = r
	}
	c, err := fund.NewCatalog("test", records)
	require.NoError(t, err)
	return c
}

// --- tests ---

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Tax   SAVING\tELSS ", "tax saving elss"},
		{"ｔａｘ ｓａｖｉｎｇ", "tax saving"},
		{"Proﬁt", "profit"},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNewIndexBuilder_NilEmbedder(t *testing.T) {
	_, err := NewIndexBuilder(nil)
	require.Error(t, err)
}

func TestIndexBuilder_Build(t *testing.T) {
	embedder := &bagEmbedder{dimension: 64}
	builder, err := NewIndexBuilder(embedder)
	require.NoError(t, err)

	idx, err := builder.Build(context.Background(), testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "bag-of-words", idx.Model())
	assert.Equal(t, 64, idx.Dimension())
	assert.Equal(t, 3, idx.Catalog().Len())
	assert.False(t, idx.BuiltAt().IsZero())

	require.Equal(t, 1, embedder.callCount())
	assert.Equal(t, "axis long term equity fund elss", embedder.calls[0][0])
}

func TestIndexBuilder_BatchesConcurrently(t *testing.T) {
	embedder := &bagEmbedder{dimension: 16}
	budget, err := search.NewBatchBudget(1000, 1)
	require.NoError(t, err)

	builder, err := NewIndexBuilder(embedder, WithBatchBudget(budget), WithParallelism(2))
	require.NoError(t, err)

	idx, err := builder.Build(context.Background(), testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, 3, embedder.callCount())
	for i := 0; i < idx.Len(); i++ {
		assert.Equal(t, 16, idx.Embedding(i).Dimension())
	}
}

func TestIndexBuilder_RebuildIsIdentical(t *testing.T) {
	builder, err := NewIndexBuilder(&bagEmbedder{dimension: 32})
	require.NoError(t, err)
	catalog := testCatalog(t)

	first, err := builder.Build(context.Background(), catalog)
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), catalog)
	require.NoError(t, err)

	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Embedding(i).Vector(), second.Embedding(i).Vector())
	}
}

func TestIndexBuilder_EmbedderError(t *testing.T) {
	cause := errors.New("model not loaded")
	builder, err := NewIndexBuilder(&bagEmbedder{dimension: 8, err: cause})
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), testCatalog(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, search.ErrEmbedding))
	assert.True(t, errors.Is(err, cause))
}

func TestIndexBuilder_CountMismatch(t *testing.T) {
	builder, err := NewIndexBuilder(&bagEmbedder{dimension: 8, short: true})
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), testCatalog(t))
	assert.True(t, errors.Is(err, ErrEmbeddingCount))
}

func TestIndexBuilder_EmptyInput(t *testing.T) {
	builder, err := NewIndexBuilder(&bagEmbedder{dimension: 8})
	require.NoError(t, err)

	_, err = builder.EmbedTexts(context.Background(), nil)
	assert.True(t, errors.Is(err, search.ErrEmbedding))
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = builder.EmbedTexts(context.Background(), []string{"ok", "  "})
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestIndex_EmbedQuery_MatchesCatalogNormalization(t *testing.T) {
	builder, err := NewIndexBuilder(&bagEmbedder{dimension: 64})
	require.NoError(t, err)

	idx, err := builder.Build(context.Background(), testCatalog(t))
	require.NoError(t, err)

	query, err := idx.EmbedQuery(context.Background(), "  AXIS Long TERM equity FUND elss ")
	require.NoError(t, err)
	assert.Equal(t, "bag-of-words", query.Model())

	scores, err := idx.Score(query)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestIndex_EmbedQuery_Empty(t *testing.T) {
	embedder := &bagEmbedder{dimension: 8}
	builder, err := NewIndexBuilder(embedder)
	require.NoError(t, err)
	idx, err := builder.Build(context.Background(), testCatalog(t))
	require.NoError(t, err)

	calls := embedder.callCount()
	_, err = idx.EmbedQuery(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.Equal(t, calls, embedder.callCount())
}
