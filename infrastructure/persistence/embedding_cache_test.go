package persistence_test

import (
	"context"
	"testing"

	"github.com/helixml/fundmatch/infrastructure/persistence"
	"github.com/helixml/fundmatch/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCacheStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	err := store.Put(ctx, "hugot:mini", map[string][]float64{
		"tax saving elss": {0.1, 0.2, 0.3},
		"balanced hybrid": {0.4, 0.5, 0.6},
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "hugot:mini", []string{"tax saving elss", "missing", "balanced hybrid"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, got["tax saving elss"])
	assert.Equal(t, []float64{0.4, 0.5, 0.6}, got["balanced hybrid"])
	assert.NotContains(t, got, "missing")
}

func TestEmbeddingCacheStore_ScopedByModel(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "model-a", map[string][]float64{"text": {1, 0}}))

	got, err := store.Get(ctx, "model-b", []string{"text"})
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := store.Count(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEmbeddingCacheStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "m", map[string][]float64{"text": {1, 0}}))
	require.NoError(t, store.Put(ctx, "m", map[string][]float64{"text": {0, 1, 0}}))

	got, err := store.Get(ctx, "m", []string{"text"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, got["text"])

	count, err := store.Count(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEmbeddingCacheStore_DuplicateTexts(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "m", map[string][]float64{"same": {1}}))

	got, err := store.Get(ctx, "m", []string{"same", "same"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestEmbeddingCacheStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "m", nil))

	got, err := store.Get(ctx, "m", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddingCacheStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewEmbeddingCacheStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "m", map[string][]float64{"a": {1}, "b": {2}}))
	require.NoError(t, store.Put(ctx, "other", map[string][]float64{"a": {3}}))
	require.NoError(t, store.Purge(ctx, "m"))

	count, err := store.Count(ctx, "m")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = store.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHashText(t *testing.T) {
	assert.Len(t, persistence.HashText("abc"), 40)
	assert.Equal(t, persistence.HashText("abc"), persistence.HashText("abc"))
	assert.NotEqual(t, persistence.HashText("abc"), persistence.HashText("abd"))
}

func TestFloat64Slice_RoundTrip(t *testing.T) {
	value, err := persistence.Float64Slice{0.5, -1}.Value()
	require.NoError(t, err)

	var out persistence.Float64Slice
	require.NoError(t, out.Scan(value))
	assert.Equal(t, persistence.Float64Slice{0.5, -1}, out)

	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)

	assert.Error(t, out.Scan(42))
}
