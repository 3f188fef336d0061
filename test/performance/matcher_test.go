package performance_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/internal/testembed"
	"github.com/stretchr/testify/require"
)

var sampleQueries = []string{
	"tax saving elss",
	"gold",
	"liquid debt",
	"index equity large-cap",
	"balanced hybrid",
	"unrelated words only",
}

// TestMatcherPerformance measures end-to-end match latency against a large
// catalog under parallel load. The embedder is deterministic and in-process,
// so the numbers reflect ranking, re-ranking and the query cache.
//
// Run with:
//
//	go test -run TestMatcherPerformance -v ./test/performance/...
func TestMatcherPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	for _, size := range []int{100, 1000, 5000} {
		t.Run(fmt.Sprintf("funds_%d", size), func(t *testing.T) {
			client, err := fundmatch.New(
				fundmatch.WithCatalogPath(writeCatalog(t, size)),
				fundmatch.WithEmbeddingProvider(testembed.New()),
				fundmatch.WithDataDir(t.TempDir()),
			)
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })

			for _, goroutines := range []int{1, 4, 8, 16} {
				var failures atomic.Int32
				perGoroutine, wall := runParallel(goroutines, func(gid, iter int) time.Duration {
					query := sampleQueries[(gid+iter)%len(sampleQueries)]
					start := time.Now()
					if _, err := client.Match(context.Background(), query); err != nil {
						failures.Add(1)
					}
					return time.Since(start)
				})
				require.Zero(t, failures.Load())
				printRow(t, fmt.Sprintf("n=%d", size), goroutines, wall, flattenDurations(perGoroutine))
			}
		})
	}
}

// TestIndexBuildPerformance compares a cold index build, which embeds every
// fund, with a warm one served from the SQLite embedding cache.
func TestIndexBuildPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	const size = 2000
	catalogPath := writeCatalog(t, size)
	dbURL := "sqlite:///" + filepath.Join(t.TempDir(), "cache.db")

	build := func(label string) *testembed.Words {
		emb := testembed.New()
		start := time.Now()
		client, err := fundmatch.New(
			fundmatch.WithCatalogPath(catalogPath),
			fundmatch.WithEmbeddingProvider(emb),
			fundmatch.WithEmbeddingCache(dbURL),
			fundmatch.WithDataDir(t.TempDir()),
		)
		require.NoError(t, err)
		elapsed := time.Since(start)
		require.NoError(t, client.Close())
		t.Logf("%-5s  funds=%d  embedded=%-5d  elapsed=%v", label, size, emb.Texts(), elapsed.Round(time.Millisecond))
		return emb
	}

	cold := build("cold")
	require.Equal(t, size, cold.Texts())

	warm := build("warm")
	require.Zero(t, warm.Texts())
}
