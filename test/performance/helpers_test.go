package performance_test

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// iterations is the number of calls each goroutine makes.
const iterations = 50

var (
	generatedTypes      = []string{"ELSS", "Gold", "Debt", "Index", "Balanced"}
	generatedCategories = []string{"Tax Saving", "Commodity", "Liquid", "Equity", "Hybrid"}
	generatedSectors    = []string{"Multi-cap", "Gold", "Money Market", "Large-cap", "Balanced"}
)

// writeCatalog writes a CSV catalog of n generated funds and returns its path.
func writeCatalog(t testing.TB, n int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("name,type,category,sector,description\n")
	for i := range n {
		k := i % len(generatedTypes)
		fmt.Fprintf(&b, "Generated Fund %05d,%s,%s,%s,Generated %s fund number %d\n",
			i, generatedTypes[k], generatedCategories[k], generatedSectors[k], strings.ToLower(generatedTypes[k]), i)
	}

	path := filepath.Join(t.TempDir(), "funds.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

// latencyStats computes p50 and p99 from a flat slice of durations.
// The slice is sorted in place.
func latencyStats(d []time.Duration) (p50, p99 time.Duration) {
	slices.Sort(d)
	n := len(d)
	if n == 0 {
		return 0, 0
	}
	p50 = d[n*50/100]
	p99idx := n * 99 / 100
	if p99idx >= n {
		p99idx = n - 1
	}
	p99 = d[p99idx]
	return
}

// runParallel launches goroutines concurrently, each executing fn(goroutineID, iteration).
// It returns the per-goroutine latency slices and the total wall-clock duration.
func runParallel(goroutines int, fn func(gid, iter int) time.Duration) ([][]time.Duration, time.Duration) {
	perGoroutine := make([][]time.Duration, goroutines)
	for i := range perGoroutine {
		perGoroutine[i] = make([]time.Duration, iterations)
	}

	var wg sync.WaitGroup
	wg.Add(goroutines)

	start := time.Now()
	for g := range goroutines {
		go func(g int) {
			defer wg.Done()
			for i := range iterations {
				perGoroutine[g][i] = fn(g, i)
			}
		}(g)
	}
	wg.Wait()

	return perGoroutine, time.Since(start)
}

// flattenDurations merges per-goroutine duration slices into one flat slice.
func flattenDurations(perGoroutine [][]time.Duration) []time.Duration {
	var all []time.Duration
	for _, s := range perGoroutine {
		all = append(all, s...)
	}
	return all
}

// printRow logs a single results row.
func printRow(t *testing.T, label string, goroutines int, wall time.Duration, durations []time.Duration) {
	t.Helper()
	total := goroutines * iterations
	reqPerSec := float64(total) / wall.Seconds()
	p50, p99 := latencyStats(durations)
	t.Logf("%-10s  goroutines=%-3d  total_reqs=%-5d  wall=%8v  req/sec=%8.1f  p50=%8v  p99=%8v",
		label, goroutines, total, wall.Round(time.Millisecond), reqPerSec, p50.Round(time.Microsecond), p99.Round(time.Microsecond))
}
