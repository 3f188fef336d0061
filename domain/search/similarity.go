package search

import (
	"math"
	"sort"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|). It returns 0 when either
// vector has zero magnitude or the lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Rounding can push the result a hair outside [-1, 1].
	return math.Max(-1, math.Min(1, sim))
}

// Score returns the cosine similarity of query against every catalog
// embedding, in catalog order. All embeddings must share model and dimension.
func Score(query Embedding, catalog []Embedding) ([]float64, error) {
	scores := make([]float64, len(catalog))
	for i, e := range catalog {
		if err := query.Compatible(e); err != nil {
			return nil, err
		}
		scores[i] = CosineSimilarity(query.vector, e.vector)
	}
	return scores, nil
}

// TopK returns the indices of the k highest scores in descending order. Ties
// keep the lower index first. The result has min(k, len(scores)) entries.
func TopK(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return []int{}
	}

	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})

	if k < len(indices) {
		indices = indices[:k]
	}
	return indices
}
