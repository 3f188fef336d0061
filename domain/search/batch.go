package search

import (
	"fmt"
	"unicode/utf8"
)

// Span is a half-open range [Start, End) of catalog positions.
type Span struct {
	Start int
	End   int
}

// Len returns the number of positions in the span.
func (s Span) Len() int { return s.End - s.Start }

// BatchBudget splits catalog texts into embedding batches. Each batch holds at
// most maxBatchSize texts and, unless it holds a single text, at most maxChars
// characters.
type BatchBudget struct {
	maxChars     int
	maxBatchSize int
}

// NewBatchBudget creates a BatchBudget. Both limits must be positive.
func NewBatchBudget(maxChars, maxBatchSize int) (BatchBudget, error) {
	if maxChars <= 0 {
		return BatchBudget{}, fmt.Errorf("NewBatchBudget: maxChars must be positive, got %d", maxChars)
	}
	if maxBatchSize <= 0 {
		return BatchBudget{}, fmt.Errorf("NewBatchBudget: maxBatchSize must be positive, got %d", maxBatchSize)
	}
	return BatchBudget{maxChars: maxChars, maxBatchSize: maxBatchSize}, nil
}

// DefaultBatchBudget allows 32 texts or 16 000 characters per batch.
func DefaultBatchBudget() BatchBudget {
	return BatchBudget{maxChars: 16000, maxBatchSize: 32}
}

// MaxBatchSize returns the per-batch text limit.
func (b BatchBudget) MaxBatchSize() int { return b.maxBatchSize }

// Spans partitions texts into consecutive batches. A text longer than the
// character budget is placed alone in its own batch.
func (b BatchBudget) Spans(texts []string) []Span {
	if len(texts) == 0 {
		return nil
	}

	var spans []Span
	i := 0
	for i < len(texts) {
		start := i
		chars := 0
		for i < len(texts) && i-start < b.maxBatchSize {
			n := utf8.RuneCountInString(texts[i])
			if chars+n > b.maxChars && i > start {
				break
			}
			chars += n
			i++
		}
		spans = append(spans, Span{Start: start, End: i})
	}
	return spans
}
