package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBatchBudget_Invalid(t *testing.T) {
	_, err := NewBatchBudget(0, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "maxChars")

	_, err = NewBatchBudget(10, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "maxBatchSize")
}

func TestBatchBudget_Spans_Empty(t *testing.T) {
	require.Nil(t, DefaultBatchBudget().Spans(nil))
}

func TestBatchBudget_Spans_ByCount(t *testing.T) {
	b, err := NewBatchBudget(100000, 10)
	require.NoError(t, err)

	texts := make([]string, 23)
	for i := range texts {
		texts[i] = "x"
	}

	spans := b.Spans(texts)
	require.Equal(t, []Span{{0, 10}, {10, 20}, {20, 23}}, spans)
}

func TestBatchBudget_Spans_ByChars(t *testing.T) {
	b, err := NewBatchBudget(25, 100)
	require.NoError(t, err)

	texts := make([]string, 5)
	for i := range texts {
		texts[i] = strings.Repeat("a", 10)
	}

	spans := b.Spans(texts)
	require.Equal(t, []Span{{0, 2}, {2, 4}, {4, 5}}, spans)
}

func TestBatchBudget_Spans_LargeTextOwnBatch(t *testing.T) {
	b, err := NewBatchBudget(20, 100)
	require.NoError(t, err)

	spans := b.Spans([]string{
		strings.Repeat("x", 5),
		strings.Repeat("y", 50),
		strings.Repeat("z", 5),
	})
	require.Equal(t, []Span{{0, 1}, {1, 2}, {2, 3}}, spans)
	require.Equal(t, 1, spans[1].Len())
}
