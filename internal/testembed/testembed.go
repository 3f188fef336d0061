// Package testembed provides a deterministic embedder for tests.
package testembed

import (
	"context"
	"strings"
	"sync"
)

// Vocabulary covers the words of the built-in catalog plus a few extras.
var Vocabulary = []string{
	"axis", "long", "term", "equity", "fund", "elss", "tax", "saving",
	"multi-cap", "offers", "benefits", "under", "section", "80c", "icici",
	"plan", "large-cap", "save", "taxes", "with", "hdfc", "balanced",
	"advantage", "hybrid", "auto-adjusts", "equity-debt", "mix", "gold",
	"debt", "liquid", "index",
}

// Words embeds text as counts of vocabulary words. Unknown words contribute
// nothing, so text made only of unknown words embeds to the zero vector.
type Words struct {
	// Err, when set, is returned by Embed.
	Err error

	mu     sync.Mutex
	calls  int
	texts  int
	closed bool
}

// New creates a Words embedder.
func New() *Words { return &Words{} }

// Embed implements the embedder interface.
func (w *Words) Embed(_ context.Context, texts []string) ([][]float64, error) {
	w.mu.Lock()
	w.calls++
	w.texts += len(texts)
	err := w.Err
	w.mu.Unlock()

	if err != nil {
		return nil, err
	}

	positions := make(map[string]int, len(Vocabulary))
	for i, word := range Vocabulary {
		positions[word] = i
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, len(Vocabulary))
		for _, word := range strings.Fields(text) {
			if p, ok := positions[word]; ok {
				v[p]++
			}
		}
		vectors[i] = v
	}
	return vectors, nil
}

// ModelID names the fake model.
func (w *Words) ModelID() string { return "words" }

// Close marks the embedder closed.
func (w *Words) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Calls returns how many times Embed ran.
func (w *Words) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// Texts returns how many texts were embedded in total.
func (w *Words) Texts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.texts
}

// Closed reports whether Close was called.
func (w *Words) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
