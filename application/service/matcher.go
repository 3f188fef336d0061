// Package service provides application layer services that orchestrate domain operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	"github.com/helixml/fundmatch/domain/service"
)

// MatchRecorder receives pipeline measurements.
type MatchRecorder interface {
	ObserveMatch(outcome string, duration time.Duration)
	ObserveReload(success bool, funds int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveMatch(string, time.Duration) {}
func (noopRecorder) ObserveReload(bool, int)            {}

// Outcome labels reported to the MatchRecorder.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// MatchOption configures a single match request.
type MatchOption func(*matchConfig)

type matchConfig struct {
	topK int
}

// WithTopK sets how many semantic candidates are re-ranked. Values below 1
// are rejected by Match with search.ErrInvalidTopK.
func WithTopK(k int) MatchOption {
	return func(c *matchConfig) { c.topK = k }
}

// Result is the outcome of one query together with its trace.
type Result struct {
	query       string
	outcome     search.Outcome
	candidates  []search.ScoredCandidate
	explanation []string
	model       string
}

// Query returns the trimmed query.
func (r Result) Query() string { return r.query }

// Outcome returns the MatchResult or NoMatch.
func (r Result) Outcome() search.Outcome { return r.outcome }

// Matched reports whether a fund was selected.
func (r Result) Matched() bool { return r.outcome.Matched() }

// Candidates returns the re-ranked candidates in semantic rank order.
func (r Result) Candidates() []search.ScoredCandidate {
	c := make([]search.ScoredCandidate, len(r.candidates))
	copy(c, r.candidates)
	return c
}

// Explanation returns the trace lines. The last line names the winner or
// carries the no-match advisory.
func (r Result) Explanation() []string {
	lines := make([]string, len(r.explanation))
	copy(lines, r.explanation)
	return lines
}

// Model returns the embedding model used for the query.
func (r Result) Model() string { return r.model }

// Matcher runs the hybrid ranking pipeline against the current index.
type Matcher struct {
	builder  *service.IndexBuilder
	config   search.MatchConfig
	reranker search.Reranker
	source   fund.Source
	index    atomic.Pointer[service.Index]
	reloadMu sync.Mutex
	closed   *atomic.Bool
	recorder MatchRecorder
	logger   *slog.Logger
}

// NewMatcher creates a Matcher. The index is empty until Reload succeeds.
func NewMatcher(
	builder *service.IndexBuilder,
	config search.MatchConfig,
	source fund.Source,
	closed *atomic.Bool,
	recorder MatchRecorder,
	logger *slog.Logger,
) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Matcher{
		builder:  builder,
		config:   config,
		reranker: search.NewReranker(config),
		source:   source,
		closed:   closed,
		recorder: recorder,
		logger:   logger,
	}
}

// Config returns the pipeline configuration.
func (m *Matcher) Config() search.MatchConfig { return m.config }

// Index returns the current index snapshot.
func (m *Matcher) Index() (*service.Index, error) {
	idx := m.index.Load()
	if idx == nil {
		return nil, ErrIndexNotReady
	}
	return idx, nil
}

// Catalog returns the catalog behind the current index.
func (m *Matcher) Catalog() (fund.Catalog, error) {
	idx, err := m.Index()
	if err != nil {
		return fund.Catalog{}, err
	}
	return idx.Catalog(), nil
}

// Reload builds a new index for catalog and swaps it in. Readers keep using
// the previous index until the swap; a failed build leaves it in place.
func (m *Matcher) Reload(ctx context.Context, catalog fund.Catalog) error {
	if m.isClosed() {
		return ErrClientClosed
	}

	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	start := time.Now()
	idx, err := m.builder.Build(ctx, catalog)
	if err != nil {
		m.recorder.ObserveReload(false, catalog.Len())
		return fmt.Errorf("build index: %w", err)
	}

	previous := m.index.Swap(idx)
	m.recorder.ObserveReload(true, idx.Len())

	attrs := []any{
		"source", catalog.Source(),
		"funds", idx.Len(),
		"model", idx.Model(),
		"dimension", idx.Dimension(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if previous != nil {
		attrs = append(attrs, "previous_funds", previous.Len())
	}
	m.logger.Info("catalog indexed", attrs...)
	return nil
}

// ReloadFromSource loads the configured source and reloads the index.
func (m *Matcher) ReloadFromSource(ctx context.Context) error {
	if m.source == nil {
		return ErrNoSource
	}
	catalog, err := m.source.Load(ctx)
	if err != nil {
		m.recorder.ObserveReload(false, 0)
		return err
	}
	return m.Reload(ctx, catalog)
}

// Match finds the fund that best fits query.
func (m *Matcher) Match(ctx context.Context, query string, opts ...MatchOption) (Result, error) {
	if m.isClosed() {
		return Result{}, ErrClientClosed
	}

	cfg := matchConfig{topK: m.config.TopK()}
	for _, opt := range opts {
		opt(&cfg)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, search.ErrInvalidQuery
	}
	if cfg.topK < 1 {
		return Result{}, fmt.Errorf("%w: got %d", search.ErrInvalidTopK, cfg.topK)
	}

	idx, err := m.Index()
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	result, err := m.run(ctx, idx, query, cfg.topK)
	if err != nil {
		m.recorder.ObserveMatch(OutcomeError, time.Since(start))
		return Result{}, err
	}

	label := OutcomeNoMatch
	if result.Matched() {
		label = OutcomeMatch
	}
	m.recorder.ObserveMatch(label, time.Since(start))

	m.logger.Debug("query matched",
		"query", query,
		"top_k", cfg.topK,
		"outcome", label,
		"summary", result.outcome.Summary(),
	)
	return result, nil
}

func (m *Matcher) run(ctx context.Context, idx *service.Index, query string, topK int) (Result, error) {
	embedding, err := idx.EmbedQuery(ctx, query)
	if err != nil {
		return Result{}, err
	}

	scores, err := idx.Score(embedding)
	if err != nil {
		return Result{}, fmt.Errorf("score query: %w", err)
	}

	explanation := search.NewExplanation()
	indices := search.TopK(scores, topK)
	candidates := m.reranker.Rerank(query, indices, scores, idx.Catalog(), explanation)

	outcome := search.Decide(candidates, m.config.ConfidenceThreshold())
	explanation.Conclude(outcome)

	return Result{
		query:       query,
		outcome:     outcome,
		candidates:  candidates,
		explanation: explanation.Lines(),
		model:       idx.Model(),
	}, nil
}

func (m *Matcher) isClosed() bool {
	return m.closed != nil && m.closed.Load()
}
