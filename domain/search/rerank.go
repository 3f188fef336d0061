package search

import (
	"fmt"
	"strings"

	"github.com/helixml/fundmatch/domain/fund"
)

// MatchEvent records a metadata field whose fuzzy ratio earned a bonus.
type MatchEvent struct {
	field fund.Field
	value string
	ratio int
}

// NewMatchEvent creates a MatchEvent.
func NewMatchEvent(field fund.Field, value string, ratio int) MatchEvent {
	return MatchEvent{field: field, value: value, ratio: ratio}
}

// Field returns the matched field.
func (m MatchEvent) Field() fund.Field { return m.field }

// Value returns the field value as stored in the catalog.
func (m MatchEvent) Value() string { return m.value }

// Ratio returns the fuzzy ratio in [0,100].
func (m MatchEvent) Ratio() int { return m.ratio }

// ScoredCandidate is a catalog record with its base and adjusted scores.
type ScoredCandidate struct {
	index    int
	record   fund.Record
	base     float64
	adjusted float64
	matches  []MatchEvent
}

// NewScoredCandidate creates a ScoredCandidate.
func NewScoredCandidate(index int, record fund.Record, base, adjusted float64, matches []MatchEvent) ScoredCandidate {
	m := make([]MatchEvent, len(matches))
	copy(m, matches)
	return ScoredCandidate{
		index:    index,
		record:   record,
		base:     base,
		adjusted: adjusted,
		matches:  m,
	}
}

// Index returns the record's position in the catalog.
func (c ScoredCandidate) Index() int { return c.index }

// Record returns the fund record.
func (c ScoredCandidate) Record() fund.Record { return c.record }

// BaseScore returns the cosine similarity to the query.
func (c ScoredCandidate) BaseScore() float64 { return c.base }

// AdjustedScore returns the base score plus metadata bonuses.
func (c ScoredCandidate) AdjustedScore() float64 { return c.adjusted }

// Matches returns a copy of the match events in field order.
func (c ScoredCandidate) Matches() []MatchEvent {
	m := make([]MatchEvent, len(c.matches))
	copy(m, c.matches)
	return m
}

// Reranker adds fuzzy metadata bonuses to semantic candidates.
type Reranker struct {
	fields    []fund.Field
	threshold float64
	bonus     float64
}

// NewReranker creates a Reranker from a validated config.
func NewReranker(cfg MatchConfig) Reranker {
	return Reranker{
		fields:    cfg.MatchFields(),
		threshold: cfg.FuzzyThreshold(),
		bonus:     cfg.FuzzyBonus(),
	}
}

// Rerank scores each candidate index against the query and writes the trace
// into explanation. scores holds the base score of every catalog entry.
// Candidates are returned in the order of indices.
func (r Reranker) Rerank(query string, indices []int, scores []float64, catalog fund.Catalog, explanation *Explanation) []ScoredCandidate {
	q := strings.ToLower(query)
	candidates := make([]ScoredCandidate, 0, len(indices))

	for _, idx := range indices {
		record := catalog.At(idx)
		base := scores[idx]
		adjusted := base
		var matches []MatchEvent

		explanation.Add(fmt.Sprintf("Checking: %s", record.Name()))
		explanation.Add(fmt.Sprintf("Initial Score: %.2f", base))

		for _, field := range r.fields {
			value := record.Value(field)
			if value == "" {
				continue
			}

			ratio := PartialRatio(q, strings.ToLower(value))
			if float64(ratio) > r.threshold {
				adjusted += r.bonus
				matches = append(matches, NewMatchEvent(field, value, ratio))
				explanation.Add(fmt.Sprintf("✔ Matched %s: %s with fuzzy score %d", field, value, ratio))
				continue
			}
			explanation.Add(fmt.Sprintf("✘ %s: %s fuzzy score %d", field, value, ratio))
		}

		explanation.Add(fmt.Sprintf("Final Adjusted Score: %.2f", adjusted))
		candidates = append(candidates, NewScoredCandidate(idx, record, base, adjusted, matches))
	}

	return candidates
}
