package search

import (
	"fmt"
	"math"

	"github.com/helixml/fundmatch/domain/fund"
)

// NoMatchMessage is the advisory returned when no candidate is confident
// enough.
const NoMatchMessage = "⚠ No strong match found. Try refining your query."

// Outcome is either a MatchResult or a NoMatch.
type Outcome interface {
	// Matched reports whether a fund was selected.
	Matched() bool

	// Summary is the closing line of the explanation. It names the winning
	// candidate and its score whenever there was one.
	Summary() string

	outcome()
}

// MatchResult is the selected fund.
type MatchResult struct {
	record fund.Record
	score  float64
}

// Name returns the fund name.
func (m MatchResult) Name() string { return m.record.Name() }

// Metadata returns the fund's metadata fields.
func (m MatchResult) Metadata() map[string]string { return m.record.Metadata() }

// Record returns the selected record.
func (m MatchResult) Record() fund.Record { return m.record }

// Score returns the adjusted score rounded to two decimals.
func (m MatchResult) Score() float64 { return m.score }

// Matched returns true.
func (m MatchResult) Matched() bool { return true }

// Summary names the winner and its score.
func (m MatchResult) Summary() string {
	return fmt.Sprintf("Best Match: %s Final Score: %.2f", m.record.Name(), m.score)
}

func (MatchResult) outcome() {}

// NoMatch reports that no candidate reached the confidence threshold. It keeps
// the best candidate that fell short, when there was one.
type NoMatch struct {
	message string
	best    *MatchResult
}

// Message returns the user-facing advisory.
func (n NoMatch) Message() string { return n.message }

// Best returns the highest-scoring candidate that missed the threshold. The
// second return is false when there were no candidates.
func (n NoMatch) Best() (MatchResult, bool) {
	if n.best == nil {
		return MatchResult{}, false
	}
	return *n.best, true
}

// Matched returns false.
func (n NoMatch) Matched() bool { return false }

// Summary names the best candidate and its score, or returns the advisory
// when there was no candidate.
func (n NoMatch) Summary() string {
	if n.best == nil {
		return n.message
	}
	return n.best.Summary()
}

func (NoMatch) outcome() {}

// Decide picks the candidate with the highest adjusted score, keeping the
// earliest on ties. A winner strictly below threshold, or an empty list,
// yields NoMatch.
func Decide(candidates []ScoredCandidate, threshold float64) Outcome {
	if len(candidates) == 0 {
		return NoMatch{message: NoMatchMessage}
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].adjusted > candidates[best].adjusted {
			best = i
		}
	}

	winner := candidates[best]
	result := MatchResult{
		record: winner.record,
		score:  roundScore(winner.adjusted),
	}
	if winner.adjusted < threshold {
		return NoMatch{message: NoMatchMessage, best: &result}
	}
	return result
}

// Conclude appends the closing lines for an outcome: the advisory for a
// NoMatch, then the summary naming the best candidate.
func (e *Explanation) Conclude(o Outcome) {
	if n, ok := o.(NoMatch); ok && n.best != nil {
		e.Add(n.message)
	}
	e.Add(o.Summary())
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
