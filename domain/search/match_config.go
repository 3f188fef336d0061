package search

import (
	"fmt"

	"github.com/helixml/fundmatch/domain/fund"
)

// Default tuning values for the match pipeline.
const (
	DefaultFuzzyThreshold      = 70.0
	DefaultFuzzyBonus          = 0.05
	DefaultConfidenceThreshold = 0.3
	DefaultTopK                = 3
)

// DefaultMatchFields returns the metadata fields compared against the query
// when none are configured.
func DefaultMatchFields() []fund.Field {
	return []fund.Field{fund.FieldType, fund.FieldCategory, fund.FieldSector}
}

// MatchConfig holds the tuning levers of the pipeline.
type MatchConfig struct {
	fuzzyThreshold      float64
	fuzzyBonus          float64
	matchFields         []fund.Field
	confidenceThreshold float64
	topK                int
}

// MatchConfigOption configures a MatchConfig.
type MatchConfigOption func(*MatchConfig)

// WithFuzzyThreshold sets the ratio a field must exceed to earn a bonus.
func WithFuzzyThreshold(v float64) MatchConfigOption {
	return func(c *MatchConfig) { c.fuzzyThreshold = v }
}

// WithFuzzyBonus sets the score added per matched field.
func WithFuzzyBonus(v float64) MatchConfigOption {
	return func(c *MatchConfig) { c.fuzzyBonus = v }
}

// WithMatchFields sets the metadata fields compared against the query.
func WithMatchFields(fields ...fund.Field) MatchConfigOption {
	return func(c *MatchConfig) {
		c.matchFields = make([]fund.Field, len(fields))
		copy(c.matchFields, fields)
	}
}

// WithConfidenceThreshold sets the minimum adjusted score for a match.
func WithConfidenceThreshold(v float64) MatchConfigOption {
	return func(c *MatchConfig) { c.confidenceThreshold = v }
}

// WithDefaultTopK sets how many candidates are re-ranked per query.
func WithDefaultTopK(k int) MatchConfigOption {
	return func(c *MatchConfig) { c.topK = k }
}

// DefaultMatchConfig returns the default configuration.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		fuzzyThreshold:      DefaultFuzzyThreshold,
		fuzzyBonus:          DefaultFuzzyBonus,
		matchFields:         DefaultMatchFields(),
		confidenceThreshold: DefaultConfidenceThreshold,
		topK:                DefaultTopK,
	}
}

// NewMatchConfig applies options over the defaults and validates the result.
func NewMatchConfig(opts ...MatchConfigOption) (MatchConfig, error) {
	cfg := DefaultMatchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return MatchConfig{}, err
	}
	return cfg, nil
}

// Validate checks every value is within range.
func (c MatchConfig) Validate() error {
	if c.fuzzyThreshold < 0 || c.fuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold must be in [0,100], got %v", c.fuzzyThreshold)
	}
	if c.fuzzyBonus < 0 {
		return fmt.Errorf("fuzzy bonus must not be negative, got %v", c.fuzzyBonus)
	}
	if c.topK < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.topK)
	}
	seen := make(map[fund.Field]struct{}, len(c.matchFields))
	for _, f := range c.matchFields {
		if !f.Valid() {
			return fmt.Errorf("unknown match field %q", f)
		}
		if _, ok := seen[f]; ok {
			return fmt.Errorf("duplicate match field %q", f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

// FuzzyThreshold returns the fuzzy ratio threshold.
func (c MatchConfig) FuzzyThreshold() float64 { return c.fuzzyThreshold }

// FuzzyBonus returns the per-field bonus.
func (c MatchConfig) FuzzyBonus() float64 { return c.fuzzyBonus }

// MatchFields returns a copy of the compared fields.
func (c MatchConfig) MatchFields() []fund.Field {
	fields := make([]fund.Field, len(c.matchFields))
	copy(fields, c.matchFields)
	return fields
}

// ConfidenceThreshold returns the minimum adjusted score for a match.
func (c MatchConfig) ConfidenceThreshold() float64 { return c.confidenceThreshold }

// TopK returns the default candidate count.
func (c MatchConfig) TopK() int { return c.topK }
