package jsonapi

import (
	"net/url"

	"github.com/helixml/fundmatch/application/service"
	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	domainservice "github.com/helixml/fundmatch/domain/service"
)

// Resource types.
const (
	TypeFund    = "fund"
	TypeMatch   = "match"
	TypeCatalog = "catalog"
)

// FundAttributes represents fund attributes in JSON:API format.
type FundAttributes struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Sector      string `json:"sector,omitempty"`
	SubCategory string `json:"sub_category,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Description string `json:"description,omitempty"`
}

// SelectedFund is the winning fund of a match.
type SelectedFund struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// FieldMatch is a metadata field that earned a bonus.
type FieldMatch struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Ratio int    `json:"ratio"`
}

// Candidate is a re-ranked semantic candidate.
type Candidate struct {
	Name          string       `json:"name"`
	BaseScore     float64      `json:"base_score"`
	AdjustedScore float64      `json:"adjusted_score"`
	Matches       []FieldMatch `json:"matches"`
}

// MatchAttributes represents a match result in JSON:API format. Fund is nil
// and Message is set when no candidate cleared the confidence threshold.
type MatchAttributes struct {
	Query       string        `json:"query"`
	Matched     bool          `json:"matched"`
	Fund        *SelectedFund `json:"fund"`
	Message     string        `json:"message,omitempty"`
	Candidates  []Candidate   `json:"candidates"`
	Explanation []string      `json:"explanation"`
	Model       string        `json:"model"`
}

// CatalogAttributes describes the indexed catalog.
type CatalogAttributes struct {
	Source    string   `json:"source"`
	Funds     int      `json:"funds"`
	Model     string   `json:"model"`
	Dimension int      `json:"dimension"`
	IndexedAt DateTime `json:"indexed_at" swaggertype:"string" format:"date-time"`
}

// Serializer converts domain values to JSON:API resources.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// FundPath returns the API path of a fund.
func FundPath(name string) string {
	return "/api/v1/funds/" + url.PathEscape(name)
}

// FundAttributes converts a record to its attributes.
func (s *Serializer) FundAttributes(r fund.Record) FundAttributes {
	return FundAttributes{
		Name:        r.Name(),
		Type:        r.Type(),
		Category:    r.Category(),
		Sector:      r.Sector(),
		SubCategory: r.SubCategory(),
		Issuer:      r.Issuer(),
		Description: r.Description(),
	}
}

// FundResource converts a record to a JSON:API resource.
func (s *Serializer) FundResource(r fund.Record) *Resource {
	attrs := s.FundAttributes(r)
	return NewResource(TypeFund, r.Name(), &attrs).WithSelf(FundPath(r.Name()))
}

// FundResources converts every record of a catalog to JSON:API resources.
func (s *Serializer) FundResources(catalog fund.Catalog) []*Resource {
	resources := make([]*Resource, 0, catalog.Len())
	for _, r := range catalog.Records() {
		resources = append(resources, s.FundResource(r))
	}
	return resources
}

// MatchAttributes converts a pipeline result to its attributes.
func (s *Serializer) MatchAttributes(result service.Result) MatchAttributes {
	candidates := result.Candidates()
	attrs := MatchAttributes{
		Query:       result.Query(),
		Matched:     result.Matched(),
		Candidates:  make([]Candidate, 0, len(candidates)),
		Explanation: result.Explanation(),
		Model:       result.Model(),
	}

	switch outcome := result.Outcome().(type) {
	case search.MatchResult:
		attrs.Fund = &SelectedFund{
			Name:     outcome.Name(),
			Metadata: outcome.Metadata(),
			Score:    outcome.Score(),
		}
	case search.NoMatch:
		attrs.Message = outcome.Message()
	}

	for _, c := range candidates {
		events := c.Matches()
		matches := make([]FieldMatch, 0, len(events))
		for _, e := range events {
			matches = append(matches, FieldMatch{
				Field: e.Field().String(),
				Value: e.Value(),
				Ratio: e.Ratio(),
			})
		}
		attrs.Candidates = append(attrs.Candidates, Candidate{
			Name:          c.Record().Name(),
			BaseScore:     c.BaseScore(),
			AdjustedScore: c.AdjustedScore(),
			Matches:       matches,
		})
	}
	return attrs
}

// MatchResource converts a pipeline result to a JSON:API resource. The id is
// the request ID the match was served under.
func (s *Serializer) MatchResource(id string, result service.Result) *Resource {
	attrs := s.MatchAttributes(result)
	return NewResource(TypeMatch, id, &attrs)
}

// CatalogResource describes an index as a JSON:API resource.
func (s *Serializer) CatalogResource(idx *domainservice.Index) *Resource {
	catalog := idx.Catalog()
	return NewResource(TypeCatalog, catalog.Source(), &CatalogAttributes{
		Source:    catalog.Source(),
		Funds:     idx.Len(),
		Model:     idx.Model(),
		Dimension: idx.Dimension(),
		IndexedAt: DateTime(idx.BuiltAt()),
	})
}
