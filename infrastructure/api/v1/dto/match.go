// Package dto holds request bodies accepted by the v1 API.
package dto

// MatchAttributes represents match request attributes.
type MatchAttributes struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// MatchData represents match request data in JSON:API format.
type MatchData struct {
	Type       string          `json:"type"`
	Attributes MatchAttributes `json:"attributes"`
}

// MatchRequest is the body of POST /api/v1/match. Both the JSON:API form
// {"data":{"type":"match","attributes":{...}}} and the flat form
// {"query":"...","top_k":3} are accepted.
type MatchRequest struct {
	Data *MatchData `json:"data,omitempty"`

	Query string `json:"query,omitempty"`
	TopK  *int   `json:"top_k,omitempty"`
}

// Attributes returns the request attributes from whichever form was sent.
func (r MatchRequest) Attributes() MatchAttributes {
	if r.Data != nil {
		return r.Data.Attributes
	}
	return MatchAttributes{Query: r.Query, TopK: r.TopK}
}
