package catalog

import (
	"context"

	"github.com/helixml/fundmatch/domain/fund"
)

// BuiltinSourceName identifies the compiled-in catalog.
const BuiltinSourceName = "builtin"

var builtinFunds = []map[string]string{
	{
		"name":        "Axis Long Term Equity Fund",
		"type":        "ELSS",
		"category":    "Tax Saving",
		"sector":      "Multi-cap",
		"description": "Offers tax benefits under section 80C",
	},
	{
		"name":        "ICICI Tax Saving Plan",
		"type":        "ELSS",
		"category":    "Tax Saving",
		"sector":      "Large-cap",
		"description": "Save taxes under 80C with ELSS",
	},
	{
		"name":        "HDFC Balanced Advantage Fund",
		"type":        "Balanced",
		"category":    "Hybrid",
		"sector":      "Balanced",
		"description": "Auto-adjusts equity-debt mix",
	},
}

// BuiltinSource serves the three sample funds used when no catalog file is
// configured.
type BuiltinSource struct{}

// NewBuiltinSource creates a BuiltinSource.
func NewBuiltinSource() BuiltinSource { return BuiltinSource{} }

// Load returns the sample catalog.
func (BuiltinSource) Load(_ context.Context) (fund.Catalog, error) {
	return newParseConfig(BuiltinSourceName, nil).buildCatalog(builtinFunds)
}

// Describe names the source.
func (BuiltinSource) Describe() string { return BuiltinSourceName }

var _ fund.Source = BuiltinSource{}
