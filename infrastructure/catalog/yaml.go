package catalog

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/helixml/fundmatch/domain/fund"
)

// ParseYAML reads a catalog written either as a top-level list of funds or as
// a mapping with a "funds" list. Keys use the same aliases as CSV headers.
func ParseYAML(source string, r io.Reader, opts ...Option) (fund.Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "catalog contains no funds", nil)
		}
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "malformed yaml", err)
	}
	if len(doc.Content) == 0 {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "catalog contains no funds", nil)
	}

	root := doc.Content[0]
	var rows []map[string]string
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&rows); err != nil {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, root.Line, "malformed fund list", err)
		}
	case yaml.MappingNode:
		var wrapped struct {
			Funds []map[string]string `yaml:"funds"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, root.Line, "malformed fund list", err)
		}
		rows = wrapped.Funds
	default:
		return fund.Catalog{}, fund.NewCatalogLoadError(source, root.Line,
			fmt.Sprintf("expected a list of funds, got %s", kindName(root.Kind)), nil)
	}

	return newParseConfig(source, opts).buildCatalog(rows)
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unsupported node"
	}
}
