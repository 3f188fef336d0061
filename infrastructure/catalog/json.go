package catalog

import (
	"bytes"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/helixml/fundmatch/domain/fund"
)

// ParseJSON reads a catalog written as an array of fund objects or as an
// object with a "funds" array.
func ParseJSON(source string, r io.Reader, opts ...Option) (fund.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "read json", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "catalog contains no funds", nil)
	}

	var raw []map[string]any
	if data[0] == '{' {
		var wrapped struct {
			Funds []map[string]any `json:"funds"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "malformed json", err)
		}
		raw = wrapped.Funds
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "malformed json", err)
	}

	rows := make([]map[string]string, len(raw))
	for i, obj := range raw {
		row := make(map[string]string, len(obj))
		for key, value := range obj {
			text, err := scalarText(value)
			if err != nil {
				return fund.Catalog{}, fund.NewCatalogLoadError(source, i+1, "malformed json", err)
			}
			row[key] = text
		}
		rows[i] = row
	}

	return newParseConfig(source, opts).buildCatalog(rows)
}

// scalarText renders a decoded JSON value as catalog text. Numbers and
// booleans keep their literal form; nested values stay encoded as JSON.
func scalarText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
