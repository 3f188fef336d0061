// Package catalog loads fund catalogs from delimited, YAML and JSON files,
// or from the compiled-in sample set.
package catalog

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/helixml/fundmatch/domain/fund"
)

// nameColumn is the column key that holds the fund name.
const nameColumn = "name"

// columnAliases maps accepted header spellings to canonical columns.
var columnAliases = map[string]string{
	"name":         nameColumn,
	"scheme_name":  nameColumn,
	"fund_name":    nameColumn,
	"type":         string(fund.FieldType),
	"fund_type":    string(fund.FieldType),
	"category":     string(fund.FieldCategory),
	"sector":       string(fund.FieldSector),
	"sub_category": string(fund.FieldSubCategory),
	"subcategory":  string(fund.FieldSubCategory),
	"sub-category": string(fund.FieldSubCategory),
	"issuer":       string(fund.FieldIssuer),
	"amc":          string(fund.FieldIssuer),
	"amc_name":     string(fund.FieldIssuer),
	"description":  string(fund.FieldDescription),
	"desc":         string(fund.FieldDescription),
}

// Option configures catalog parsing.
type Option func(*parseConfig)

// WithLogger sets the logger that reports ignored columns.
func WithLogger(logger *slog.Logger) Option {
	return func(c *parseConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// parseConfig carries one load's settings and the columns it dropped.
type parseConfig struct {
	source  string
	logger  *slog.Logger
	ignored []string
}

func newParseConfig(source string, opts []Option) *parseConfig {
	c := &parseConfig{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolveColumn returns the canonical column for a header. Unrecognised
// headers report false and are remembered once.
func (c *parseConfig) resolveColumn(header string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.TrimPrefix(key, "\ufeff")
	column, ok := columnAliases[key]
	if !ok {
		name := strings.TrimSpace(header)
		if !slices.Contains(c.ignored, name) {
			c.ignored = append(c.ignored, name)
		}
		return "", false
	}
	return column, true
}

// reportIgnored logs the dropped columns, if any.
func (c *parseConfig) reportIgnored() {
	if len(c.ignored) == 0 {
		return
	}
	c.logger.Warn("ignoring unrecognised catalog columns",
		slog.String("source", c.source),
		slog.Any("columns", c.ignored),
	)
}

// buildRecord turns one row keyed by raw header names into a fund.Record.
func (c *parseConfig) buildRecord(line int, row map[string]string) (fund.Record, error) {
	var name string
	values := make(map[fund.Field]string, len(row))
	seen := make(map[string]string, len(row))

	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	slices.Sort(headers)

	for _, header := range headers {
		column, ok := c.resolveColumn(header)
		if !ok {
			continue
		}
		if prev, dup := seen[column]; dup {
			return fund.Record{}, fund.NewCatalogLoadError(c.source, line,
				fmt.Sprintf("columns %q and %q both map to %s", prev, header, column), nil)
		}
		seen[column] = header

		value := row[header]
		if column == nameColumn {
			name = value
			continue
		}
		values[fund.Field(column)] = value
	}

	record, err := fund.NewRecord(name, values)
	if err != nil {
		return fund.Record{}, fund.NewCatalogLoadError(c.source, line, "invalid fund", err)
	}
	return record, nil
}

// buildCatalog converts decoded rows into a validated catalog. Row numbers in
// errors are 1-based.
func (c *parseConfig) buildCatalog(rows []map[string]string) (fund.Catalog, error) {
	records := make([]fund.Record, 0, len(rows))
	for i, row := range rows {
		record, err := c.buildRecord(i+1, row)
		if err != nil {
			return fund.Catalog{}, err
		}
		records = append(records, record)
	}
	catalog, err := fund.NewCatalog(c.source, records)
	if err != nil {
		return fund.Catalog{}, err
	}
	c.reportIgnored()
	return catalog, nil
}
