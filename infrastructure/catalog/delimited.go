package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/helixml/fundmatch/domain/fund"
)

// ParseDelimited reads a header-first delimited catalog. comma is ',' for CSV
// and '\t' for TSV. Columns it does not recognise are dropped. Line numbers
// in errors are file lines.
func ParseDelimited(source string, r io.Reader, comma rune, opts ...Option) (fund.Catalog, error) {
	cfg := newParseConfig(source, opts)
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 0, "catalog contains no funds", nil)
	}
	if err != nil {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 1, "read header", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		column, ok := cfg.resolveColumn(h)
		if !ok {
			continue
		}
		if slices.Contains(columns[:i], column) {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, 1,
				fmt.Sprintf("duplicate column for %s", column), nil)
		}
		columns[i] = column
	}
	if !slices.Contains(columns, nameColumn) {
		return fund.Catalog{}, fund.NewCatalogLoadError(source, 1, "missing name column", nil)
	}

	var records []fund.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return fund.Catalog{}, fund.NewCatalogLoadError(source, line, "malformed row", err)
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		var name string
		values := make(map[fund.Field]string, len(row))
		for i, value := range row {
			switch columns[i] {
			case "":
			case nameColumn:
				name = value
			default:
				values[fund.Field(columns[i])] = value
			}
		}

		record, err := fund.NewRecord(name, values)
		if err != nil {
			return fund.Catalog{}, fund.NewCatalogLoadError(source, line, "invalid fund", err)
		}
		records = append(records, record)
	}

	catalog, err := fund.NewCatalog(source, records)
	if err != nil {
		return fund.Catalog{}, err
	}
	cfg.reportIgnored()
	return catalog, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
