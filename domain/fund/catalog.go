package fund

import "fmt"

// Catalog is an ordered, immutable set of fund records with unique names.
type Catalog struct {
	source  string
	records []Record
	byName  map[string]int
}

// NewCatalog creates a Catalog from records, preserving their order. It fails
// with a CatalogLoadError when the list is empty or a name repeats.
func NewCatalog(source string, records []Record) (Catalog, error) {
	if len(records) == 0 {
		return Catalog{}, NewCatalogLoadError(source, 0, "catalog contains no funds", nil)
	}

	byName := make(map[string]int, len(records))
	for i, r := range records {
		if r.Name() == "" {
			return Catalog{}, NewCatalogLoadError(source, i+1, "fund has no name", ErrEmptyName)
		}
		if prev, ok := byName[r.Name()]; ok {
			return Catalog{}, NewCatalogLoadError(source, i+1,
				fmt.Sprintf("duplicate fund name %q (first seen at record %d)", r.Name(), prev+1), nil)
		}
		byName[r.Name()] = i
	}

	recs := make([]Record, len(records))
	copy(recs, records)

	return Catalog{
		source:  source,
		records: recs,
		byName:  byName,
	}, nil
}

// Source describes where the catalog was loaded from.
func (c Catalog) Source() string { return c.source }

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }

// At returns the record at position i.
func (c Catalog) At(i int) Record { return c.records[i] }

// Records returns a copy of the records in catalog order.
func (c Catalog) Records() []Record {
	recs := make([]Record, len(c.records))
	copy(recs, c.records)
	return recs
}

// Find looks up a record by exact name.
func (c Catalog) Find(name string) (Record, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Texts returns the catalog text of every record in order.
func (c Catalog) Texts() []string {
	texts := make([]string, len(c.records))
	for i, r := range c.records {
		texts[i] = r.Text()
	}
	return texts
}
