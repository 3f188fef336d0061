// Package fund provides the fund catalog domain: records, their fixed
// metadata schema and the catalog that holds them.
package fund

import (
	"fmt"
	"strings"
)

// Field identifies a metadata attribute of a fund record.
type Field string

// Metadata fields in canonical order.
const (
	FieldType        Field = "type"
	FieldCategory    Field = "category"
	FieldSector      Field = "sector"
	FieldSubCategory Field = "sub_category"
	FieldIssuer      Field = "issuer"
	FieldDescription Field = "description"
)

// Fields returns every metadata field in the order used to build a record's
// catalog text.
func Fields() []Field {
	return []Field{
		FieldType,
		FieldCategory,
		FieldSector,
		FieldSubCategory,
		FieldIssuer,
		FieldDescription,
	}
}

// String returns the field name.
func (f Field) String() string { return string(f) }

// Valid reports whether the field belongs to the schema.
func (f Field) Valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseField converts a field name into a Field, rejecting names outside the
// schema.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown fund field %q", name)
	}
	return f, nil
}

// ParseFields converts a list of field names, rejecting duplicates.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	seen := make(map[Field]struct{}, len(names))
	for _, name := range names {
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[f]; ok {
			return nil, fmt.Errorf("duplicate fund field %q", name)
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	return fields, nil
}
