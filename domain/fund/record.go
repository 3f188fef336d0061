package fund

import (
	"errors"
	"strings"
)

// ErrEmptyName indicates a record was created without a name.
var ErrEmptyName = errors.New("fund name cannot be empty")

// Record is an immutable fund entry identified by its name.
type Record struct {
	name   string
	values map[Field]string
	text   string
}

// NewRecord creates a Record. Values are trimmed and empty values are
// dropped. The catalog text is computed once here.
func NewRecord(name string, values map[Field]string) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, ErrEmptyName
	}

	cleaned := make(map[Field]string, len(values))
	for field, value := range values {
		if !field.Valid() {
			return Record{}, errors.New("unknown fund field " + field.String())
		}
		value = strings.TrimSpace(value)
		if value != "" {
			cleaned[field] = value
		}
	}

	r := Record{name: name, values: cleaned}
	r.text = TextRepresentation(r)
	return r, nil
}

// Name returns the fund name.
func (r Record) Name() string { return r.name }

// Value returns the value of a metadata field, or "" when unset.
func (r Record) Value(field Field) string { return r.values[field] }

// Type returns the fund type.
func (r Record) Type() string { return r.values[FieldType] }

// Category returns the fund category.
func (r Record) Category() string { return r.values[FieldCategory] }

// Sector returns the fund sector.
func (r Record) Sector() string { return r.values[FieldSector] }

// SubCategory returns the fund sub-category.
func (r Record) SubCategory() string { return r.values[FieldSubCategory] }

// Issuer returns the fund issuer (asset management company).
func (r Record) Issuer() string { return r.values[FieldIssuer] }

// Description returns the free-text description.
func (r Record) Description() string { return r.values[FieldDescription] }

// Metadata returns the set fields keyed by field name.
func (r Record) Metadata() map[string]string {
	out := make(map[string]string, len(r.values))
	for field, value := range r.values {
		out[field.String()] = value
	}
	return out
}

// Text returns the cached catalog text used as embedding input.
func (r Record) Text() string { return r.text }

// TextRepresentation concatenates the name followed by type, category,
// sector, sub_category, issuer and description. Empty fields are skipped and
// parts are joined by a single space, so the same record always yields the
// same text.
func TextRepresentation(r Record) string {
	parts := make([]string, 0, len(r.values)+1)
	parts = append(parts, r.name)
	for _, field := range Fields() {
		if v := r.values[field]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
