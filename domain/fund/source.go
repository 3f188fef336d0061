package fund

import "context"

// Source loads a catalog from somewhere: a file, a literal, a database.
type Source interface {
	// Load reads and validates the catalog. Failures are CatalogLoadErrors.
	Load(ctx context.Context) (Catalog, error)

	// Describe returns a short human-readable origin, such as a path.
	Describe() string
}
