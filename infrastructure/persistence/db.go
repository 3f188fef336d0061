// Package persistence stores computed embeddings so restarts and reloads
// only pay for texts the model has not seen.
package persistence

import (
	"fmt"

	"github.com/helixml/fundmatch/internal/database"
)

// AutoMigrate creates or updates every table this package owns.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(&EmbeddingCacheModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
