package persistence

import (
	"context"
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/helixml/fundmatch/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lookupChunk bounds the number of bind parameters in a single IN clause.
const lookupChunk = 500

// Float64Slice stores a vector as a JSON array in a text column.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	data, err := json.Marshal([]float64(f))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// EmbeddingCacheModel is one cached vector, keyed by model and text hash.
type EmbeddingCacheModel struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	ModelID   string       `gorm:"column:model_id;size:255;not null;uniqueIndex:idx_embedding_cache_key"`
	TextHash  string       `gorm:"column:text_hash;size:40;not null;uniqueIndex:idx_embedding_cache_key"`
	Dimension int          `gorm:"column:dimension;not null"`
	Vector    Float64Slice `gorm:"column:vector;type:text;not null"`
	CreatedAt time.Time    `gorm:"column:created_at"`
}

// TableName sets the table name.
func (EmbeddingCacheModel) TableName() string { return "embedding_cache" }

// HashText returns the cache key for text.
func HashText(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EmbeddingCacheStore reads and writes cached vectors.
type EmbeddingCacheStore struct {
	db database.Database
}

// NewEmbeddingCacheStore creates an EmbeddingCacheStore.
func NewEmbeddingCacheStore(db database.Database) EmbeddingCacheStore {
	return EmbeddingCacheStore{db: db}
}

// Get returns the cached vectors for texts under model, keyed by text. Texts
// without a cached vector are absent from the result.
func (s EmbeddingCacheStore) Get(ctx context.Context, model string, texts []string) (map[string][]float64, error) {
	found := make(map[string][]float64, len(texts))
	if len(texts) == 0 {
		return found, nil
	}

	byHash := make(map[string][]string, len(texts))
	hashes := make([]string, 0, len(texts))
	for _, text := range texts {
		h := HashText(text)
		if _, seen := byHash[h]; !seen {
			hashes = append(hashes, h)
		}
		byHash[h] = append(byHash[h], text)
	}

	for start := 0; start < len(hashes); start += lookupChunk {
		end := min(start+lookupChunk, len(hashes))

		var rows []EmbeddingCacheModel
		err := s.db.Session(ctx).
			Where("model_id = ? AND text_hash IN ?", model, hashes[start:end]).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("find cached embeddings: %w", err)
		}

		for _, row := range rows {
			for _, text := range byHash[row.TextHash] {
				found[text] = append([]float64(nil), row.Vector...)
			}
		}
	}

	return found, nil
}

// Put stores vectors for model, replacing any existing entry for the same
// text.
func (s EmbeddingCacheStore) Put(ctx context.Context, model string, vectors map[string][]float64) error {
	if len(vectors) == 0 {
		return nil
	}

	rows := make([]EmbeddingCacheModel, 0, len(vectors))
	seen := make(map[string]struct{}, len(vectors))
	now := time.Now().UTC()
	for text, vector := range vectors {
		h := HashText(text)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		rows = append(rows, EmbeddingCacheModel{
			ModelID:   model,
			TextHash:  h,
			Dimension: len(vector),
			Vector:    Float64Slice(vector),
			CreatedAt: now,
		})
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model_id"}, {Name: "text_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"dimension", "vector", "created_at"}),
		}).CreateInBatches(rows, lookupChunk).Error
		if err != nil {
			return fmt.Errorf("save cached embeddings: %w", err)
		}
		return nil
	})
}

// Count returns the number of vectors cached for model.
func (s EmbeddingCacheStore) Count(ctx context.Context, model string) (int64, error) {
	var count int64
	err := s.db.Session(ctx).
		Model(&EmbeddingCacheModel{}).
		Where("model_id = ?", model).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count cached embeddings: %w", err)
	}
	return count, nil
}

// Purge deletes every vector cached for model.
func (s EmbeddingCacheStore) Purge(ctx context.Context, model string) error {
	err := s.db.Session(ctx).
		Where("model_id = ?", model).
		Delete(&EmbeddingCacheModel{}).Error
	if err != nil {
		return fmt.Errorf("purge cached embeddings: %w", err)
	}
	return nil
}
