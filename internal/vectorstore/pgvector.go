package vectorstore

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// imageVector is the persisted row for one recipe cover embedding.
type imageVector struct {
	RecipeID    string          `gorm:"primaryKey;size:128"`
	Name        string          `gorm:"size:255"`
	Description string          `gorm:"type:text"`
	Embedding   pgvector.Vector `gorm:"type:vector(512)"`
}

func (imageVector) TableName() string {
	return "image_vectors"
}

// PgvectorStore persists image embeddings in Postgres with the pgvector
// extension. Nearest neighbors are computed with the cosine distance
// operator and converted to similarity, so ordering matches MemoryStore.
type PgvectorStore struct {
	db *gorm.DB
}

// NewPgvectorStore creates the store and runs its migration. On Postgres the
// vector extension is created first; other dialects fail, since only
// pgvector supports the distance operator this store relies on.
func NewPgvectorStore(db *gorm.DB) (*PgvectorStore, error) {
	if db.Dialector.Name() != "postgres" {
		return nil, fmt.Errorf("pgvector store requires postgres, got %s", db.Dialector.Name())
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to create vector extension: %w", err)
	}
	if err := db.AutoMigrate(&imageVector{}); err != nil {
		return nil, fmt.Errorf("failed to migrate image_vectors: %w", err)
	}
	return &PgvectorStore{db: db}, nil
}

// Insert upserts the vector for recipeID. Vectors are only ever rebuilt in
// full by the batch job, never patched in place.
func (s *PgvectorStore) Insert(ctx context.Context, recipeID string, vector []float32, meta Metadata) error {
	if recipeID == "" {
		return fmt.Errorf("recipe id must not be empty")
	}
	row := imageVector{
		RecipeID:    recipeID,
		Name:        meta.Name,
		Description: meta.Description,
		Embedding:   pgvector.NewVector(vector),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert image vector for %s: %w", recipeID, err)
	}
	return nil
}

// Query returns up to k neighbors by cosine similarity, descending.
func (s *PgvectorStore) Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}

	var rows []struct {
		RecipeID string
		Distance float64
	}
	vec := pgvector.NewVector(vector)
	err := s.db.WithContext(ctx).
		Raw(`SELECT recipe_id, embedding <=> ? AS distance
		     FROM image_vectors
		     ORDER BY embedding <=> ?
		     LIMIT ?`, vec, vec, k).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("image vector query failed: %w", err)
	}

	neighbors := make([]Neighbor, len(rows))
	for i, row := range rows {
		// pgvector's <=> is cosine distance: similarity = 1 - distance.
		neighbors[i] = Neighbor{RecipeID: row.RecipeID, Score: 1 - row.Distance}
	}
	return neighbors, nil
}

// Count returns the number of stored vectors.
func (s *PgvectorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&imageVector{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count image vectors: %w", err)
	}
	return count, nil
}
