// Package vectorstore persists recipe image embeddings and answers
// nearest-neighbor queries.
//
// Both backends follow a single ranking convention: Query returns neighbors
// scored by cosine similarity, descending. The pgvector backend computes
// cosine distance in the database and converts it, so callers never see a
// distance-ascending ordering.
package vectorstore

import "context"

// Metadata is the small per-vector payload stored next to each embedding.
type Metadata struct {
	Name        string
	Description string
}

// Neighbor is one nearest-neighbor result. Score is cosine similarity in
// [-1, 1], higher is more similar.
type Neighbor struct {
	RecipeID string
	Score    float64
}

// Store is the image vector store contract. Population happens once in a
// batch job; queries are read-only afterwards.
type Store interface {
	Insert(ctx context.Context, recipeID string, vector []float32, meta Metadata) error
	Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error)
	Count(ctx context.Context) (int64, error)
}
