package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. It backs tests and deployments without
// a database; contents do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	vectors map[string][]float32
	meta    map[string]Metadata
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vectors: make(map[string][]float32),
		meta:    make(map[string]Metadata),
	}
}

// Insert stores or replaces the vector for recipeID.
func (s *MemoryStore) Insert(ctx context.Context, recipeID string, vector []float32, meta Metadata) error {
	if recipeID == "" {
		return fmt.Errorf("recipe id must not be empty")
	}
	if len(vector) == 0 {
		return fmt.Errorf("vector must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vectors[recipeID]; !exists {
		s.order = append(s.order, recipeID)
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)
	s.vectors[recipeID] = stored
	s.meta[recipeID] = meta
	return nil
}

// Query returns up to k neighbors by cosine similarity, descending. Ties
// keep insertion order.
func (s *MemoryStore) Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	neighbors := make([]Neighbor, 0, len(s.order))
	for _, id := range s.order {
		neighbors = append(neighbors, Neighbor{
			RecipeID: id,
			Score:    cosine(vector, s.vectors[id]),
		})
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Score > neighbors[b].Score
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

// Count returns the number of stored vectors.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

// cosine computes cosine similarity between two vectors. Mismatched or zero
// vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
