package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertAndCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "1", []float32{1, 0}, Metadata{Name: "蔥爆牛肉"}))
	require.NoError(t, s.Insert(ctx, "2", []float32{0, 1}, Metadata{Name: "番茄炒蛋"}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Re-inserting the same id replaces, not duplicates.
	require.NoError(t, s.Insert(ctx, "1", []float32{0.5, 0.5}, Metadata{}))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, s.Insert(ctx, "", []float32{1}, Metadata{}))
	assert.Error(t, s.Insert(ctx, "1", nil, Metadata{}))
}

func TestMemoryStoreQueryRanksBySimilarityDescending(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "east", []float32{1, 0}, Metadata{}))
	require.NoError(t, s.Insert(ctx, "north", []float32{0, 1}, Metadata{}))
	require.NoError(t, s.Insert(ctx, "northeast", []float32{1, 1}, Metadata{}))

	got, err := s.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "east", got[0].RecipeID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestMemoryStoreQueryLimitsToK(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Insert(ctx, id, []float32{1, float32(len(id))}, Metadata{}))
	}

	got, err := s.Query(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryStoreQueryEmptyStore(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStoreSelfQueryRanksFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	stored := []float32{0.3, -0.2, 0.9}
	require.NoError(t, s.Insert(ctx, "self", stored, Metadata{}))
	require.NoError(t, s.Insert(ctx, "other", []float32{-0.4, 0.8, 0.1}, Metadata{}))

	got, err := s.Query(ctx, stored, 2)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "self", got[0].RecipeID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
}
