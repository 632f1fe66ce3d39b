package vectorstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewPgvectorStoreRejectsNonPostgres(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	_, err = NewPgvectorStore(db)
	assert.Error(t, err)
}

// setupPgvector starts a throwaway pgvector container. Skipped unless
// RUN_DB_TESTS is set, since it needs a Docker daemon.
func setupPgvector(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("RUN_DB_TESTS") == "" {
		t.Skip("set RUN_DB_TESTS to run pgvector integration tests")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test sslmode=disable", host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestPgvectorStoreRoundTrip(t *testing.T) {
	db := setupPgvector(t)
	store, err := NewPgvectorStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	vec := make([]float32, 512)
	vec[0] = 1
	other := make([]float32, 512)
	other[1] = 1

	require.NoError(t, store.Insert(ctx, "1", vec, Metadata{Name: "蔥爆牛肉", Description: "下飯"}))
	require.NoError(t, store.Insert(ctx, "2", other, Metadata{Name: "番茄炒蛋"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := store.Query(ctx, vec, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].RecipeID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-4)
	assert.Greater(t, got[0].Score, got[1].Score)

	// Upsert replaces the stored vector for the same id.
	require.NoError(t, store.Insert(ctx, "1", other, Metadata{Name: "蔥爆牛肉"}))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
