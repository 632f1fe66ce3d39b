package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/search"
	"github.com/pageza/recipesearch/internal/vectorstore"
	"github.com/pageza/recipesearch/internal/word2vec"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := &encoder.MockEncoder{Dim: 16}
	cfg := word2vec.DefaultConfig()
	cfg.Dim = 8
	cfg.Epochs = 2

	recipes := []corpus.Recipe{
		{ID: "1", Name: "蔥爆牛肉", Ingredients: []corpus.Ingredient{{Name: "牛肉", Amount: "200克"}}},
	}
	engine, err := search.NewEngine(context.Background(), recipes, mock, mock,
		vectorstore.NewMemoryStore(), search.WithModelConfig(cfg))
	require.NoError(t, err)

	return New(engine)
}

func TestRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/api/v1/search", "/api/v1/recipes/1"} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(t)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
