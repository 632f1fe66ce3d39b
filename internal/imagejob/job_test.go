package imagejob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/vectorstore"
)

// newImageServer serves fake cover bytes for /ok paths and errors for /bad.
func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/bad") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("cover-bytes-" + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunStoresVectorsAndSkipsFailures(t *testing.T) {
	server := newImageServer(t)
	recipes := []corpus.Recipe{
		{ID: "1", Name: "蔥爆牛肉", Image: server.URL + "/ok/1.jpg"},
		{ID: "2", Name: "番茄炒蛋", Image: server.URL + "/bad/2.jpg"},
		{ID: "3", Name: "蔥油餅"}, // no cover
		{ID: "4", Name: "滑蛋牛肉", Image: server.URL + "/ok/4.jpg"},
	}

	store := vectorstore.NewMemoryStore()
	job, err := New(recipes, &encoder.MockEncoder{}, store, WithRetries(1))
	require.NoError(t, err)

	stats, err := job.Run(context.Background())
	require.NoError(t, err, "a failing recipe must not abort the batch")

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Stored)
	assert.Equal(t, 1, stats.Skipped)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRunSkipsEncodeFailures(t *testing.T) {
	server := newImageServer(t)
	recipes := []corpus.Recipe{
		{ID: "1", Name: "蔥爆牛肉", Image: server.URL + "/ok/1.jpg"},
	}

	enc := &encoder.MockEncoder{
		EmbedImageFunc: func(ctx context.Context, image []byte) ([]float32, error) {
			return nil, assert.AnError
		},
	}
	store := vectorstore.NewMemoryStore()
	job, err := New(recipes, enc, store, WithRetries(1))
	require.NoError(t, err)

	stats, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Stored)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	server := newImageServer(t)
	recipes := []corpus.Recipe{
		{ID: "1", Image: server.URL + "/ok/1.jpg"},
	}

	job, err := New(recipes, &encoder.MockEncoder{}, vectorstore.NewMemoryStore())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = job.Run(ctx)
	assert.Error(t, err)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, nil, vectorstore.NewMemoryStore())
	assert.Error(t, err)
	_, err = New(nil, &encoder.MockEncoder{}, nil)
	assert.Error(t, err)
}

type recordingMirror struct {
	uploads []string
}

func (m *recordingMirror) UploadImage(ctx context.Context, imageData []byte, fileName string) (string, error) {
	m.uploads = append(m.uploads, fileName)
	return "https://mirror/" + fileName, nil
}

func TestRunMirrorsFetchedCovers(t *testing.T) {
	server := newImageServer(t)
	recipes := []corpus.Recipe{
		{ID: "1", Name: "蔥爆牛肉", Image: server.URL + "/ok/1.jpg"},
	}

	mirror := &recordingMirror{}
	job, err := New(recipes, &encoder.MockEncoder{}, vectorstore.NewMemoryStore(),
		WithMirror(mirror), WithRetries(1))
	require.NoError(t, err)

	_, err = job.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, mirror.uploads, 1)
	assert.Equal(t, "recipe-covers/1.jpg", mirror.uploads[0])
}
