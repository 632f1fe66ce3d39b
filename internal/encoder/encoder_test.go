package encoder

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEncoderDeterministic(t *testing.T) {
	m := &MockEncoder{}

	a, err := m.EmbedText(context.Background(), "蔥爆牛肉")
	require.NoError(t, err)
	b, err := m.EmbedText(context.Background(), "蔥爆牛肉")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := m.EmbedText(context.Background(), "番茄炒蛋")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestMockEncoderUnitNorm(t *testing.T) {
	m := &MockEncoder{Dim: 32}
	v, err := m.EmbedImage(context.Background(), []byte{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, v, 32)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestCLIPEncoderEmbedImage(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Image)
		_ = json.NewEncoder(w).Encode(imageEmbedResponse{Embedding: want})
	}))
	defer server.Close()

	enc, err := NewCLIPEncoder(ImageEncoderConfig{URL: server.URL})
	require.NoError(t, err)

	got, err := enc.EmbedImage(context.Background(), []byte("fake-image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCLIPEncoderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	enc, err := NewCLIPEncoder(ImageEncoderConfig{URL: server.URL})
	require.NoError(t, err)

	_, err = enc.EmbedImage(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestCLIPEncoderEmptyImage(t *testing.T) {
	enc, err := NewCLIPEncoder(ImageEncoderConfig{URL: "http://localhost:9"})
	require.NoError(t, err)

	_, err = enc.EmbedImage(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewCLIPEncoderRequiresURL(t *testing.T) {
	_, err := NewCLIPEncoder(ImageEncoderConfig{})
	assert.Error(t, err)
}
