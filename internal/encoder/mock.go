package encoder

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEncoder is a deterministic test double for both encoder interfaces.
// The same input always produces the same unit vector, and distinct inputs
// almost always produce distinct vectors, which is enough for ranking tests.
type MockEncoder struct {
	// Dim of the generated vectors. Default 64.
	Dim int

	// EmbedTextFunc overrides EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedImageFunc overrides EmbedImage if set.
	EmbedImageFunc func(ctx context.Context, image []byte) ([]float32, error)
}

func (m *MockEncoder) dim() int {
	if m.Dim > 0 {
		return m.Dim
	}
	return 64
}

// EmbedText returns a deterministic unit vector derived from the text.
func (m *MockEncoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return DeterministicVector([]byte(text), m.dim()), nil
}

// EmbedTexts returns deterministic unit vectors for each text.
func (m *MockEncoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

// EmbedImage returns a deterministic unit vector derived from the image bytes.
func (m *MockEncoder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if m.EmbedImageFunc != nil {
		return m.EmbedImageFunc(ctx, image)
	}
	return DeterministicVector(image, m.dim()), nil
}

// DeterministicVector hashes input into a pseudo-random unit vector.
func DeterministicVector(input []byte, dim int) []float32 {
	h := fnv.New32a()
	h.Write(input)
	seed := h.Sum32()

	vec := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%2000)/1000.0 - 1.0
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := float32(1 / math.Sqrt(sum))
		for i := range vec {
			vec[i] *= norm
		}
	}
	return vec
}
