package encoder

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextEncoderConfig configures the sentence-embedding client.
type TextEncoderConfig struct {
	// BaseURL of an OpenAI-compatible embeddings endpoint.
	BaseURL string
	// Model is the embedding model name.
	Model string
	// APIKey may be empty for local services that skip authentication.
	APIKey string
}

// SentenceEncoder is a TextEncoder backed by an OpenAI-compatible embeddings
// API. Requests are plain HTTP, so the encoder may be called concurrently.
type SentenceEncoder struct {
	embedder embeddings.Embedder
}

// NewSentenceEncoder creates the embeddings client. An unreachable or
// misconfigured encoder is a fatal startup condition for the engine.
func NewSentenceEncoder(cfg TextEncoderConfig) (*SentenceEncoder, error) {
	token := cfg.APIKey
	if token == "" {
		// Local OpenAI-compatible services ignore the token but the client
		// requires one.
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &SentenceEncoder{embedder: embedder}, nil
}

// EmbedText embeds a single string.
func (e *SentenceEncoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("text embedding failed: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("encoder returned no embedding")
	}
	return vecs[0], nil
}

// EmbedTexts embeds a batch of strings, preserving order.
func (e *SentenceEncoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch text embedding failed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("encoder returned %d embeddings for %d texts", len(vecs), len(texts))
	}
	return vecs, nil
}
