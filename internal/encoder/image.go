package encoder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageEncoderConfig configures the image-embedding client.
type ImageEncoderConfig struct {
	// URL of the image embedding service, e.g. a served CLIP model.
	URL string
	// Timeout for a single encode call. Default 60s.
	Timeout time.Duration
}

// CLIPEncoder is an ImageEncoder backed by an HTTP image-embedding service.
// The service accepts {"image": "<base64>"} and responds with
// {"embedding": [..]}.
type CLIPEncoder struct {
	url    string
	client *http.Client
}

// NewCLIPEncoder creates the image embedding client.
func NewCLIPEncoder(cfg ImageEncoderConfig) (*CLIPEncoder, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("image encoder URL must be set")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &CLIPEncoder{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type imageEmbedRequest struct {
	Image string `json:"image"`
}

type imageEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// EmbedImage sends the image bytes to the embedding service and returns the
// resulting vector.
func (e *CLIPEncoder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	body, err := json.Marshal(imageEmbedRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image encoder request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image encoder returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed imageEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse encoder response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("image encoder error: %s", parsed.Error)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("image encoder returned empty embedding")
	}
	return parsed.Embedding, nil
}
