// Package encoder wraps the black-box embedding models. The engine only
// depends on these interfaces; concrete clients talk to external inference
// services.
package encoder

import "context"

// TextEncoder embeds text into a fixed-dimension, L2-normalized vector space.
type TextEncoder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ImageEncoder embeds raw image bytes into a fixed-dimension, L2-normalized
// vector space shared with the image vector store.
type ImageEncoder interface {
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}
