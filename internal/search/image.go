package search

import (
	"context"
	"fmt"
)

// ImageSearch encodes the input image and queries the image vector store for
// the nearest stored recipe covers. Results follow the store's convention:
// cosine similarity, descending. Recipes whose ids are no longer in the
// corpus are skipped.
func (e *Engine) ImageSearch(ctx context.Context, image []byte, topK int) ([]RankedRecipe, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVector, err := e.imageEncoder.EmbedImage(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query image: %w", err)
	}

	neighbors, err := e.images.Query(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("image vector query failed: %w", err)
	}

	results := make([]RankedRecipe, 0, len(neighbors))
	for _, n := range neighbors {
		recipe := e.GetRecipe(n.RecipeID)
		if recipe == nil {
			continue
		}
		results = append(results, RankedRecipe{Recipe: recipe, Similarity: n.Score})
	}
	return results, nil
}

// MultimodalSearch scores the supplied modalities independently and returns
// both raw rankings; fusion is the caller's decision. Supplying neither
// modality is caller misuse and yields ErrNoQueryModality rather than an
// empty result.
func (e *Engine) MultimodalSearch(ctx context.Context, image []byte, text string, topK int) (*MultimodalResult, error) {
	if len(image) == 0 && text == "" {
		return nil, ErrNoQueryModality
	}

	result := &MultimodalResult{}
	if len(image) > 0 {
		imageResults, err := e.ImageSearch(ctx, image, topK)
		if err != nil {
			return nil, err
		}
		result.ImageResults = imageResults
	}
	if text != "" {
		textResults, err := e.TextSearch(ctx, text, topK)
		if err != nil {
			return nil, err
		}
		result.TextResults = textResults
	}
	return result, nil
}
