package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// TextSearch encodes the query and ranks every recipe by dot product against
// its precomputed text vector, descending. Ties keep corpus order. The
// matched-parts flags are informational only. An empty query returns an
// empty list.
func (e *Engine) TextSearch(ctx context.Context, query string, topK int) ([]RankedRecipe, error) {
	if query == "" {
		return []RankedRecipe{}, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVector, err := e.textEncoder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(e.textVectors))
	for i, v := range e.textVectors {
		scores[i] = scored{index: i, score: dot(queryVector, v)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})
	if len(scores) > topK {
		scores = scores[:topK]
	}

	results := make([]RankedRecipe, 0, len(scores))
	for _, s := range scores {
		recipe := &e.recipes[s.index]
		results = append(results, RankedRecipe{
			Recipe:       recipe,
			Similarity:   s.score,
			MatchedParts: matchedParts(recipe.Name, recipe.Description, recipe.Hashtags, query),
		})
	}
	return results, nil
}

// matchedParts reports which recipe fields contain the query as a
// case-sensitive substring.
func matchedParts(name, description string, hashtags []string, query string) []string {
	var parts []string
	if strings.Contains(name, query) {
		parts = append(parts, "name")
	}
	if strings.Contains(description, query) {
		parts = append(parts, "description")
	}
	for _, tag := range hashtags {
		if strings.Contains(tag, query) {
			parts = append(parts, "hashtags")
			break
		}
	}
	return parts
}
