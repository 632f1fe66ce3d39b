package search

import "github.com/pageza/recipesearch/internal/corpus"

// DefaultTopK is the result-list size used when a caller passes topK <= 0.
const DefaultTopK = 10

// RankedRecipe wraps an immutable corpus recipe with the scores computed for
// one query. Scores never leak into the recipe itself.
type RankedRecipe struct {
	Recipe     *corpus.Recipe `json:"recipe"`
	Similarity float64        `json:"similarity"`

	// MatchedParts lists which of name/description/hashtags contain the raw
	// query as a substring. Text search only; informational, never affects
	// ranking.
	MatchedParts []string `json:"matched_parts,omitempty"`

	// MatchingIngredients are recipe ingredients whose raw name contains any
	// query ingredient as a literal substring. Ingredient search only.
	MatchingIngredients []corpus.Ingredient `json:"matching_ingredients,omitempty"`
	TotalIngredients    int                 `json:"total_ingredients,omitempty"`
}

// RecipeRef is a compact recipe reference inside a similar-ingredient group.
type RecipeRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// SimilarIngredientGroup is one neighbor token of a queried ingredient plus
// the recipes using it.
type SimilarIngredientGroup struct {
	Ingredient string      `json:"ingredient"`
	Similarity float64     `json:"similarity"`
	Recipes    []RecipeRef `json:"recipes"`
}

// MultimodalResult carries the independent per-modality rankings; fusion
// policy is left to the caller.
type MultimodalResult struct {
	ImageResults []RankedRecipe `json:"image_results,omitempty"`
	TextResults  []RankedRecipe `json:"text_results,omitempty"`
}
