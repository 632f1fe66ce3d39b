package search

import (
	"context"
	"sort"
	"strings"

	"github.com/pageza/recipesearch/internal/corpus"
)

// similarIngredientRecipeCap bounds how many inverted-index entries each
// neighbor token contributes. The cap is explicit: entries beyond the first
// five (corpus order) are never resolved.
const similarIngredientRecipeCap = 5

// IngredientSearch ranks recipes against a set of query ingredient strings.
// Each query ingredient becomes the mean of its known token vectors; the
// query vector is the mean across ingredients. Recipes are ranked primarily
// by how many of their raw ingredient names contain a query string as a
// literal substring, with cosine similarity breaking ties. When every query
// ingredient is out of vocabulary the result is empty, not an error.
func (e *Engine) IngredientSearch(ctx context.Context, ingredients []string, topK int) ([]RankedRecipe, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var perQuery [][]float32
	for _, ing := range ingredients {
		if v := e.meanTokenVector(e.normalizer.Tokenize(ing)); v != nil {
			perQuery = append(perQuery, v)
		}
	}
	queryVector := meanVector(perQuery)
	if queryVector == nil {
		return []RankedRecipe{}, nil
	}

	results := make([]RankedRecipe, 0, len(e.ingredientVectors))
	for i := range e.recipes {
		recipe := &e.recipes[i]
		recipeVector, ok := e.ingredientVectors[recipe.ID]
		if !ok {
			continue
		}

		matching := matchingIngredients(recipe.Ingredients, ingredients)
		results = append(results, RankedRecipe{
			Recipe:              recipe,
			Similarity:          cosine(queryVector, recipeVector),
			MatchingIngredients: matching,
			TotalIngredients:    len(recipe.Ingredients),
		})
	}

	// Match count is the primary key; similarity only breaks ties.
	sort.SliceStable(results, func(a, b int) bool {
		ma, mb := len(results[a].MatchingIngredients), len(results[b].MatchingIngredients)
		if ma != mb {
			return ma > mb
		}
		return results[a].Similarity > results[b].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// SimilarIngredients finds neighbor tokens for each token of the query
// ingredient independently and resolves the recipes using each neighbor.
// Results are concatenated in token order with no cross-token deduplication
// or re-ranking; this mirrors the reference behavior.
func (e *Engine) SimilarIngredients(ingredient string, topK int) []SimilarIngredientGroup {
	if topK <= 0 {
		topK = 5
	}

	groups := []SimilarIngredientGroup{}
	for _, token := range e.normalizer.Tokenize(ingredient) {
		for _, neighbor := range e.model.MostSimilar(token, topK) {
			refs := e.inverted[neighbor.Token]
			if len(refs) > similarIngredientRecipeCap {
				refs = refs[:similarIngredientRecipeCap]
			}

			recipes := make([]RecipeRef, 0, len(refs))
			for _, ref := range refs {
				recipe := e.GetRecipe(ref.recipeID)
				if recipe == nil {
					continue
				}
				recipes = append(recipes, RecipeRef{
					ID:     recipe.ID,
					Name:   recipe.Name,
					Amount: ref.amount,
				})
			}

			groups = append(groups, SimilarIngredientGroup{
				Ingredient: neighbor.Token,
				Similarity: neighbor.Score,
				Recipes:    recipes,
			})
		}
	}
	return groups
}

// matchingIngredients returns the recipe ingredients whose raw name contains
// any query string as a case-sensitive literal substring. Matching is on the
// uncleaned name, not on tokens.
func matchingIngredients(recipeIngredients []corpus.Ingredient, queries []string) []corpus.Ingredient {
	var matching []corpus.Ingredient
	for _, ing := range recipeIngredients {
		for _, q := range queries {
			if q != "" && strings.Contains(ing.Name, q) {
				matching = append(matching, ing)
				break
			}
		}
	}
	return matching
}
