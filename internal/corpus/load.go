package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load reads a UTF-8 JSON array of recipes from path. The whole file is read
// into memory; there is no streaming or partial load. An unreadable or
// unparseable corpus is a fatal startup condition and is returned as an error.
func Load(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a JSON recipe array, deduplicates by id and fills defaults
// for absent fields.
func Parse(data []byte) ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse corpus JSON: %w", err)
	}
	return normalize(recipes), nil
}

// normalize deduplicates recipes by id and substitutes empty defaults for
// missing name, description and hashtags. Deduplication is deterministic:
// the first occurrence keeps its position, the last occurrence wins the value.
func normalize(recipes []Recipe) []Recipe {
	position := make(map[string]int, len(recipes))
	out := make([]Recipe, 0, len(recipes))

	for _, r := range recipes {
		if r.Hashtags == nil {
			r.Hashtags = []string{}
		}
		if r.Ingredients == nil {
			r.Ingredients = []Ingredient{}
		}
		if r.Steps == nil {
			r.Steps = []Step{}
		}
		if idx, seen := position[r.ID]; seen {
			out[idx] = r
			continue
		}
		position[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// SearchText returns the text that feeds the sentence encoder for a recipe:
// name, description and hashtags joined by whitespace.
func SearchText(r *Recipe) string {
	parts := make([]string, 0, 2+len(r.Hashtags))
	parts = append(parts, r.Name, r.Description)
	parts = append(parts, r.Hashtags...)
	return strings.Join(parts, " ")
}
