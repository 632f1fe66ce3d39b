// Package ingredient normalizes raw ingredient names into tokens usable by
// the co-occurrence model and the inverted index.
package ingredient

import (
	"strings"

	"github.com/go-ego/gse"
)

// units is the stop-set of measure words stripped from ingredient names
// before tokenizing.
var units = map[string]struct{}{
	"克": {}, "公克": {}, "g": {}, "條": {}, "片": {}, "個": {}, "顆": {},
	"些": {}, "適量": {}, "份": {}, "兩": {}, "斤": {}, "匙": {}, "湯匙": {},
	"茶匙": {}, "杯": {}, "ml": {}, "毫升": {}, "公升": {}, "把": {},
}

// Normalizer segments ingredient names and strips unit words. It is safe for
// concurrent use once constructed; Clean and Tokenize are pure functions.
type Normalizer struct {
	seg gse.Segmenter
}

// NewNormalizer loads the default segmentation dictionary. Dictionary load
// failure is fatal for the engine, so the error is returned to the caller.
func NewNormalizer() (*Normalizer, error) {
	seg, err := gse.New()
	if err != nil {
		return nil, err
	}
	return &Normalizer{seg: seg}, nil
}

// Clean segments name and drops every token found in the unit stop-set,
// concatenating the remainder. Empty input yields the empty string. Clean is
// idempotent: cleaning already-clean text never removes non-unit tokens.
func (n *Normalizer) Clean(name string) string {
	if name == "" {
		return ""
	}
	tokens := n.seg.Cut(name, true)
	var b strings.Builder
	for _, t := range tokens {
		if _, isUnit := units[t]; isUnit {
			continue
		}
		b.WriteString(t)
	}
	return b.String()
}

// Tokenize cleans name and segments the result into tokens, dropping
// whitespace-only fragments. A name made purely of unit words tokenizes to
// nothing.
func (n *Normalizer) Tokenize(name string) []string {
	clean := n.Clean(name)
	if clean == "" {
		return nil
	}
	raw := n.seg.Cut(clean, true)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if strings.TrimSpace(t) == "" {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// IsUnit reports whether token is in the unit stop-set.
func IsUnit(token string) bool {
	_, ok := units[token]
	return ok
}
