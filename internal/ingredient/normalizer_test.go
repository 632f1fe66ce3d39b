package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer()
	require.NoError(t, err)
	return n
}

func TestCleanStripsUnits(t *testing.T) {
	n := newTestNormalizer(t)

	assert.Equal(t, "雞蛋", n.Clean("雞蛋適量"))
	assert.NotContains(t, n.Clean("200克雞蛋"), "克")
	assert.Contains(t, n.Clean("200克雞蛋"), "雞蛋")
}

func TestCleanEmptyInput(t *testing.T) {
	n := newTestNormalizer(t)
	assert.Equal(t, "", n.Clean(""))
}

func TestCleanPureUnitString(t *testing.T) {
	n := newTestNormalizer(t)
	// A name built purely from unit words normalizes to empty.
	assert.Equal(t, "", n.Clean("適量"))
	assert.Empty(t, n.Tokenize("適量"))
}

func TestCleanIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	for _, name := range []string{"雞蛋適量", "200克雞蛋", "牛肉", "青蔥2條"} {
		once := n.Clean(name)
		assert.Equal(t, once, n.Clean(once), "Clean not idempotent for %q", name)
	}
}

func TestTokenizeProducesNoUnits(t *testing.T) {
	n := newTestNormalizer(t)

	for _, tok := range n.Tokenize("200克雞蛋") {
		assert.False(t, IsUnit(tok), "unit token %q survived tokenize", tok)
		assert.NotEmpty(t, tok)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	n := newTestNormalizer(t)
	assert.Nil(t, n.Tokenize(""))
}
