// Package search implements the retrieval engine: three index-and-score
// pipelines (text embeddings, ingredient co-occurrence, image embeddings)
// built once at startup and queried read-only afterwards.
package search

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/ingredient"
	"github.com/pageza/recipesearch/internal/vectorstore"
	"github.com/pageza/recipesearch/internal/word2vec"
)

// defaultAmount substitutes a missing ingredient amount in the inverted
// index, matching the scraped corpus convention.
const defaultAmount = "適量"

// indexRef is one inverted-index entry: a recipe using a token, with the
// amount from that ingredient line. Entries keep corpus order and are not
// deduplicated.
type indexRef struct {
	recipeID string
	amount   string
}

// Engine is the retrieval engine. It is built once by NewEngine and is
// immutable afterwards, so concurrent queries need no locking.
type Engine struct {
	recipes    []corpus.Recipe
	normalizer *ingredient.Normalizer

	textEncoder  encoder.TextEncoder
	imageEncoder encoder.ImageEncoder
	images       vectorstore.Store

	model       *word2vec.Model
	textVectors [][]float32
	// ingredientVectors maps recipe id to the mean of its per-ingredient
	// mean token vectors; recipes with no known token are absent.
	ingredientVectors map[string][]float32
	// recipeTokens caches the cleaned token lists per recipe ingredient, so
	// queries never re-tokenize the corpus.
	recipeTokens map[string][][]string
	inverted     map[string][]indexRef

	logger   *log.Logger
	modelCfg word2vec.Config
	poolSize int
}

// Option configures an Engine before it is built.
type Option func(*Engine)

// WithLogger sets the logger used for build progress and skip events.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithModelConfig overrides the co-occurrence training configuration.
func WithModelConfig(cfg word2vec.Config) Option {
	return func(e *Engine) {
		e.modelCfg = cfg
	}
}

// WithPoolSize bounds the worker pool used for the recipe-vector precompute.
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.poolSize = n
		}
	}
}

// NewEngine builds the engine: it tokenizes every ingredient once, builds the
// inverted index, trains the co-occurrence model, precomputes per-recipe
// ingredient vectors and encodes every recipe's search text. Corpus problems
// were already handled at load time; an encoder failure here is fatal.
func NewEngine(
	ctx context.Context,
	recipes []corpus.Recipe,
	textEncoder encoder.TextEncoder,
	imageEncoder encoder.ImageEncoder,
	images vectorstore.Store,
	opts ...Option,
) (*Engine, error) {
	if textEncoder == nil {
		return nil, fmt.Errorf("text encoder is required")
	}
	if imageEncoder == nil {
		return nil, fmt.Errorf("image encoder is required")
	}
	if images == nil {
		return nil, fmt.Errorf("image vector store is required")
	}

	normalizer, err := ingredient.NewNormalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ingredient normalizer: %w", err)
	}

	e := &Engine{
		recipes:           recipes,
		normalizer:        normalizer,
		textEncoder:       textEncoder,
		imageEncoder:      imageEncoder,
		images:            images,
		ingredientVectors: make(map[string][]float32),
		recipeTokens:      make(map[string][][]string),
		inverted:          make(map[string][]indexRef),
		logger:            log.Default(),
		modelCfg:          word2vec.DefaultConfig(),
		poolSize:          4,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buildIngredientIndexes()
	if err := e.buildTextVectors(ctx); err != nil {
		return nil, err
	}

	e.logger.Printf("search engine ready: %d recipes, %d ingredient tokens",
		len(e.recipes), e.model.Vocabulary())
	return e, nil
}

// buildIngredientIndexes tokenizes every ingredient, fills the inverted
// index, trains the co-occurrence model and precomputes recipe ingredient
// vectors.
func (e *Engine) buildIngredientIndexes() {
	sequences := make([][]string, 0, len(e.recipes))

	for i := range e.recipes {
		r := &e.recipes[i]
		perIngredient := make([][]string, len(r.Ingredients))
		var sequence []string

		for j, ing := range r.Ingredients {
			if ing.Name == "" {
				continue
			}
			tokens := e.normalizer.Tokenize(ing.Name)
			perIngredient[j] = tokens
			sequence = append(sequence, tokens...)

			amount := ing.Amount
			if amount == "" {
				amount = defaultAmount
			}
			for _, tok := range tokens {
				e.inverted[tok] = append(e.inverted[tok], indexRef{recipeID: r.ID, amount: amount})
			}
		}

		e.recipeTokens[r.ID] = perIngredient
		if len(sequence) > 0 {
			sequences = append(sequences, sequence)
		}
	}

	e.model = word2vec.Train(sequences, e.modelCfg)
	e.precomputeIngredientVectors()
}

// precomputeIngredientVectors computes the mean ingredient vector per recipe
// on a bounded worker pool. Each worker only reads the trained model and
// writes its own slot, so the result is deterministic.
func (e *Engine) precomputeIngredientVectors() {
	vectors := make([][]float32, len(e.recipes))

	pool, err := ants.NewPool(e.poolSize)
	if err != nil {
		// Degrade to sequential computation.
		for i := range e.recipes {
			vectors[i] = e.recipeIngredientVector(&e.recipes[i])
		}
	} else {
		defer pool.Release()
		var wg sync.WaitGroup
		for i := range e.recipes {
			i := i
			wg.Add(1)
			task := func() {
				defer wg.Done()
				vectors[i] = e.recipeIngredientVector(&e.recipes[i])
			}
			if err := pool.Submit(task); err != nil {
				task()
			}
		}
		wg.Wait()
	}

	for i := range e.recipes {
		if vectors[i] != nil {
			e.ingredientVectors[e.recipes[i].ID] = vectors[i]
		}
	}
}

// recipeIngredientVector is the mean of the mean-token-vectors of each
// ingredient with at least one known token, or nil when no token is known.
func (e *Engine) recipeIngredientVector(r *corpus.Recipe) []float32 {
	var perIngredient [][]float32
	for _, tokens := range e.recipeTokens[r.ID] {
		v := e.meanTokenVector(tokens)
		if v != nil {
			perIngredient = append(perIngredient, v)
		}
	}
	return meanVector(perIngredient)
}

// meanTokenVector averages the model vectors of the known tokens, skipping
// unknown ones. Returns nil when every token is out of vocabulary.
func (e *Engine) meanTokenVector(tokens []string) []float32 {
	var known [][]float32
	for _, tok := range tokens {
		if v, ok := e.model.Vector(tok); ok {
			known = append(known, v)
		}
	}
	return meanVector(known)
}

// buildTextVectors encodes every recipe's search text in one batch.
func (e *Engine) buildTextVectors(ctx context.Context) error {
	if len(e.recipes) == 0 {
		return nil
	}

	texts := make([]string, len(e.recipes))
	for i := range e.recipes {
		texts[i] = corpus.SearchText(&e.recipes[i])
	}

	vectors, err := e.textEncoder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to encode recipe texts: %w", err)
	}
	e.textVectors = vectors
	return nil
}

// GetRecipe returns the recipe with the given id, or nil when unknown. A
// linear scan is deliberate; the corpus is small and loaded once.
func (e *Engine) GetRecipe(id string) *corpus.Recipe {
	for i := range e.recipes {
		if e.recipes[i].ID == id {
			return &e.recipes[i]
		}
	}
	return nil
}

// Recipes returns the number of loaded recipes.
func (e *Engine) Recipes() int {
	return len(e.recipes)
}

// Vocabulary returns the number of tokens known to the co-occurrence model.
func (e *Engine) Vocabulary() int {
	return e.model.Vocabulary()
}

// meanVector averages a set of equal-length vectors; nil for an empty set.
func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			mean[i] += v[i]
		}
	}
	n := float32(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}

// dot is the inner product; text vectors are encoder-normalized so this
// approximates cosine similarity.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// cosine computes cosine similarity; zero or mismatched vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dotProd, na, nb float64
	for i := range a {
		dotProd += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dotProd / (math.Sqrt(na) * math.Sqrt(nb))
}
