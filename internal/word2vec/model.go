// Package word2vec trains a skip-gram embedding with negative sampling over
// token sequences and answers nearest-neighbor queries by cosine similarity.
package word2vec

import (
	"math"
	"math/rand"
	"sort"
)

// Config contains training hyperparameters.
type Config struct {
	// Dim is the embedding dimensionality.
	// Default: 100.
	Dim int

	// Window is the maximum context window size. The effective window for
	// each center token is sampled uniformly from [1, Window].
	// Default: 5.
	Window int

	// MinCount drops tokens seen fewer times across all sequences.
	// Default: 1.
	MinCount int

	// Epochs is the number of passes over the sequences.
	// Default: 15.
	Epochs int

	// LearningRate is the initial SGD step size, decayed linearly per epoch.
	// Default: 0.025.
	LearningRate float64

	// NegativeSamples is the number of negative tokens drawn per positive
	// pair. Default: 5.
	NegativeSamples int

	// Seed makes training reproducible. If 0, a default seed is used.
	Seed int64
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		Dim:             100,
		Window:          5,
		MinCount:        1,
		Epochs:          15,
		LearningRate:    0.025,
		NegativeSamples: 5,
		Seed:            42,
	}
}

// Model is a trained embedding. It is immutable after Train returns and safe
// for concurrent reads.
type Model struct {
	cfg Config

	// vocab holds tokens in first-occurrence order; tie-breaks in
	// MostSimilar follow this order so results are deterministic.
	vocab  []string
	index  map[string]int
	counts []int

	vectors [][]float32 // input embeddings, one per vocab entry
	norms   []float64   // L2 norms of vectors, precomputed after training
}

// Neighbor is one nearest-neighbor result.
type Neighbor struct {
	Token string
	Score float64
}

// Vector returns the embedding for token, or ok=false for a token absent
// from the vocabulary. Callers must skip unknown tokens, not treat them as
// errors.
func (m *Model) Vector(token string) ([]float32, bool) {
	i, ok := m.index[token]
	if !ok {
		return nil, false
	}
	return m.vectors[i], true
}

// Vocabulary returns the number of known tokens.
func (m *Model) Vocabulary() int {
	return len(m.vocab)
}

// MostSimilar returns up to topK tokens closest to token by cosine
// similarity, descending. The query token itself is excluded. Ties are broken
// by vocabulary order. An unknown token yields no results.
func (m *Model) MostSimilar(token string, topK int) []Neighbor {
	qi, ok := m.index[token]
	if !ok || topK <= 0 {
		return nil
	}

	q := m.vectors[qi]
	qn := m.norms[qi]
	if qn == 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(m.vocab)-1)
	for i, v := range m.vectors {
		if i == qi || m.norms[i] == 0 {
			continue
		}
		var dot float64
		for d := range q {
			dot += float64(q[d]) * float64(v[d])
		}
		neighbors = append(neighbors, Neighbor{
			Token: m.vocab[i],
			Score: dot / (qn * m.norms[i]),
		})
	}

	// Stable sort keeps vocabulary order for equal scores.
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Score > neighbors[b].Score
	})

	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}
	return neighbors
}

// Train fits a skip-gram model with negative sampling over the sequences.
// Training is sequential and seeded, so the same input always yields the
// same model.
func Train(sequences [][]string, cfg Config) *Model {
	if cfg.Dim <= 0 {
		cfg.Dim = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = 5
	}
	if cfg.MinCount <= 0 {
		cfg.MinCount = 1
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 15
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.025
	}
	if cfg.NegativeSamples <= 0 {
		cfg.NegativeSamples = 5
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	m := &Model{cfg: cfg, index: make(map[string]int)}

	// Vocabulary pass, first-occurrence order.
	rawCounts := make(map[string]int)
	var order []string
	for _, seq := range sequences {
		for _, tok := range seq {
			if rawCounts[tok] == 0 {
				order = append(order, tok)
			}
			rawCounts[tok]++
		}
	}
	for _, tok := range order {
		if rawCounts[tok] < cfg.MinCount {
			continue
		}
		m.index[tok] = len(m.vocab)
		m.vocab = append(m.vocab, tok)
		m.counts = append(m.counts, rawCounts[tok])
	}

	vocabSize := len(m.vocab)
	m.vectors = make([][]float32, vocabSize)
	m.norms = make([]float64, vocabSize)
	if vocabSize == 0 {
		return m
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Input vectors start small and random, output weights start at zero.
	output := make([][]float32, vocabSize)
	for i := 0; i < vocabSize; i++ {
		m.vectors[i] = make([]float32, cfg.Dim)
		output[i] = make([]float32, cfg.Dim)
		for d := 0; d < cfg.Dim; d++ {
			m.vectors[i][d] = float32((rng.Float64() - 0.5) / float64(cfg.Dim))
		}
	}

	table := buildUnigramTable(m.counts)

	// Re-express sequences as vocabulary indices, dropping unknown tokens.
	indexed := make([][]int, 0, len(sequences))
	for _, seq := range sequences {
		ids := make([]int, 0, len(seq))
		for _, tok := range seq {
			if id, ok := m.index[tok]; ok {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			indexed = append(indexed, ids)
		}
	}

	grad := make([]float32, cfg.Dim)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		lr := cfg.LearningRate * (1 - float64(epoch)/float64(cfg.Epochs))
		if lr < cfg.LearningRate*1e-4 {
			lr = cfg.LearningRate * 1e-4
		}

		for _, seq := range indexed {
			for pos, center := range seq {
				window := rng.Intn(cfg.Window) + 1
				for off := -window; off <= window; off++ {
					ctx := pos + off
					if off == 0 || ctx < 0 || ctx >= len(seq) {
						continue
					}
					trainPair(m.vectors[center], output, seq[ctx], table, cfg.NegativeSamples, lr, rng, grad)
				}
			}
		}
	}

	for i, v := range m.vectors {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		m.norms[i] = math.Sqrt(sum)
	}
	return m
}

// trainPair applies one positive update and NegativeSamples negative updates
// for a (center, context) pair.
func trainPair(in []float32, output [][]float32, target int, table []int, negatives int, lr float64, rng *rand.Rand, grad []float32) {
	for d := range grad {
		grad[d] = 0
	}

	for n := 0; n <= negatives; n++ {
		var label float64
		var out []float32
		if n == 0 {
			label = 1
			out = output[target]
		} else {
			sample := table[rng.Intn(len(table))]
			if sample == target {
				continue
			}
			out = output[sample]
		}

		var dot float64
		for d := range in {
			dot += float64(in[d]) * float64(out[d])
		}
		g := (label - sigmoid(dot)) * lr
		for d := range in {
			grad[d] += float32(g) * out[d]
			out[d] += float32(g) * in[d]
		}
	}

	for d := range in {
		in[d] += grad[d]
	}
}

// buildUnigramTable builds the negative-sampling table with counts raised to
// the 3/4 power, as in the original word2vec formulation.
func buildUnigramTable(counts []int) []int {
	const tableSize = 1 << 17

	var total float64
	weights := make([]float64, len(counts))
	for i, c := range counts {
		weights[i] = math.Pow(float64(c), 0.75)
		total += weights[i]
	}

	table := make([]int, 0, tableSize)
	if total == 0 {
		return table
	}

	i := 0
	cum := weights[0] / total
	for t := 0; t < tableSize; t++ {
		table = append(table, i)
		if float64(t)/float64(tableSize) > cum && i < len(counts)-1 {
			i++
			cum += weights[i] / total
		}
	}
	return table
}

// sigmoid is the logistic function.
func sigmoid(x float64) float64 {
	if x > 6 {
		return 1
	}
	if x < -6 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}
