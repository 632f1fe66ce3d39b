// Package imagejob populates the image vector store from recipe cover
// images. It runs as an explicit batch, decoupled from query serving: a
// failing fetch or encode skips that recipe and never blocks search
// availability.
package imagejob

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/vectorstore"
)

// Mirror receives a copy of every successfully fetched cover image.
type Mirror interface {
	UploadImage(ctx context.Context, imageData []byte, fileName string) (string, error)
}

// Stats summarizes one batch run.
type Stats struct {
	Processed int
	Stored    int
	Skipped   int
}

// Job fetches, encodes and stores cover image vectors for a corpus.
type Job struct {
	recipes []corpus.Recipe
	encoder encoder.ImageEncoder
	store   vectorstore.Store
	client  *http.Client
	mirror  Mirror
	logger  *log.Logger
	retries int
}

// Option configures a Job.
type Option func(*Job)

// WithHTTPClient overrides the fetch client.
func WithHTTPClient(client *http.Client) Option {
	return func(j *Job) {
		if client != nil {
			j.client = client
		}
	}
}

// WithMirror copies each fetched cover to external storage.
func WithMirror(m Mirror) Option {
	return func(j *Job) {
		j.mirror = m
	}
}

// WithLogger sets the logger for per-recipe progress and skip events.
func WithLogger(logger *log.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// WithRetries sets how many fetch attempts each image gets. Default 2.
func WithRetries(n int) Option {
	return func(j *Job) {
		if n > 0 {
			j.retries = n
		}
	}
}

// New creates a batch job over the given corpus.
func New(recipes []corpus.Recipe, enc encoder.ImageEncoder, store vectorstore.Store, opts ...Option) (*Job, error) {
	if enc == nil {
		return nil, fmt.Errorf("image encoder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}

	j := &Job{
		recipes: recipes,
		encoder: enc,
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  log.Default(),
		retries: 2,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Run processes every recipe with a cover image, sequentially. Per-recipe
// failures are logged and skipped; only a cancelled context aborts the batch.
func (j *Job) Run(ctx context.Context) (Stats, error) {
	runID := uuid.New().String()[:8]
	stats := Stats{}

	for i := range j.recipes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		r := &j.recipes[i]
		if r.Image == "" {
			continue
		}
		stats.Processed++

		if err := j.processRecipe(ctx, r); err != nil {
			stats.Skipped++
			j.logger.Printf("[imagejob %s] skipping recipe %s: %v", runID, r.ID, err)
			continue
		}
		stats.Stored++
	}

	j.logger.Printf("[imagejob %s] done: %d processed, %d stored, %d skipped",
		runID, stats.Processed, stats.Stored, stats.Skipped)
	return stats, nil
}

// processRecipe fetches, optionally mirrors, encodes and stores one cover.
func (j *Job) processRecipe(ctx context.Context, r *corpus.Recipe) error {
	imageData, err := j.fetchImage(ctx, r.Image)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if j.mirror != nil {
		fileName := fmt.Sprintf("recipe-covers/%s.jpg", r.ID)
		if _, err := j.mirror.UploadImage(ctx, imageData, fileName); err != nil {
			// The mirror is best-effort; the vector still gets stored.
			j.logger.Printf("[imagejob] mirror upload failed for recipe %s: %v", r.ID, err)
		}
	}

	vector, err := j.encoder.EmbedImage(ctx, imageData)
	if err != nil {
		return fmt.Errorf("encode failed: %w", err)
	}

	err = j.store.Insert(ctx, r.ID, vector, vectorstore.Metadata{
		Name:        r.Name,
		Description: r.Description,
	})
	if err != nil {
		return fmt.Errorf("store insert failed: %w", err)
	}
	return nil
}

// fetchImage downloads a cover with bounded retries.
func (j *Job) fetchImage(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= j.retries; attempt++ {
		data, err := j.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt < j.retries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", j.retries, lastErr)
}

func (j *Job) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
