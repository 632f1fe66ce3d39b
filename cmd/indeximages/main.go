// Command indeximages rebuilds the image vector store from the corpus cover
// images. It is run out of band, before or alongside the API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/recipesearch/config"
	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/imagejob"
	"github.com/pageza/recipesearch/internal/vectorstore"
)

func main() {
	logger := log.New(os.Stdout, "[indeximages] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		logger.Fatal("DATABASE_DSN is required: an in-memory store would be lost when this job exits")
	}

	recipes, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		logger.Fatalf("failed to load corpus from %s: %v", cfg.CorpusPath, err)
	}
	logger.Printf("loaded %d recipes from %s", len(recipes), cfg.CorpusPath)

	imageEncoder, err := encoder.NewCLIPEncoder(encoder.ImageEncoderConfig{URL: cfg.ImageEncoderURL})
	if err != nil {
		logger.Fatalf("failed to create image encoder: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	store, err := vectorstore.NewPgvectorStore(db)
	if err != nil {
		logger.Fatalf("failed to create image vector store: %v", err)
	}

	opts := []imagejob.Option{imagejob.WithLogger(logger)}
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background())
		if err != nil {
			logger.Fatalf("failed to configure S3 mirror: %v", err)
		}
		opts = append(opts, imagejob.WithMirror(imagejob.NewS3Mirror(s3Config)))
		logger.Printf("mirroring covers to s3 bucket %s", cfg.S3Bucket)
	}

	job, err := imagejob.New(recipes, imageEncoder, store, opts...)
	if err != nil {
		logger.Fatalf("failed to create index job: %v", err)
	}

	// A signal cancels the context so the batch stops at the next recipe.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := job.Run(ctx)
	if err != nil {
		logger.Fatalf("batch aborted after %d stored: %v", stats.Stored, err)
	}
}
