package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/recipesearch/config"
	"github.com/pageza/recipesearch/internal/corpus"
	"github.com/pageza/recipesearch/internal/encoder"
	"github.com/pageza/recipesearch/internal/middleware"
	"github.com/pageza/recipesearch/internal/search"
	"github.com/pageza/recipesearch/internal/server"
	"github.com/pageza/recipesearch/internal/vectorstore"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	recipes, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		logger.Fatalf("failed to load corpus from %s: %v", cfg.CorpusPath, err)
	}
	logger.Printf("loaded %d recipes from %s", len(recipes), cfg.CorpusPath)

	textEncoder, err := encoder.NewSentenceEncoder(encoder.TextEncoderConfig{
		BaseURL: cfg.TextEncoderURL,
		Model:   cfg.TextEncoderModel,
		APIKey:  cfg.TextEncoderAPIKey,
	})
	if err != nil {
		logger.Fatalf("failed to create text encoder: %v", err)
	}

	imageEncoder, err := encoder.NewCLIPEncoder(encoder.ImageEncoderConfig{URL: cfg.ImageEncoderURL})
	if err != nil {
		logger.Fatalf("failed to create image encoder: %v", err)
	}

	store, err := buildImageStore(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to create image vector store: %v", err)
	}

	ctx := context.Background()
	engine, err := search.NewEngine(ctx, recipes, textEncoder, imageEncoder, store,
		search.WithLogger(logger))
	if err != nil {
		logger.Fatalf("failed to build search engine: %v", err)
	}

	var opts []server.Option
	opts = append(opts, server.WithLogger(logger))
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		opts = append(opts, server.WithRateLimiter(
			middleware.NewSearchRateLimiter(client, cfg.RateLimit)))
		logger.Printf("rate limiting enabled: %d requests/minute per IP", cfg.RateLimit)
	}

	srv := server.New(engine, opts...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatalf("server error: %v", err)
		}
	case sig := <-quit:
		logger.Printf("received signal: %v", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("server shutdown error: %v", err)
	}
	logger.Println("server stopped")
}

// buildImageStore selects the image vector store backend: Postgres with
// pgvector when a DSN is configured, in-memory otherwise.
func buildImageStore(cfg *config.Config, logger *log.Logger) (vectorstore.Store, error) {
	if cfg.DatabaseDSN == "" {
		logger.Println("no database DSN configured, using in-memory image vector store")
		return vectorstore.NewMemoryStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return vectorstore.NewPgvectorStore(db)
}
