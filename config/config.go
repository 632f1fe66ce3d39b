// Package config holds all configuration for the application, loaded from
// environment variables with local-development defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Corpus configuration
	CorpusPath string

	// Text encoder (OpenAI-compatible embeddings endpoint)
	TextEncoderURL    string
	TextEncoderModel  string
	TextEncoderAPIKey string

	// Image encoder (served CLIP-style model)
	ImageEncoderURL string

	// Database configuration. Empty DSN selects the in-memory image vector
	// store; a Postgres DSN selects the persisted pgvector store.
	DatabaseDSN string

	// Redis configuration for API rate limiting. Empty host disables it.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Rate limit settings (requests per minute per client IP)
	RateLimit int

	// S3 mirror for fetched cover images. Empty bucket disables it.
	S3Bucket string
}

// Load creates a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		CorpusPath:        getEnv("CORPUS_PATH", "./data/recipe_data.json"),
		TextEncoderURL:    getEnv("TEXT_ENCODER_URL", "http://localhost:8000/v1"),
		TextEncoderModel:  getEnv("TEXT_ENCODER_MODEL", "paraphrase-multilingual-MiniLM-L12-v2"),
		TextEncoderAPIKey: os.Getenv("TEXT_ENCODER_API_KEY"),
		ImageEncoderURL:   getEnv("IMAGE_ENCODER_URL", "http://localhost:8001/embed"),
		DatabaseDSN:       os.Getenv("DATABASE_DSN"),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		S3Bucket:          os.Getenv("S3_BUCKET_NAME"),
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		redisDB = db
	}
	cfg.RedisDB = redisDB

	rateLimit := 120
	if rlStr := os.Getenv("RATE_LIMIT"); rlStr != "" {
		rl, err := strconv.Atoi(rlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", rlStr, err)
		}
		rateLimit = rl
	}
	cfg.RateLimit = rateLimit

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required settings are present and well formed.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid server port %q", c.ServerPort)
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("corpus path must not be empty")
	}
	if c.TextEncoderURL == "" {
		return fmt.Errorf("text encoder URL must not be empty")
	}
	if c.TextEncoderModel == "" {
		return fmt.Errorf("text encoder model must not be empty")
	}
	if c.ImageEncoderURL == "" {
		return fmt.Errorf("image encoder URL must not be empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// RedisAddr returns host:port, or empty when redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// getEnv returns the environment value or a default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
