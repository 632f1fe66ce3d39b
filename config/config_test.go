package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "./data/recipe_data.json", cfg.CorpusPath)
	assert.NotEmpty(t, cfg.TextEncoderURL)
	assert.NotEmpty(t, cfg.ImageEncoderURL)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Empty(t, cfg.DatabaseDSN)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CORPUS_PATH", "/srv/corpus.json")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, "/srv/corpus.json", cfg.CorpusPath)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 10, cfg.RateLimit)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		ServerPort:       "8080",
		CorpusPath:       "corpus.json",
		TextEncoderURL:   "http://localhost:8000/v1",
		TextEncoderModel: "test-model",
		ImageEncoderURL:  "http://localhost:8001/embed",
	}
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.ServerPort = "not-a-port"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.CorpusPath = ""
	assert.Error(t, bad.Validate())
}

func TestRedisAddrEmptyWhenUnconfigured(t *testing.T) {
	cfg := &Config{RedisPort: "6379"}
	assert.Empty(t, cfg.RedisAddr())
}
