package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.HTTPPort)
	assert.Equal(t, 168*time.Hour, cfg.TokenExpiration)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.BoltPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BOLT_PATH", "/var/lib/tinyceo/data.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("AI_PROVIDER", "Anthropic")
	t.Setenv("AI_TEMPERATURE", "0.2")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "/var/lib/tinyceo/data.db", cfg.BoltPath)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-9)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT: \"4000\"\nAI_PROVIDER: gemini\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.HTTPPort)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "mystery")
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
