package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AI providers understood by internal/ai.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderFallback  = "fallback"
)

const devJWTSecret = "tinyceo-dev-secret" // Only accepted outside production.

// ErrInvalidConfig is wrapped by every validation failure in LoadConfig.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration values loaded from the environment,
// an optional .env file and an optional config file.
type Config struct {
	AppEnv          string
	HTTPPort        string
	JWTSecret       string
	TokenExpiration time.Duration
	DatabaseURL     string // Takes precedence over BoltPath
	BoltPath        string // Empty with no DatabaseURL selects the in-memory store
	CORSOrigins     []string
	AI              AIConfig
}

// AIConfig selects and tunes the LLM backend.
type AIConfig struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	Temperature     float64
	MaxTokens       int
	Timeout         time.Duration
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "3001")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 168)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BOLT_PATH", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_MAX_TOKENS", 2000)
	v.SetDefault("AI_TIMEOUT_SECONDS", 60)
}

// LoadConfig loads configuration. A .env file in the working directory is
// applied first when present; configFile, when non-empty, is read by viper.
// Environment variables always win over both.
func LoadConfig(configFile string) (*Config, error) {
	// .env is optional; production usually injects real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		HTTPPort:        v.GetString("HTTP_PORT"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenExpiration: time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		DatabaseURL:     v.GetString("DATABASE_URL"),
		BoltPath:        v.GetString("BOLT_PATH"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		AI: AIConfig{
			Provider:        strings.ToLower(v.GetString("AI_PROVIDER")),
			OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
			OpenAIModel:     v.GetString("OPENAI_MODEL"),
			OpenAIBaseURL:   v.GetString("OPENAI_BASE_URL"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			GeminiModel:     v.GetString("GEMINI_MODEL"),
			GeminiBaseURL:   v.GetString("GEMINI_BASE_URL"),
			Temperature:     v.GetFloat64("AI_TEMPERATURE"),
			MaxTokens:       v.GetInt("AI_MAX_TOKENS"),
			Timeout:         time.Duration(v.GetInt("AI_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("%w: JWT_SECRET must be set in production", ErrInvalidConfig)
		}
		c.JWTSecret = devJWTSecret
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("%w: JWT_EXPIRATION_HOURS must be positive", ErrInvalidConfig)
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderFallback:
	default:
		return fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrInvalidConfig, c.AI.Provider)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("%w: AI_MAX_TOKENS must be positive", ErrInvalidConfig)
	}
	return nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
