// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig controls whether embedded migrations run at startup.
type MigrationConfig interface {
	GetMigrationsEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
}

// EmbeddingConfig provides settings for the embedding collaborator.
// OpenAI takes precedence when both providers are configured.
type EmbeddingConfig interface {
	GetOpenAIEmbeddingAPIKey() string
	GetOpenAIEmbeddingModel() string
	GetEmbeddingAPIURL() string
	GetEmbeddingAPIKey() string
	GetEmbeddingTimeout() time.Duration
	IsOpenAIEmbeddingEnabled() bool
	IsEmbeddingAPIEnabled() bool
}

// CacheConfig provides settings for the query-embedding cache.
type CacheConfig interface {
	GetRedisURL() string
	GetEmbeddingCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq re-embedding queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SimilarityConfig provides the nearest-neighbour search defaults.
type SimilarityConfig interface {
	GetSimilarityLimit() int
	GetSimilarityMaxDistance() float64
}

// LocaleConfig provides the locale-dependent settings used by the agent functions.
type LocaleConfig interface {
	GetTopN() int
	GetAccentFoldLocations() bool
	GetDefaultPhoneRegion() string
	GetTimezone() string
}

// =============================================================================
// Config Struct
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	MigrationsEnabled     bool
	CORSAllowAll          bool
	CORSOrigins           []string
	RateLimitRPS          float64
	OpenAIEmbeddingAPIKey string
	OpenAIEmbeddingModel  string
	EmbeddingAPIURL       string
	EmbeddingAPIKey       string
	EmbeddingTimeout      time.Duration
	EmbeddingCacheTTL     time.Duration
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	SimilarityLimit       int
	SimilarityMaxDistance float64
	TopN                  int
	AccentFoldLocations   bool
	DefaultPhoneRegion    string
	Timezone              string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// MigrationConfig implementation
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }

// EmbeddingConfig implementation
func (c *Config) GetOpenAIEmbeddingAPIKey() string   { return c.OpenAIEmbeddingAPIKey }
func (c *Config) GetOpenAIEmbeddingModel() string    { return c.OpenAIEmbeddingModel }
func (c *Config) GetEmbeddingAPIURL() string         { return c.EmbeddingAPIURL }
func (c *Config) GetEmbeddingAPIKey() string         { return c.EmbeddingAPIKey }
func (c *Config) GetEmbeddingTimeout() time.Duration { return c.EmbeddingTimeout }
func (c *Config) IsOpenAIEmbeddingEnabled() bool     { return c.OpenAIEmbeddingAPIKey != "" }
func (c *Config) IsEmbeddingAPIEnabled() bool        { return c.EmbeddingAPIURL != "" }

// CacheConfig / SchedulerConfig implementation
func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool           { return c.RedisTLSInsecure }
func (c *Config) GetEmbeddingCacheTTL() time.Duration { return c.EmbeddingCacheTTL }
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int            { return c.AsynqConcurrency }

// SimilarityConfig implementation
func (c *Config) GetSimilarityLimit() int           { return c.SimilarityLimit }
func (c *Config) GetSimilarityMaxDistance() float64 { return c.SimilarityMaxDistance }

// LocaleConfig implementation
func (c *Config) GetTopN() int                  { return c.TopN }
func (c *Config) GetAccentFoldLocations() bool  { return c.AccentFoldLocations }
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }
func (c *Config) GetTimezone() string           { return c.Timezone }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		MigrationsEnabled:     strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		OpenAIEmbeddingAPIKey: getEnv("OPENAI_API_KEY_FOR_EMBEDDINGS", ""),
		OpenAIEmbeddingModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-large"),
		EmbeddingAPIURL:       getEnv("EMBEDDING_API_URL", ""),
		EmbeddingAPIKey:       getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingTimeout:      mustDuration(getEnv("EMBEDDING_TIMEOUT", "15s")),
		EmbeddingCacheTTL:     mustDuration(getEnv("EMBEDDING_CACHE_TTL", "24h")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "embeddings"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		SimilarityLimit:       mustInt(getEnv("SIMILARITY_LIMIT", "5")),
		SimilarityMaxDistance: mustFloat(getEnv("SIMILARITY_MAX_DISTANCE", "1.3")),
		TopN:                  mustInt(getEnv("TOP_N", "10")),
		AccentFoldLocations:   strings.EqualFold(getEnv("ACCENT_FOLD_LOCATIONS", "false"), "true"),
		DefaultPhoneRegion:    getEnv("DEFAULT_PHONE_REGION", "UY"),
		Timezone:              getEnv("TIMEZONE", "America/Montevideo"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !cfg.IsOpenAIEmbeddingEnabled() && !cfg.IsEmbeddingAPIEnabled() {
		return nil, fmt.Errorf("OPENAI_API_KEY_FOR_EMBEDDINGS or EMBEDDING_API_URL is required")
	}
	if cfg.SimilarityLimit < 1 {
		return nil, fmt.Errorf("SIMILARITY_LIMIT must be positive")
	}
	if cfg.SimilarityMaxDistance <= 0 {
		return nil, fmt.Errorf("SIMILARITY_MAX_DISTANCE must be positive")
	}
	if cfg.TopN < 1 {
		return nil, fmt.Errorf("TOP_N must be positive")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
