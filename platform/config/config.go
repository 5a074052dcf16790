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

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetMaxBodyBytes() int64
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	GetShutdownTimeout() time.Duration
}

// LayoutConfig provides settings for the coordinate layout registry.
type LayoutConfig interface {
	GetLayoutFile() string
	GetDefaultLayout() string
}

// StorageConfig provides settings for MinIO S3-compatible storage holding layout tables.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetLayoutBucket() string
	GetLayoutPrefix() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool
	MaxBodyBytes    int64
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	LayoutFile      string
	DefaultLayout   string
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	LayoutBucket    string
	LayoutPrefix    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool           { return c.CORSAllowCreds }
func (c *Config) GetMaxBodyBytes() int64            { return c.MaxBodyBytes }
func (c *Config) GetRateLimitRPS() float64          { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int            { return c.RateLimitBurst }
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// LayoutConfig implementation
func (c *Config) GetLayoutFile() string    { return c.LayoutFile }
func (c *Config) GetDefaultLayout() string { return c.DefaultLayout }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetLayoutBucket() string   { return c.LayoutBucket }
func (c *Config) GetLayoutPrefix() string   { return c.LayoutPrefix }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.LayoutBucket != ""
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

const defaultMaxBodyBytes = 50 << 20

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	httpAddr := getEnv("HTTP_ADDR", "")
	if httpAddr == "" {
		httpAddr = ":" + getEnv("PORT", "3000")
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "production"),
		HTTPAddr:        httpAddr,
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		MaxBodyBytes:    mustInt64(getEnv("MAX_BODY_BYTES", strconv.Itoa(defaultMaxBodyBytes))),
		RateLimitRPS:    mustFloat(getEnv("RATE_LIMIT_RPS", "0")),
		RateLimitBurst:  int(mustInt64(getEnv("RATE_LIMIT_BURST", "10"))),
		ShutdownTimeout: mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		LayoutFile:      getEnv("LAYOUT_FILE", ""),
		DefaultLayout:   getEnv("DEFAULT_LAYOUT", ""),
		MinIOEndpoint:   getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:     strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		LayoutBucket:    getEnv("LAYOUT_BUCKET", ""),
		LayoutPrefix:    getEnv("LAYOUT_PREFIX", "layouts/"),
	}

	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}
	if cfg.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS cannot be negative")
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.LayoutBucket != "" && cfg.MinIOEndpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required when LAYOUT_BUCKET is set")
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

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
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
