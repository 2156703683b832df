// Package config loads service configuration from OPENAPITODOCX_*
// environment variables, with optional .env file support.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configurable service settings, loaded once at startup.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// LLM enhancement settings. Enhancement is disabled entirely when
	// LLMBaseURL is empty.
	LLMBaseURL string
	LLMToken   string
	LLMModel   string
	LLMTimeout time.Duration

	// EnhanceByDefault enables description enhancement for requests that
	// do not specify a mode.
	EnhanceByDefault bool

	// MaxUploadBytes bounds the size of uploaded specification files.
	MaxUploadBytes int64
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win
// over .env entries.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return &Config{
		Addr:             envString("OPENAPITODOCX_ADDR", ":8000"),
		LLMBaseURL:       envString("OPENAPITODOCX_LLM_BASE_URL", ""),
		LLMToken:         envString("OPENAPITODOCX_LLM_TOKEN", ""),
		LLMModel:         envString("OPENAPITODOCX_LLM_MODEL", ""),
		LLMTimeout:       envDuration("OPENAPITODOCX_LLM_TIMEOUT", 60*time.Second),
		EnhanceByDefault: envBool("OPENAPITODOCX_ENHANCE_BY_DEFAULT", false),
		MaxUploadBytes:   envInt64("OPENAPITODOCX_MAX_UPLOAD_BYTES", 32<<20),
	}
}

// EnhancementConfigured reports whether an enhancement endpoint is set.
func (c *Config) EnhancementConfigured() bool {
	return c.LLMBaseURL != ""
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
