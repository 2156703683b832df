package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Empty(t, cfg.LLMBaseURL)
	assert.False(t, cfg.EnhanceByDefault)
	assert.False(t, cfg.EnhancementConfigured())
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OPENAPITODOCX_ADDR", ":9999")
	t.Setenv("OPENAPITODOCX_LLM_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("OPENAPITODOCX_ENHANCE_BY_DEFAULT", "true")
	t.Setenv("OPENAPITODOCX_LLM_TIMEOUT", "30s")
	t.Setenv("OPENAPITODOCX_MAX_UPLOAD_BYTES", "1024")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "http://localhost:1234/v1", cfg.LLMBaseURL)
	assert.True(t, cfg.EnhanceByDefault)
	assert.True(t, cfg.EnhancementConfigured())
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OPENAPITODOCX_ENHANCE_BY_DEFAULT", "definitely")
	t.Setenv("OPENAPITODOCX_LLM_TIMEOUT", "-5s")
	t.Setenv("OPENAPITODOCX_MAX_UPLOAD_BYTES", "zero")

	cfg := Load()

	assert.False(t, cfg.EnhanceByDefault)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
}
