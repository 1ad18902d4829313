package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, 5, cfg.Rag.TopK)
	assert.Equal(t, "memory", cfg.Rag.VectorStore)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
	assert.Equal(t, "https://dummyapi.com/api", cfg.Action.APIURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AI_TIMEOUT", "15")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("APP_ENV", "Production")

	cfg := Load()

	assert.Equal(t, 8, cfg.Rag.TopK)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 15*time.Second, cfg.Ai.Timeout)
	assert.True(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{"go duration", "90s", time.Second, 90 * time.Second},
		{"bare seconds", "30", time.Second, 30 * time.Second},
		{"garbage falls back", "soon", 5 * time.Second, 5 * time.Second},
		{"empty falls back", "", 7 * time.Second, 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION_KEY", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION_KEY", tt.fallback))
		})
	}
}
