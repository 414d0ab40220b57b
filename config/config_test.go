package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.RephraseMax)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ytvv.yaml")
	yamlBody := "port: \"9000\"\nsearch_limit: 20\ncache_ttl: 2m\nembedding_model: local-minilm\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("API_KEY", "serper-key")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BROWSER_FETCH", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 20, cfg.SearchLimit)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "local-minilm", cfg.EmbeddingModel)
	assert.Equal(t, "serper-key", cfg.SerperAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.BrowserFetch)
}

func TestSerperKeyAliasPrecedence(t *testing.T) {
	t.Setenv("API_KEY", "legacy")
	t.Setenv("SERPER_API_KEY", "preferred")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "preferred", cfg.SerperAPIKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port", "PORT", "http"},
		{"limit range", "SEARCH_LIMIT", "500"},
		{"int parse", "REPHRASE_MAX", "many"},
		{"duration", "CACHE_TTL", "forever"},
		{"bool", "BROWSER_FETCH", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDatabaseURL(t *testing.T) {
	assert.Equal(t, "postgres://u:p@db/ytvv", NormalizeDatabaseURL("postgresql+psycopg://u:p@db/ytvv"))
	assert.Equal(t, "postgres://u:p@db/ytvv", NormalizeDatabaseURL("postgres://u:p@db/ytvv"))
	assert.Equal(t, "", NormalizeDatabaseURL(""))
}
