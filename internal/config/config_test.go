package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "/tmp/picker.db")
	t.Setenv("CLOUD_DB_PATH", "")
	t.Setenv("TMDB_API_KEY", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/picker.db", cfg.DatabaseURL)
	assert.Equal(t, "cloud.db", filepath.Base(cfg.CloudDatabaseURL))
	assert.Equal(t, "pt-BR", cfg.TMDBLanguage)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.TMDBConfigured())
}

func TestSearchCacheTTLAtLeastOneMinute(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc"} {
		t.Setenv("SEARCH_CACHE_TTL_MINUTES", raw)
		assert.Equal(t, time.Minute, Load().SearchCacheTTL, raw)
	}

	t.Setenv("SEARCH_CACHE_TTL_MINUTES", "15")
	assert.Equal(t, 15*time.Minute, Load().SearchCacheTTL)
}

func TestLoadPostgresURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "picker")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "cloud")

	cfg := Load()

	assert.Equal(t, "postgres://picker:secret@db:5432/cloud?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, cfg.DatabaseURL, cfg.CloudDatabaseURL)
}

func TestTMDBConfigured(t *testing.T) {
	cases := map[string]bool{
		"":                 false,
		tmdbKeyPlaceholder: false,
		"short":            false,
		"0123456789abcdef": true,
	}
	for key, want := range cases {
		cfg := &Config{TMDBAPIKey: key}
		assert.Equal(t, want, cfg.TMDBConfigured(), "key %q", key)
	}
}
