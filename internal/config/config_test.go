package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("RATE_RPS", "")
	t.Setenv("RATE_BURST", "")
	t.Setenv("SEED_DEMO_DATA", "")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 20.0, cfg.RateRPS)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.True(t, cfg.SeedDemoData)
}

func TestLoadServer_RejectsBadRate(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("RATE_RPS", "-1")

	_, err := LoadServer()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_URL", "http://api.local/api/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CATALOG_CATEGORIES", " books, ,toys ")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, []string{"books", "toys"}, cfg.Categories)
}

func TestLoadClient_DefaultCategoriesAreCopied(t *testing.T) {
	t.Setenv("CATALOG_CATEGORIES", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, DefaultCategories, cfg.Categories)

	cfg.Categories[0] = "changed"
	assert.Equal(t, "electronics", DefaultCategories[0])
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_DOTENV_PROBE=from-file\n"), 0o600))
	t.Setenv("CATALOG_DOTENV_PROBE", "")
	os.Unsetenv("CATALOG_DOTENV_PROBE")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("CATALOG_DOTENV_PROBE"))
}
