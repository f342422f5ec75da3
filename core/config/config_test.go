package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "fixtures", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "tattoo", cfg.Search.Prefix)

	r := cfg.Relationships
	assert.Equal(t, 1, r.MinArtistsPerStudio)
	assert.Equal(t, 10, r.MaxArtistsPerStudio)
	assert.Equal(t, 2, r.DonorThreshold)
	assert.Equal(t, "file", r.Source)
	assert.Empty(t, r.Mirrors)
	assert.Equal(t, "data/fixtures.json", r.FixturePath)
	assert.Equal(t, "fixtures/relationships.json", r.FixtureObject)
	assert.Equal(t, ".relationships.lock", r.LockFile)
	assert.Equal(t, 60, r.DriftCacheTTLSeconds)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RELATIONSHIPS_MAX_ARTISTS_PER_STUDIO", "6")
	t.Setenv("RELATIONSHIPS_SOURCE", "documents")
	t.Setenv("RELATIONSHIPS_MIRRORS", "index,bucket")
	t.Setenv("SEARCH_ADDR", "redis:6379")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Relationships.MaxArtistsPerStudio)
	assert.Equal(t, "documents", cfg.Relationships.Source)
	assert.Equal(t, []string{"index", "bucket"}, cfg.Relationships.Mirrors)
	assert.Equal(t, "redis:6379", cfg.Search.Addr)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DRIVER=sqlite\nLOG_FORMAT=json\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_InvalidRelationships(t *testing.T) {
	t.Setenv("RELATIONSHIPS_SOURCE", "ftp")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "invalid relationships config")
}
