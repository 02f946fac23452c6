package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineforge/lineforge/pkg/config"
)

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte(""), 0o600))

	cfg, err := config.LoadConfig(emptyPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "\n", cfg.Timeline.DefaultEOL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Positive(t, cfg.Cache.MaxEntries)
	assert.Positive(t, cfg.Cache.MaxBytes)
	assert.Positive(t, cfg.Tags.BloomEstimate)
	assert.True(t, cfg.Checkpoint.Enabled)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lineforge.yaml")
	content := `storage:
  directory: "/tmp/lineforge-store"
cache:
  enabled: true
  max_entries: 1024
  max_bytes: 134217728
timeline:
  default_eol: "\r\n"
tags:
  bloom_estimate: 5000
  bloom_fp_rate: 0.02
checkpoint:
  enabled: false
  dir: "/tmp/ckpt"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/tmp/lineforge-store", cfg.Storage.Directory)
	assert.Equal(t, 1024, cfg.Cache.MaxEntries)
	assert.Equal(t, 134217728, cfg.Cache.MaxBytes)
	assert.Equal(t, "\r\n", cfg.Timeline.DefaultEOL)
	assert.Equal(t, uint(5000), cfg.Tags.BloomEstimate)
	assert.InDelta(t, 0.02, cfg.Tags.BloomFalsePositiveRate, 0.001)
	assert.False(t, cfg.Checkpoint.Enabled)
	assert.Equal(t, "/tmp/ckpt", cfg.Checkpoint.Dir)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte(""), 0o600))

	t.Setenv("LINEFORGE_STORAGE_DIRECTORY", "/tmp/env-store")
	t.Setenv("LINEFORGE_CACHE_MAX_ENTRIES", "2048")

	cfg, err := config.LoadConfig(emptyPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-store", cfg.Storage.Directory)
	assert.Equal(t, 2048, cfg.Cache.MaxEntries)
}

func TestLoadConfig_InvalidEOL_ReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad-eol.yaml")
	content := `timeline:
  default_eol: "\t"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, config.ErrInvalidEOL)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	content := `cache:
  max_entries: [invalid yaml
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_ExplicitPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("/nonexistent/path/lineforge.yaml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ZeroCacheEntries_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "zero-cache.yaml")
	content := `cache:
  enabled: true
  max_entries: 0
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, config.ErrInvalidCacheEntries)
}
