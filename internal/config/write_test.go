package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/sortarr/internal/importer"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "sortarr", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[scan]")
	assert.Contains(t, string(content), "[output]")
	assert.Contains(t, string(content), "${TMDB_API_KEY}")
}

func TestWriteDefault_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	err := WriteDefault(path)
	assert.ErrorIs(t, err, ErrExists)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(content))
}

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SORTARR_OUTPUT", "/srv/media")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.TMDB.APIKey)
	assert.Equal(t, "/srv/media", cfg.Output.Path)
	assert.Equal(t, importer.DefaultEpisodeTemplate, cfg.Output.EpisodeTemplate)
	assert.Equal(t, []string{"nfo", "txt", "url", "sfv", "srr", "exe"}, cfg.Cleanup.PreExtensions)
}

func TestConfig_Write(t *testing.T) {
	cfg := Default()
	cfg.Output.Path = "/media/library"
	cfg.Lookup.Mode = "movie"

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path), "Write failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "/media/library")
	assert.Contains(t, string(content), `mode = "movie"`)
}
