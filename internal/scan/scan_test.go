package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func relPaths(t *testing.T, roots []string, exts []string) []string {
	t.Helper()
	entries, err := Scan(context.Background(), roots, exts)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RelPath
	}
	return out
}

func TestExtensions(t *testing.T) {
	set := NewExtensions([]string{"mkv", ".MP4", " ", ""})
	assert.Equal(t, []string{"mkv", "mp4"}, set.List())
	assert.True(t, set.Match("/a/b.MKV"))
	assert.True(t, set.Match("b.mp4"))
	assert.False(t, set.Match("b.avi"))
	assert.False(t, set.Match("noext"))

	assert.True(t, NewExtensions(nil).Match("anything.txt"))
}

func TestScan_FiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "Show.S01E02.mkv"), 3)
	writeFile(t, filepath.Join(root, "a.MKV"), 1)
	writeFile(t, filepath.Join(root, "b", "notes.txt"), 1)
	writeFile(t, filepath.Join(root, "c.mp4"), 2)

	entries, err := Scan(context.Background(), []string{root}, []string{"mkv", "mp4"})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "a.MKV", entries[0].RelPath)
	assert.Equal(t, filepath.Join("b", "Show.S01E02.mkv"), entries[1].RelPath)
	assert.Equal(t, "c.mp4", entries[2].RelPath)
	assert.Equal(t, int64(3), entries[1].Size)
	assert.Equal(t, filepath.Join(root, "b", "Show.S01E02.mkv"), entries[1].Path)
}

func TestScan_RootOrderAndDedup(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "z.mkv"), 1)
	writeFile(t, filepath.Join(second, "a.mkv"), 1)
	writeFile(t, filepath.Join(second, "sub", "b.mkv"), 1)

	// second root listed twice and also nested
	got := relPaths(t, []string{first, second, filepath.Join(second, "sub"), second}, []string{"mkv"})
	assert.Equal(t, []string{"z.mkv", "a.mkv", filepath.Join("sub", "b.mkv")}, got)
}

func TestScan_FileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "movie.mkv")
	writeFile(t, file, 5)

	entries, err := Scan(context.Background(), []string{file}, []string{"mkv"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "movie.mkv", entries[0].RelPath)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScan_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mkv"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, []string{root}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
