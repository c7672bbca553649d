package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.mkv")
	touch(t, path)

	r := RemoveFile(path)
	assert.True(t, r.OK())
	assert.Equal(t, []string{path}, r.Removed)
	assert.NoFileExists(t, path)

	r = RemoveFile(path)
	assert.False(t, r.OK())
	require.Len(t, r.Failed, 1)
	assert.ErrorIs(t, r.Failed[0].Err, os.ErrNotExist)
	assert.Error(t, r.Err())
}

func TestRemoveTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "release")
	touch(t, filepath.Join(root, "a.mkv"))
	touch(t, filepath.Join(root, "Sample", "sample.mkv"))

	r := RemoveTree(root)
	assert.True(t, r.OK())
	assert.NoDirExists(t, root)
	assert.Len(t, r.Removed, 4)
	// parent removed last
	assert.Equal(t, root, r.Removed[len(r.Removed)-1])
}

func TestRemoveTree_PartialFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}

	root := filepath.Join(t.TempDir(), "release")
	locked := filepath.Join(root, "locked")
	touch(t, filepath.Join(root, "a.mkv"))
	touch(t, filepath.Join(locked, "b.mkv"))
	require.NoError(t, os.Chmod(locked, 0555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	r := RemoveTree(root)
	assert.False(t, r.OK())
	assert.Contains(t, r.Removed, filepath.Join(root, "a.mkv"))

	var failed []string
	for _, f := range r.Failed {
		failed = append(failed, f.Path)
	}
	assert.Contains(t, failed, filepath.Join(locked, "b.mkv"))
	assert.Contains(t, failed, root)
	assert.FileExists(t, filepath.Join(locked, "b.mkv"))
}

func TestRemoveByExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "movie.mkv"))
	touch(t, filepath.Join(root, "info.NFO"))
	touch(t, filepath.Join(root, "sub", "x.txt"))

	r, err := RemoveByExtensions(context.Background(), []string{root}, []string{"nfo", "txt"})
	require.NoError(t, err)
	assert.Len(t, r.Removed, 2)
	assert.FileExists(t, filepath.Join(root, "movie.mkv"))
	assert.NoFileExists(t, filepath.Join(root, "info.NFO"))
	assert.NoFileExists(t, filepath.Join(root, "sub", "x.txt"))
}

func TestRemoveByExtensions_Empty(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "movie.mkv"))

	r, err := RemoveByExtensions(context.Background(), []string{root}, nil)
	require.NoError(t, err)
	assert.Empty(t, r.Removed)
	assert.FileExists(t, filepath.Join(root, "movie.mkv"))
}

func TestRemoveEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0755))
	touch(t, filepath.Join(root, "keep", "file.mkv"))

	r, err := RemoveEmptyDirs(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, r.OK())
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a"),
	}, r.Removed)
	assert.DirExists(t, root)
	assert.DirExists(t, filepath.Join(root, "keep"))
}

func TestRemoveEmptyDirs_MissingRoot(t *testing.T) {
	r, err := RemoveEmptyDirs(context.Background(), []string{filepath.Join(t.TempDir(), "gone")})
	require.NoError(t, err)
	assert.Empty(t, r.Removed)
}
