// Package cleanup removes unwanted files and directories around a sorting
// run. Every function keeps going after individual failures and reports
// what it removed and what it could not.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/sortarr/internal/scan"
)

// Failure is a path that could not be removed.
type Failure struct {
	Path string
	Err  error
}

// Result lists removed and failed paths in the order they were attempted.
type Result struct {
	Removed []string
	Failed  []Failure
}

// OK reports whether nothing failed.
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Err joins all failures, or returns nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

func (r *Result) add(other Result) {
	r.Removed = append(r.Removed, other.Removed...)
	r.Failed = append(r.Failed, other.Failed...)
}

func (r *Result) remove(path string) bool {
	if err := os.Remove(path); err != nil {
		r.Failed = append(r.Failed, Failure{Path: path, Err: err})
		return false
	}
	r.Removed = append(r.Removed, path)
	return true
}

// RemoveFile deletes a single file.
func RemoveFile(path string) Result {
	var r Result
	r.remove(path)
	return r
}

// RemoveTree deletes path and everything below it, children before parents.
// A directory whose contents could not all be removed is reported as failed
// along with the children that failed.
func RemoveTree(path string) Result {
	var r Result

	info, err := os.Lstat(path)
	if err != nil {
		r.Failed = append(r.Failed, Failure{Path: path, Err: err})
		return r
	}
	if !info.IsDir() {
		r.remove(path)
		return r
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		r.Failed = append(r.Failed, Failure{Path: path, Err: err})
		return r
	}
	for _, entry := range entries {
		r.add(RemoveTree(filepath.Join(path, entry.Name())))
	}
	r.remove(path)
	return r
}

// RemoveByExtensions deletes every file under roots whose extension is in
// exts. An empty extension list removes nothing, and so does a root that no
// longer exists.
func RemoveByExtensions(ctx context.Context, roots []string, exts []string) (Result, error) {
	var r Result
	if len(scan.NewExtensions(exts)) == 0 {
		return r, nil
	}

	present := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		present = append(present, root)
	}

	files, err := scan.Scan(ctx, present, exts)
	if errors.Is(err, scan.ErrNotFound) {
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("find files: %w", err)
	}
	for _, f := range files {
		r.remove(f.Path)
	}
	return r, nil
}

// RemoveEmptyDirs deletes empty directories below each root, deepest
// first, so directories emptied along the way go too. Roots are kept.
func RemoveEmptyDirs(ctx context.Context, roots []string) (Result, error) {
	var r Result
	for _, root := range roots {
		dirs, err := subdirs(ctx, root)
		if err != nil {
			return r, err
		}
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				r.Failed = append(r.Failed, Failure{Path: dir, Err: err})
				continue
			}
			if len(entries) == 0 {
				r.remove(dir)
			}
		}
	}
	return r, nil
}

// subdirs lists directories below root, deepest first.
func subdirs(ctx context.Context, root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.SortStableFunc(dirs, func(a, b string) int {
		return depth(b) - depth(a)
	})
	return dirs, nil
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
