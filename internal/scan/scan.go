// Package scan finds media files under one or more input roots.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/sortarr/internal/fixture"
)

// ErrNotFound is returned when a root does not exist.
var ErrNotFound = errors.New("input path not found")

// Extensions is a case-insensitive set of file extensions without dots.
type Extensions map[string]struct{}

// NewExtensions builds a set from names like "mkv" or ".MKV".
func NewExtensions(exts []string) Extensions {
	set := make(Extensions, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Match reports whether path has an extension in the set.
// An empty set matches every path.
func (x Extensions) Match(path string) bool {
	if len(x) == 0 {
		return true
	}
	_, ok := x[strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))]
	return ok
}

// List returns the extensions in sorted order.
func (x Extensions) List() []string {
	out := make([]string, 0, len(x))
	for ext := range x {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Scan walks roots in parallel and returns the regular files whose extension
// is in exts. Results are ordered by root, then by path relative to the root.
// A file reachable from several roots is reported once, under the first.
func Scan(ctx context.Context, roots []string, exts []string) ([]fixture.Entry, error) {
	set := NewExtensions(exts)
	perRoot := make([][]fixture.Entry, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			entries, err := walk(ctx, root, set)
			if err != nil {
				return err
			}
			perRoot[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []fixture.Entry
	for _, entries := range perRoot {
		for _, e := range entries {
			if seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			out = append(out, e)
		}
	}
	return out, nil
}

func walk(ctx context.Context, root string, set Extensions) ([]fixture.Entry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	// a single file is its own root
	if !info.IsDir() {
		if !info.Mode().IsRegular() || !set.Match(abs) {
			return nil, nil
		}
		return []fixture.Entry{{Path: abs, RelPath: filepath.Base(abs), Size: info.Size()}}, nil
	}

	var entries []fixture.Entry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			// unreadable subtree
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() || !set.Match(path) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		entries = append(entries, fixture.Entry{Path: path, RelPath: rel, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	slices.SortFunc(entries, func(a, b fixture.Entry) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return entries, nil
}
