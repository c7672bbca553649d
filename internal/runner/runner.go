// Package runner drives one sortarr batch: cleanup, scan, resolution and
// placement.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/sortarr/internal/cleanup"
	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/importer"
	"github.com/vmunix/sortarr/internal/operator"
	"github.com/vmunix/sortarr/internal/resolver"
	"github.com/vmunix/sortarr/internal/scan"
)

var (
	// ErrNoInput indicates no usable input path was given.
	ErrNoInput = errors.New("at least one valid input path is required")
	// ErrNoOutput indicates the output path is missing or unusable.
	ErrNoOutput = errors.New("a valid output path is required")
)

// Config for a single run.
type Config struct {
	Inputs         []string
	Output         string
	Extensions     []string
	PreExtensions  []string
	PostExtensions []string
	Resolve        resolver.Options
	Policy         importer.Policy
}

// Resolver reconciles parsed fixtures with metadata.
type Resolver interface {
	ResolveAll(ctx context.Context, fixtures []fixture.Fixture, opts resolver.Options) ([]fixture.Fixture, error)
}

// Summary describes what a run did.
type Summary struct {
	Scanned   int
	Enabled   int
	Aborted   bool
	PreClean  cleanup.Result
	PostClean cleanup.Result
	Report    *importer.Report
}

// Runner wires the pipeline stages together.
type Runner struct {
	config   Config
	parser   *fixture.Parser
	resolver Resolver
	placer   *importer.Placer
	op       operator.Operator
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, res Resolver, placer *importer.Placer, op operator.Operator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		config:   cfg,
		parser:   fixture.NewParser(),
		resolver: res,
		placer:   placer,
		op:       op,
		logger:   logger.With("component", "runner"),
	}
}

// Run executes the pipeline. Input and output paths are checked before any
// file is touched. Quitting during resolution ends the run without placing
// anything and is not an error; Summary.Aborted reports it.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	inputs, output, err := r.paths()
	if err != nil {
		return nil, err
	}
	r.showConfiguration(inputs, output)

	sum := &Summary{}

	sum.PreClean, err = cleanup.RemoveByExtensions(ctx, inputs, r.config.PreExtensions)
	if err != nil {
		return sum, fmt.Errorf("pre-run cleanup: %w", err)
	}
	r.reportCleanup("Pre-run cleanup", sum.PreClean)

	entries, err := scan.Scan(ctx, inputs, r.config.Extensions)
	if err != nil {
		return sum, fmt.Errorf("scan: %w", err)
	}
	sum.Scanned = len(entries)
	r.logger.Info("scan complete", "inputs", len(inputs), "files", len(entries))
	if len(entries) == 0 {
		r.op.Report(slog.LevelWarn, "No media files found")
		return sum, nil
	}
	r.op.Report(slog.LevelInfo, fmt.Sprintf("Found %d media file(s)", len(entries)))

	fixtures := make([]fixture.Fixture, 0, len(entries))
	for _, e := range entries {
		fixtures = append(fixtures, r.parser.Parse(e, r.config.Resolve.Mode))
	}

	resolved, err := r.resolver.ResolveAll(ctx, fixtures, r.config.Resolve)
	if resolver.IsAbort(err) {
		sum.Aborted = true
		r.op.Report(slog.LevelWarn, "Run aborted, nothing was placed")
		return sum, nil
	}
	if err != nil {
		return sum, err
	}
	for _, f := range resolved {
		if f.Common().Enabled {
			sum.Enabled++
		}
	}

	sum.Report = r.placer.Place(ctx, output, resolved, r.config.Policy)
	r.reportPlacement(sum.Report)

	if err := ctx.Err(); err != nil {
		return sum, err
	}

	// files are already placed; post-run cleanup failures are reported only
	sum.PostClean, err = cleanup.RemoveByExtensions(ctx, inputs, r.config.PostExtensions)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		r.cleanupFailed(err)
	}
	dirs, err := cleanup.RemoveEmptyDirs(ctx, inputs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		r.cleanupFailed(err)
	}
	sum.PostClean.Removed = append(sum.PostClean.Removed, dirs.Removed...)
	sum.PostClean.Failed = append(sum.PostClean.Failed, dirs.Failed...)
	r.reportCleanup("Post-run cleanup", sum.PostClean)

	return sum, nil
}

// paths resolves input and output paths to absolute form. Inputs must exist;
// the output directory is created when missing.
func (r *Runner) paths() ([]string, string, error) {
	if len(r.config.Inputs) == 0 {
		return nil, "", ErrNoInput
	}
	var inputs, invalid []string
	for _, in := range r.config.Inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			invalid = append(invalid, in)
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			invalid = append(invalid, in)
			continue
		}
		inputs = append(inputs, abs)
	}
	if len(invalid) > 0 {
		return nil, "", fmt.Errorf("%w: invalid input path(s): %s", ErrNoInput, strings.Join(invalid, ", "))
	}

	if r.config.Output == "" {
		return nil, "", ErrNoOutput
	}
	output, err := filepath.Abs(r.config.Output)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	if info, err := os.Stat(output); err == nil && !info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is not a directory", ErrNoOutput, output)
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return inputs, output, nil
}
