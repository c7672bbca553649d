// Package importer places resolved media files into the output library.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmunix/sortarr/internal/fixture"
)

// Policy decides what happens when a destination already exists.
type Policy struct {
	// Overwrite replaces any existing destination.
	Overwrite bool
	// SmartOverwrite replaces an existing destination only when the incoming
	// file is strictly larger.
	SmartOverwrite bool
}

// Outcome is the result of placing one fixture.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeSkippedConflict
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeSkippedConflict:
		return "conflict"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Placement records what happened to a single fixture.
type Placement struct {
	Fixture     fixture.Fixture
	Source      string
	Destination string
	Outcome     Outcome
	Err         error
	Replaced    bool // an existing destination was overwritten
}

// Report summarizes a placement run.
type Report struct {
	Placements []Placement
	Committed  int
	Conflicts  int
	Failed     int
}

func (r *Report) add(p Placement) {
	r.Placements = append(r.Placements, p)
	switch p.Outcome {
	case OutcomeCommitted:
		r.Committed++
	case OutcomeSkippedConflict:
		r.Conflicts++
	case OutcomeFailed:
		r.Failed++
	}
}

// Placer moves enabled fixtures to their templated destinations.
type Placer struct {
	renamer *Renamer
	log     *slog.Logger
}

// NewPlacer creates a new Placer.
func NewPlacer(renamer *Renamer, log *slog.Logger) *Placer {
	if renamer == nil {
		renamer = NewRenamer("", "")
	}
	return &Placer{
		renamer: renamer,
		log:     log.With("component", "importer"),
	}
}

// Place moves every enabled fixture below root. Disabled fixtures are left
// alone and do not appear in the report. A failure on one fixture never stops
// the others; once ctx is done the remaining fixtures are reported as failed.
func (p *Placer) Place(ctx context.Context, root string, fixtures []fixture.Fixture, policy Policy) *Report {
	report := &Report{}
	for _, f := range fixtures {
		if !f.Common().Enabled {
			continue
		}
		pl := Placement{Fixture: f, Source: f.Common().File.Path}
		if err := ctx.Err(); err != nil {
			pl.Outcome, pl.Err = OutcomeFailed, err
			report.add(pl)
			continue
		}
		p.placeOne(root, &pl, policy)
		report.add(pl)
	}

	p.log.Info("placement complete",
		"committed", report.Committed,
		"conflicts", report.Conflicts,
		"failed", report.Failed)
	return report
}

func (p *Placer) placeOne(root string, pl *Placement, policy Policy) {
	fail := func(err error) {
		pl.Outcome, pl.Err = OutcomeFailed, err
		p.log.Warn("placement failed", "src", pl.Source, "error", err)
	}

	rel, err := p.renamer.Path(pl.Fixture)
	if err != nil {
		fail(err)
		return
	}
	dst := filepath.Join(root, filepath.FromSlash(rel))
	pl.Destination = dst
	if err := ValidatePath(dst, root); err != nil {
		fail(err)
		return
	}

	srcInfo, err := os.Stat(pl.Source)
	if err != nil {
		fail(fmt.Errorf("%w: %v", ErrMoveFailed, err))
		return
	}

	dstInfo, err := os.Stat(dst)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		fail(fmt.Errorf("%w: %v", ErrMoveFailed, err))
		return
	case os.SameFile(srcInfo, dstInfo):
		pl.Outcome = OutcomeCommitted
		p.log.Debug("already in place", "path", dst)
		return
	case dstInfo.IsDir():
		fail(fmt.Errorf("%w: destination is a directory: %s", ErrMoveFailed, dst))
		return
	case policy.Overwrite:
		pl.Replaced = true
	case policy.SmartOverwrite && srcInfo.Size() > dstInfo.Size():
		pl.Replaced = true
	default:
		pl.Outcome = OutcomeSkippedConflict
		pl.Err = fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		p.log.Info("destination exists, skipping", "src", pl.Source, "dst", dst,
			"src_size", srcInfo.Size(), "dst_size", dstInfo.Size())
		return
	}

	if err := MoveFile(pl.Source, dst); err != nil {
		fail(err)
		return
	}
	pl.Outcome = OutcomeCommitted
	p.log.Info("placed", "src", pl.Source, "dst", dst, "replaced", pl.Replaced)
}
