package runner

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/sortarr/internal/cleanup"
	"github.com/vmunix/sortarr/internal/importer"
	"github.com/vmunix/sortarr/internal/operator"
	"github.com/vmunix/sortarr/internal/resolver"
)

func (r *Runner) showConfiguration(inputs []string, output string) {
	var rows [][]string
	for i, in := range inputs {
		rows = append(rows, []string{fmt.Sprintf("Search Directory (#%d)", i+1), in})
	}

	removeExts := slices.Concat(r.config.PreExtensions, r.config.PostExtensions)
	slices.Sort(removeExts)
	removeExts = slices.Compact(removeExts)

	rows = append(rows,
		[]string{"Output Directory", output},
		[]string{"Search Extension List", strings.Join(r.config.Extensions, ",")},
		[]string{"Remove Extension List", strings.Join(removeExts, ",")},
		[]string{"Lookup Mode", r.config.Resolve.Mode.String()},
		[]string{"Collision Policy", policyName(r.config.Policy)},
	)
	r.op.Table([]string{"Runtime Configuration", "Value"}, rows)
}

func policyName(p importer.Policy) string {
	switch {
	case p.Overwrite:
		return "overwrite"
	case p.SmartOverwrite:
		return "overwrite when larger"
	default:
		return "keep existing"
	}
}

func (r *Runner) reportCleanup(stage string, res cleanup.Result) {
	if len(res.Removed) == 0 && len(res.Failed) == 0 {
		return
	}
	r.op.Report(slog.LevelInfo, fmt.Sprintf("%s removed %d path(s)", stage, len(res.Removed)))
	for _, f := range res.Failed {
		r.op.Report(slog.LevelWarn, fmt.Sprintf("%s could not remove %s: %v", stage, f.Path, f.Err))
	}
	r.logger.Info("cleanup", "stage", stage, "removed", len(res.Removed), "failed", len(res.Failed))
}

func (r *Runner) cleanupFailed(err error) {
	r.op.Report(slog.LevelWarn, fmt.Sprintf("Post-run cleanup failed: %v", err))
	r.logger.Warn("post-run cleanup failed", "error", err)
}

func (r *Runner) reportPlacement(rep *importer.Report) {
	if len(rep.Placements) == 0 {
		r.op.Report(slog.LevelWarn, "Nothing to place")
		return
	}

	rows := make([][]string, 0, len(rep.Placements))
	for _, p := range rep.Placements {
		size := ""
		if s := p.Fixture.Common().File.Size; s > 0 {
			size = operator.Size(s)
		}
		status := p.Outcome.String()
		if p.Replaced {
			status += " (replaced)"
		}
		rows = append(rows, []string{status, filepath.Base(p.Source), p.Destination, size})
	}
	r.op.Table([]string{"Status", "Source", "Destination", "Size"}, rows)

	for _, p := range rep.Placements {
		if p.Err != nil {
			r.op.Report(slog.LevelWarn, p.Err.Error())
		}
	}

	level := slog.LevelInfo
	if rep.Failed > 0 {
		level = slog.LevelError
	}
	r.op.Report(level, fmt.Sprintf("Placed %d file(s), %d conflict(s), %d failure(s)",
		rep.Committed, rep.Conflicts, rep.Failed))
}

// Describe summarizes a finished run in one line.
func (s *Summary) Describe() string {
	if s.Aborted {
		return resolver.ErrAborted.Error()
	}
	if s.Report == nil {
		return fmt.Sprintf("scanned %d file(s), nothing placed", s.Scanned)
	}
	return fmt.Sprintf("scanned %d file(s), %d enabled, %d placed", s.Scanned, s.Enabled, s.Report.Committed)
}
