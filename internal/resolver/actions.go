package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vmunix/sortarr/internal/cleanup"
	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/operator"
)

// action is one entry of the prompt's command table.
type action struct {
	keys []string
	name string
	desc string
	full bool // listed only in full help
	run  func(ctx context.Context, s *Session, it *item) Outcome
}

func (e *Engine) actionTable() []action {
	return []action{
		{keys: []string{"c"}, name: "Continue", desc: "accept entry details and move to next", run: e.accept},
		{keys: []string{"C"}, name: "Forced Continue", desc: "enable manually described entry", full: true, run: e.forceAccept},
		{keys: []string{"s"}, name: "Skip", desc: "ignore entry and move to next", run: e.skip},
		{keys: []string{"m"}, name: "Mode", desc: "switch between episode and movie lookups", full: true, run: e.switchMode},
		{keys: []string{"e"}, name: "Edit Fixture", desc: "manually edit entry details", full: true, run: e.edit},
		{keys: []string{"l"}, name: "List Results", desc: "list lookup results and pick another", full: true, run: e.list},
		{keys: []string{"r"}, name: "Remove", desc: "remove the entry's file or directory", full: true, run: e.remove},
		{keys: []string{"D"}, name: "Done", desc: "place enabled entries and skip the rest", full: true, run: e.done},
		{keys: []string{"Q"}, name: "Quit", desc: "quit without placing anything", full: true, run: e.quit},
		{keys: []string{"?", "h"}, name: "Help", desc: "list all actions", run: e.help},
	}
}

func (e *Engine) writeHelp(it *item) {
	if !it.fullHelp {
		var parts []string
		for _, a := range e.actions {
			if !a.full {
				parts = append(parts, fmt.Sprintf("[%s] %s", a.keys[0], a.name))
			}
		}
		e.op.Report(slog.LevelInfo, strings.Join(parts, "  "))
		return
	}

	rows := make([][]string, 0, len(e.actions))
	for _, a := range e.actions {
		rows = append(rows, []string{strings.Join(a.keys, "/"), a.name, a.desc})
	}
	e.op.Table([]string{"Key", "Action", "Description"}, rows)
	it.fullHelp = false
}

func (e *Engine) accept(_ context.Context, _ *Session, it *item) Outcome {
	if !it.matched() {
		e.op.Report(slog.LevelError, "No lookup match to accept; use C to accept the entry as described")
		return Continue
	}
	e.hydrate(it)
	return Accepted
}

func (e *Engine) forceAccept(_ context.Context, _ *Session, it *item) Outcome {
	it.f.Common().Enabled = true
	return Accepted
}

func (e *Engine) skip(_ context.Context, _ *Session, it *item) Outcome {
	it.f.Common().Enabled = false
	e.op.Report(slog.LevelInfo, "Skipping...")
	return Skipped
}

func (e *Engine) switchMode(_ context.Context, s *Session, it *item) Outcome {
	if it.f.Kind() == fixture.KindEpisode {
		s.Mode = fixture.ModeMovie
	} else {
		s.Mode = fixture.ModeEpisode
	}
	it.f = e.rederive(it.f, s.Mode)
	it.selection = 1
	e.op.Report(slog.LevelInfo, fmt.Sprintf("Lookup mode switched to %q", s.Mode))
	return Restart
}

func (e *Engine) done(_ context.Context, s *Session, _ *item) Outcome {
	s.SkipRemaining = true
	e.op.Report(slog.LevelInfo, "Done: remaining entries will be skipped")
	return Skipped
}

func (e *Engine) quit(_ context.Context, _ *Session, _ *item) Outcome {
	e.op.Report(slog.LevelWarn, "Exiting per user request")
	return Aborted
}

func (e *Engine) help(_ context.Context, _ *Session, it *item) Outcome {
	it.fullHelp = true
	return Continue
}

func (e *Engine) list(_ context.Context, _ *Session, it *item) Outcome {
	if len(it.results) == 0 {
		e.op.Report(slog.LevelWarn, "No lookup results to list")
		return Continue
	}

	rows := make([][]string, 0, len(it.results))
	for i, m := range it.results {
		rows = append(rows, []string{
			fmt.Sprintf("[%d] %d", i+1, m.ID),
			m.Title,
			formatDate(m),
			m.Country,
			fmt.Sprintf("%.2f", m.Score),
		})
	}
	e.op.Table([]string{"[#] Id", "Title", "Date", "Country", "Score"}, rows)

	answer := e.op.Prompt("Enter result item number", "1")
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		e.op.Report(slog.LevelError, fmt.Sprintf("Invalid result number %q", answer))
		n = 1
	}
	it.selection = n
	return Continue
}

// edit lets the operator change fixture fields, then re-runs the lookup
// with the edited terms.
func (e *Engine) edit(_ context.Context, _ *Session, it *item) Outcome {
	for {
		fields := it.f.Fields()

		var editable []fixture.Field
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			label := "[-] " + f.Label
			if f.Editable {
				label = fmt.Sprintf("[%d] %s", len(editable), f.Label)
				editable = append(editable, f)
			}
			rows = append(rows, []string{label, f.Value})
		}
		e.op.Table([]string{"[#] Field", "Value"}, rows)

		answer := strings.ToLower(e.op.Prompt("Enter value number or no value to exit editor", "done"))
		if answer == "done" {
			break
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 0 || n >= len(editable) {
			e.op.Report(slog.LevelError, fmt.Sprintf("Invalid selection of %q", answer))
			continue
		}

		field := editable[n]
		value := e.op.Prompt(fmt.Sprintf("EDITOR: Enter new value for %q", field.Label), field.Value)
		if err := field.Set(value); err != nil {
			e.op.Report(slog.LevelError, err.Error())
		}
	}

	it.selection = 1
	return Restart
}

// remove deletes the fixture's file, or the directory holding it, after
// two confirmations. Declining returns to the prompt; otherwise the item
// ends disabled whether or not every path could be removed.
func (e *Engine) remove(_ context.Context, _ *Session, it *item) Outcome {
	file := it.f.Common().File

	wholeDir := e.op.Confirm("Remove directory path and all its contents?", false)
	// a file directly under an input root would take the root with it
	if wholeDir && filepath.Dir(file.RelPath) == "." {
		e.op.Report(slog.LevelWarn, "File is at the top of an input path, removing the file only")
		wholeDir = false
	}
	target, shown, what := file.Path, file.RelPath, "file"
	if wholeDir {
		target, shown, what = filepath.Dir(file.Path), filepath.Dir(file.RelPath), "directory"
	}

	e.op.Report(slog.LevelWarn, fmt.Sprintf("Remove %s %s", what, shown))
	if !e.op.Confirm("Continue with deletion", true) {
		return Continue
	}

	var res cleanup.Result
	if wholeDir {
		res = cleanup.RemoveTree(target)
	} else {
		res = cleanup.RemoveFile(target)
	}

	for _, failure := range res.Failed {
		e.op.Report(slog.LevelError, fmt.Sprintf("Could not remove %q: %v", failure.Path, failure.Err))
	}
	e.op.Report(slog.LevelInfo, fmt.Sprintf("Removed %d path(s), %d failed", len(res.Removed), len(res.Failed)))
	e.log.Info("removed", "target", target, "removed", len(res.Removed), "failed", len(res.Failed))

	it.f.Common().Enabled = false
	return Skipped
}

func (e *Engine) writeLookup(it *item) {
	b := it.f.Common()
	size := operator.Size(it.size)

	if !it.matched() {
		e.op.Table([]string{"Field", "Value"}, [][]string{
			{"File Path", b.File.Path},
			{"Name", b.Name},
			{"Size", size},
			{"API Match", "FAIL"},
		})
		return
	}

	if ep := it.episode; ep != nil {
		series := it.match
		e.op.Table([]string{"Field", "Value"}, [][]string{
			{"File Path", b.File.Path},
			{"Show Name", series.Title},
			{"Season/Episode", fmt.Sprintf("%d/%d", ep.Season, ep.Episode)},
			{"Episode Title", ep.Title},
			{"Origin Country", series.Country},
			{"Air Date", formatDate(*ep)},
			{"Size", size},
			{"API Match", fmt.Sprintf("OKAY: %d/%d (%s)", series.ID, ep.ID, confidence(series.Score))},
		})
		return
	}

	m := it.match
	e.op.Table([]string{"Field", "Value"}, [][]string{
		{"File Path", b.File.Path},
		{"Movie Title", m.Title},
		{"Release Date", formatDate(*m)},
		{"Size", size},
		{"API Match", fmt.Sprintf("OKAY: %d (%s)", m.ID, confidence(m.Score))},
	})
}
