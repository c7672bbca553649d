package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/operator"
)

// DefaultAncillarySize is the size below which a file is assumed to be a
// sample or trailer.
const DefaultAncillarySize int64 = 40_000_000

const defaultPause = time.Second

// Engine runs the per-fixture resolution loop.
type Engine struct {
	provider      metadata.Provider
	parser        *fixture.Parser
	op            operator.Operator
	log           *slog.Logger
	ancillarySize int64
	pause         time.Duration
	actions       []action
}

// Option configures an Engine.
type Option func(*Engine)

// WithAncillarySize sets the ancillary file threshold in bytes.
func WithAncillarySize(size int64) Option {
	return func(e *Engine) {
		e.ancillarySize = size
	}
}

// WithPause sets how long to wait after invalid input.
func WithPause(d time.Duration) Option {
	return func(e *Engine) {
		e.pause = d
	}
}

// New creates an Engine.
func New(provider metadata.Provider, parser *fixture.Parser, op operator.Operator, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		provider:      provider,
		parser:        parser,
		op:            op,
		log:           log.With("component", "resolver"),
		ancillarySize: DefaultAncillarySize,
		pause:         defaultPause,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.actions = e.actionTable()
	return e
}

// ResolveAll resolves fixtures in order and returns all of them, in the same
// order. Once the operator asks to stop, the rest are disabled without a
// lookup. On ErrAborted or a cancelled context the unresolved remainder is
// returned disabled together with the error.
func (e *Engine) ResolveAll(ctx context.Context, fixtures []fixture.Fixture, opts Options) ([]fixture.Fixture, error) {
	s := NewSession(opts, len(fixtures))
	out := make([]fixture.Fixture, 0, len(fixtures))

	for i, f := range fixtures {
		if s.SkipRemaining {
			f.Common().Enabled = false
			out = append(out, f)
			continue
		}

		resolved, err := e.ResolveOne(ctx, s, f)
		out = append(out, resolved)
		if err != nil {
			for _, rest := range fixtures[i+1:] {
				rest.Common().Enabled = false
				out = append(out, rest)
			}
			return out, err
		}
	}

	e.log.Info("resolution complete", "fixtures", len(out), "enabled", countEnabled(out))
	return out, nil
}

// ResolveOne runs the interactive loop for a single fixture. The returned
// fixture may be a different variant than f after a mode switch. Only
// ErrAborted and context errors are returned; everything else is reported to
// the operator and ends the fixture disabled.
func (e *Engine) ResolveOne(ctx context.Context, s *Session, f fixture.Fixture) (fixture.Fixture, error) {
	s.index++
	it := &item{f: f, selection: 1}

	for {
		if err := ctx.Err(); err != nil {
			it.f.Common().Enabled = false
			return it.f, err
		}

		e.op.Report(slog.LevelInfo, fmt.Sprintf("%03d of %03d", s.index, s.total))

		if s.Mode != fixture.ModeAuto && it.f.Kind() != kindFor(s.Mode) {
			it.f = e.rederive(it.f, s.Mode)
		}

		if err := e.checkSource(it); err != nil {
			e.op.Report(slog.LevelError, fmt.Sprintf("File no longer exists: %s", it.f.Common().File.RelPath))
			e.log.Warn("source vanished", "path", it.f.Common().File.Path, "error", err)
			it.f.Common().Enabled = false
			return it.f, nil
		}

		if err := e.query(ctx, it); err != nil {
			it.f.Common().Enabled = false
			return it.f, err
		}

		outcome, err := e.present(ctx, s, it)
		if err != nil {
			it.f.Common().Enabled = false
			return it.f, err
		}
		switch outcome {
		case Restart:
			continue
		case Aborted:
			return it.f, ErrAborted
		default:
			return it.f, nil
		}
	}
}

// present shows the selected match and dispatches actions until one of them
// ends the item or asks for a new lookup.
func (e *Engine) present(ctx context.Context, s *Session, it *item) (Outcome, error) {
	for {
		if err := e.selectMatch(ctx, it); err != nil {
			return Aborted, err
		}
		e.writeLookup(it)

		if s.opts.SkipLookupFailure && !it.matched() {
			e.op.Report(slog.LevelWarn, "Skipping: lookup failures are set to skip automatically")
			it.f.Common().Enabled = false
			return Skipped, nil
		}

		def := e.defaultAction(it)
		if s.opts.AutoAccept && it.matched() && !e.ancillary(it) {
			e.hydrate(it)
			e.op.Report(slog.LevelInfo, "Accepted top match automatically")
			return Accepted, nil
		}

		e.writeHelp(it)
		input := e.op.Prompt("Enter action command shortcut name", def)
		if operator.InputClosed(e.op) {
			e.op.Report(slog.LevelWarn, "No more input, skipping")
			input = "s"
		}

		outcome, err := e.dispatch(ctx, s, it, input)
		if err != nil {
			return Aborted, err
		}
		if outcome != Continue {
			e.log.Debug("item finished", "file", it.f.Common().File.RelPath, "outcome", outcome)
			return outcome, nil
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, s *Session, it *item, input string) (Outcome, error) {
	for _, a := range e.actions {
		for _, key := range a.keys {
			if key == input {
				return a.run(ctx, s, it), nil
			}
		}
	}

	e.op.Report(slog.LevelError, fmt.Sprintf("Invalid command shortcut %q", input))
	select {
	case <-ctx.Done():
		return Aborted, ctx.Err()
	case <-time.After(e.pause):
	}
	return Continue, nil
}

func (e *Engine) checkSource(it *item) error {
	info, err := os.Stat(it.f.Common().File.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceVanished, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: is a directory", ErrSourceVanished)
	}
	it.size = info.Size()
	return nil
}

// query searches the provider with the fixture's current terms. Provider
// errors are reported and leave an empty result; only cancellation is
// returned.
func (e *Engine) query(ctx context.Context, it *item) error {
	b := it.f.Common()
	q := metadata.Query{Kind: it.f.Kind(), Title: b.Name}
	if it.f.Kind() == fixture.KindMovie {
		q.Year = b.Year
	}

	results, err := e.provider.Search(ctx, q)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.op.Report(slog.LevelError, fmt.Sprintf("Lookup failed: %v", err))
		e.log.Warn("lookup failed", "title", q.Title, "kind", q.Kind, "error", err)
		results = nil
	}
	it.results = results
	it.selected = false
	return nil
}

// selectMatch picks the result at the selection index, falling back to the
// top result when the index is out of range, and fetches episode detail.
func (e *Engine) selectMatch(ctx context.Context, it *item) error {
	idx := it.selection - 1
	if idx < 0 || idx >= len(it.results) {
		idx = 0
	}
	if it.selected && idx == it.selectedIdx {
		return nil
	}
	it.match, it.episode = nil, nil
	it.selected, it.selectedIdx = true, idx
	if len(it.results) == 0 {
		return nil
	}
	it.match = &it.results[idx]

	ep, ok := it.f.(*fixture.Episode)
	if !ok {
		return nil
	}
	detail, err := e.provider.Episode(ctx, *it.match, ep.Season, ep.EpisodeStart)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.log.Debug("episode lookup failed", "series", it.match.ID, "season", ep.Season, "episode", ep.EpisodeStart, "error", err)
		return nil
	}
	it.episode = detail
	return nil
}

func (e *Engine) ancillary(it *item) bool {
	return it.size < e.ancillarySize
}

func (e *Engine) defaultAction(it *item) string {
	switch {
	case e.ancillary(it):
		e.op.Report(slog.LevelWarn, "File is likely an ancillary file (sample, trailer, etc). Marking for removal!")
		return "r"
	case it.matched():
		return "c"
	default:
		return "s"
	}
}

// hydrate copies the selected match onto the fixture and enables it.
func (e *Engine) hydrate(it *item) {
	switch f := it.f.(type) {
	case *fixture.Episode:
		series, ep := it.match, it.episode
		f.Name = series.Title
		f.Title = ep.Title
		f.Season = ep.Season
		if ep.Episode != f.EpisodeStart {
			f.EpisodeEnd = shiftEnd(f.EpisodeStart, f.EpisodeEnd, ep.Episode)
		}
		f.EpisodeStart = ep.Episode
		f.ID = ep.ID
		f.SeriesID = series.ID
		if year := series.Year(); year > 0 {
			f.Year = year
		}
	case *fixture.Movie:
		f.Name = it.match.Title
		f.ID = it.match.ID
		if year := it.match.Year(); year > 0 {
			f.Year = year
		}
	}
	it.f.Common().Enabled = true
}

// shiftEnd keeps the length of a multi-episode range when its start moves.
func shiftEnd(oldStart, oldEnd, newStart int) int {
	if oldEnd <= oldStart {
		return 0
	}
	return newStart + (oldEnd - oldStart)
}

func (e *Engine) rederive(f fixture.Fixture, mode fixture.Mode) fixture.Fixture {
	next := e.parser.Parse(f.Common().File, mode)
	e.log.Debug("fixture re-derived", "file", f.Common().File.RelPath, "kind", next.Kind())
	return next
}

func kindFor(mode fixture.Mode) fixture.Kind {
	if mode == fixture.ModeMovie {
		return fixture.KindMovie
	}
	return fixture.KindEpisode
}

func countEnabled(fixtures []fixture.Fixture) int {
	n := 0
	for _, f := range fixtures {
		if f.Common().Enabled {
			n++
		}
	}
	return n
}

// IsAbort reports whether err ended the run at the operator's request.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAborted)
}
