// Package resolver reconciles parsed fixtures with metadata lookups and the
// operator, one file at a time.
package resolver

import (
	"errors"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/metadata"
)

var (
	// ErrAborted is returned when the operator quits. Nothing after the
	// current fixture is resolved.
	ErrAborted = errors.New("aborted by operator")
	// ErrSourceVanished marks a fixture whose file disappeared after the scan.
	ErrSourceVanished = errors.New("source file no longer exists")
)

// Options control a resolution run.
type Options struct {
	// SkipLookupFailure disables fixtures without a match instead of prompting.
	SkipLookupFailure bool
	// AutoAccept accepts the top match without prompting, unless the file
	// looks ancillary.
	AutoAccept bool
	// Mode forces every fixture to episode or movie lookups.
	Mode fixture.Mode
}

// Session is the state shared by the fixtures of one ResolveAll call.
type Session struct {
	opts Options

	// Mode is the lookup mode override. It starts as Options.Mode and is
	// changed by the mode switch action.
	Mode fixture.Mode
	// SkipRemaining is set by the done action; later fixtures are disabled
	// without a lookup.
	SkipRemaining bool

	index int
	total int
}

// NewSession creates a session for total fixtures.
func NewSession(opts Options, total int) *Session {
	return &Session{opts: opts, Mode: opts.Mode, total: total}
}

// Outcome is what an action asks the item loop to do next.
type Outcome int

const (
	// Continue shows the current results again, with the current selection.
	Continue Outcome = iota
	// Restart re-checks the file and repeats the lookup.
	Restart
	// Accepted ends the item enabled.
	Accepted
	// Skipped ends the item with its enabled flag as the action left it.
	Skipped
	// Aborted ends the whole run.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Restart:
		return "restart"
	case Accepted:
		return "accepted"
	case Skipped:
		return "skipped"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// item is the per-fixture loop state. It is discarded when the item ends.
type item struct {
	f         fixture.Fixture
	size      int64 // size at the last existence check
	selection int   // 1-based index into results
	fullHelp  bool

	results     []metadata.Match
	selected    bool // match and episode reflect selectedIdx
	selectedIdx int
	match       *metadata.Match // selected series or movie
	episode     *metadata.Match // episode detail for a selected series
}

// matched reports whether the current selection can be accepted.
func (it *item) matched() bool {
	if it.match == nil {
		return false
	}
	return it.f.Kind() == fixture.KindMovie || it.episode != nil
}
