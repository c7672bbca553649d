// Package fixture holds the per-file records that move through a sorting
// run: the scanned file entry and the episode or movie candidate derived
// from it.
package fixture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Entry is a scanned file. It is a value type; copies are independent.
type Entry struct {
	Path    string // absolute path
	RelPath string // path relative to the scan root
	Size    int64  // bytes
}

// Name returns the base file name.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Ext returns the extension without the leading dot.
func (e Entry) Ext() string {
	return strings.TrimPrefix(filepath.Ext(e.Path), ".")
}

// Stem returns the file name without its extension.
func (e Entry) Stem() string {
	name := e.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Kind discriminates the fixture variants.
type Kind int

const (
	KindEpisode Kind = iota + 1
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindEpisode:
		return "episode"
	case KindMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// Mode selects which parser rules and lookups apply.
type Mode int

const (
	ModeAuto Mode = iota
	ModeEpisode
	ModeMovie
)

func (m Mode) String() string {
	switch m {
	case ModeEpisode:
		return "episode"
	case ModeMovie:
		return "movie"
	default:
		return "auto"
	}
}

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("invalid mode")

// ParseMode converts a mode name ("auto", "episode", "movie") to a Mode.
// The empty string is auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "episode", "episodes", "tv":
		return ModeEpisode, nil
	case "movie", "movies", "film":
		return ModeMovie, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ModeFor returns the mode that forces kind k.
func ModeFor(k Kind) Mode {
	if k == KindMovie {
		return ModeMovie
	}
	return ModeEpisode
}

// Base is the state shared by every fixture variant.
type Base struct {
	File    Entry
	ID      int64  // provider identifier, 0 when unmatched
	Name    string // show name or movie title
	Year    int    // 0 when unknown
	Enabled bool   // only enabled fixtures are placed
}

// Fixture is an episode or a movie candidate for one file.
type Fixture interface {
	Kind() Kind
	Common() *Base
	// Fields lists the attributes shown by the editor, in display order.
	Fields() []Field
}

// Episode is a TV episode candidate.
type Episode struct {
	Base
	Season       int
	EpisodeStart int
	EpisodeEnd   int // 0 unless the file covers several episodes
	Title        string
	SeriesID     int64
}

func (e *Episode) Kind() Kind    { return KindEpisode }
func (e *Episode) Common() *Base { return &e.Base }

// Episodes returns every episode number the file covers.
func (e *Episode) Episodes() []int {
	if e.EpisodeEnd <= e.EpisodeStart {
		return []int{e.EpisodeStart}
	}
	eps := make([]int, 0, e.EpisodeEnd-e.EpisodeStart+1)
	for n := e.EpisodeStart; n <= e.EpisodeEnd; n++ {
		eps = append(eps, n)
	}
	return eps
}

// Movie is a feature film candidate.
type Movie struct {
	Base
}

func (m *Movie) Kind() Kind    { return KindMovie }
func (m *Movie) Common() *Base { return &m.Base }

// Field is one row of the fixture editor.
type Field struct {
	Label    string
	Value    string
	Editable bool
	set      func(string) error
}

// ErrReadOnly is returned when setting a field that cannot be edited.
var ErrReadOnly = errors.New("field is read-only")

// Set assigns a new value parsed from operator input.
func (f Field) Set(v string) error {
	if !f.Editable || f.set == nil {
		return fmt.Errorf("%w: %s", ErrReadOnly, f.Label)
	}
	return f.set(strings.TrimSpace(v))
}

func (m *Movie) Fields() []Field {
	return append(baseFields(&m.Base, "Title"), readOnly("File", m.File.Path))
}

func (e *Episode) Fields() []Field {
	fields := baseFields(&e.Base, "Show")
	fields = append(fields,
		Field{Label: "Season", Value: strconv.Itoa(e.Season), Editable: true, set: setInt(&e.Season)},
		Field{Label: "Episode", Value: strconv.Itoa(e.EpisodeStart), Editable: true, set: setInt(&e.EpisodeStart)},
		Field{Label: "Episode End", Value: optionalInt(e.EpisodeEnd), Editable: true, set: setInt(&e.EpisodeEnd)},
		Field{Label: "Episode Title", Value: e.Title, Editable: true, set: setString(&e.Title)},
		readOnly("Series ID", optionalInt64(e.SeriesID)),
		readOnly("File", e.File.Path),
	)
	return fields
}

func baseFields(b *Base, nameLabel string) []Field {
	return []Field{
		{Label: "Enabled", Value: strconv.FormatBool(b.Enabled), Editable: true, set: setBool(&b.Enabled)},
		{Label: nameLabel, Value: b.Name, Editable: true, set: setString(&b.Name)},
		{Label: "Year", Value: optionalInt(b.Year), Editable: true, set: setInt(&b.Year)},
		readOnly("ID", optionalInt64(b.ID)),
	}
}

func readOnly(label, value string) Field {
	return Field{Label: label, Value: value}
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		if v == "" {
			*dst = 0
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("not a non-negative number: %q", v)
		}
		*dst = n
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		switch strings.ToLower(v) {
		case "1", "t", "true", "y", "yes":
			*dst = true
		case "0", "f", "false", "n", "no":
			*dst = false
		default:
			return fmt.Errorf("not a boolean: %q", v)
		}
		return nil
	}
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func optionalInt64(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
