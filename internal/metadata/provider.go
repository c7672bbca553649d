// Package metadata looks up episode and movie identities for fixtures.
package metadata

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks . Provider

import (
	"context"
	"time"

	"github.com/vmunix/sortarr/internal/fixture"
)

// Query describes what to search for.
type Query struct {
	Kind  fixture.Kind
	Title string
	Year  int // 0 when unknown
}

// Match is a single provider result.
type Match struct {
	Kind    fixture.Kind
	ID      int64
	Title   string    // series name, episode name or movie title
	Date    time.Time // first air, air or release date; zero when unknown
	Country string

	// Episode results only.
	Season  int
	Episode int
	Series  *Match

	Score float64 // title similarity to the query, 0 to 1
}

// Year returns the year of Date, or 0.
func (m *Match) Year() int {
	if m.Date.IsZero() {
		return 0
	}
	return m.Date.Year()
}

// Provider is a metadata source. Search results are ordered best first.
type Provider interface {
	Search(ctx context.Context, q Query) ([]Match, error)
	Episode(ctx context.Context, series Match, season, episode int) (*Match, error)
}
