package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/tmdb"
	"github.com/vmunix/sortarr/pkg/release"
)

// TMDBClient is the subset of the TMDB client the provider uses.
type TMDBClient interface {
	SearchMovies(ctx context.Context, query string, year int) ([]tmdb.Movie, error)
	SearchTV(ctx context.Context, query string, year int) ([]tmdb.Series, error)
	GetEpisode(ctx context.Context, seriesID int64, season, episode int) (*tmdb.Episode, error)
}

// TMDBProvider answers lookups from TMDB. Nothing is cached between calls.
type TMDBProvider struct {
	client TMDBClient
	log    *slog.Logger
}

// NewTMDBProvider creates a provider backed by client.
func NewTMDBProvider(client TMDBClient, log *slog.Logger) *TMDBProvider {
	return &TMDBProvider{
		client: client,
		log:    log.With("component", "tmdb"),
	}
}

// Search queries series or movies and ranks them by title similarity.
// When a year filter returns nothing the search is repeated without it.
func (p *TMDBProvider) Search(ctx context.Context, q Query) ([]Match, error) {
	title := release.SearchQuery(q.Title)
	if title == "" {
		return nil, nil
	}

	matches, err := p.search(ctx, q.Kind, title, q.Year)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 && q.Year > 0 {
		p.log.Debug("no results with year, retrying without", "title", title, "year", q.Year)
		if matches, err = p.search(ctx, q.Kind, title, 0); err != nil {
			return nil, err
		}
	}

	for i := range matches {
		matches[i].Score = release.Similarity(q.Title, matches[i].Title)
	}
	// stable: equal scores keep TMDB's popularity order
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	p.log.Debug("search complete", "kind", q.Kind, "title", title, "results", len(matches))
	return matches, nil
}

func (p *TMDBProvider) search(ctx context.Context, kind fixture.Kind, title string, year int) ([]Match, error) {
	if kind == fixture.KindMovie {
		movies, err := p.client.SearchMovies(ctx, title, year)
		if err != nil {
			return nil, fmt.Errorf("search movies: %w", err)
		}
		matches := make([]Match, 0, len(movies))
		for _, m := range movies {
			matches = append(matches, Match{
				Kind:  fixture.KindMovie,
				ID:    m.ID,
				Title: m.Title,
				Date:  parseDate(m.ReleaseDate),
			})
		}
		return matches, nil
	}

	series, err := p.client.SearchTV(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}
	matches := make([]Match, 0, len(series))
	for _, s := range series {
		matches = append(matches, Match{
			Kind:    fixture.KindEpisode,
			ID:      s.ID,
			Title:   s.Name,
			Date:    parseDate(s.FirstAirDate),
			Country: s.Country(),
		})
	}
	return matches, nil
}

// Episode fetches the episode of series at season and episode.
func (p *TMDBProvider) Episode(ctx context.Context, series Match, season, episode int) (*Match, error) {
	ep, err := p.client.GetEpisode(ctx, series.ID, season, episode)
	if err != nil {
		return nil, fmt.Errorf("episode S%02dE%02d of %d: %w", season, episode, series.ID, err)
	}
	return &Match{
		Kind:    fixture.KindEpisode,
		ID:      ep.ID,
		Title:   ep.Name,
		Date:    parseDate(ep.AirDate),
		Country: series.Country,
		Season:  ep.SeasonNumber,
		Episode: ep.EpisodeNumber,
		Series:  &series,
		Score:   series.Score,
	}, nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
