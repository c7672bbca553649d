// Package tmdb provides a client for The Movie Database API.
package tmdb

import "strconv"

// Movie is a movie search result.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"` // "1999-10-15"
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// Series is a TV search result.
type Series struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	FirstAirDate     string   `json:"first_air_date"` // "2008-01-20"
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
}

// Year extracts the year from FirstAirDate.
func (s *Series) Year() int {
	return yearOf(s.FirstAirDate)
}

// Country returns the first origin country, or "".
func (s *Series) Country() string {
	if len(s.OriginCountry) == 0 {
		return ""
	}
	return s.OriginCountry[0]
}

// Episode is a single TV episode.
type Episode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AirDate       string `json:"air_date"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Overview      string `json:"overview"`
}

type pagedResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalResults int `json:"total_results"`
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
