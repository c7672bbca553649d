package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Fight Club", r.URL.Query().Get("query"))
		assert.Equal(t, "1999", r.URL.Query().Get("year"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))

		writeJSON(w, pagedResponse[Movie]{
			Page:    1,
			Results: []Movie{{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15"}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithLanguage("en-US"))

	movies, err := client.SearchMovies(context.Background(), "Fight Club", 1999)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(550), movies[0].ID)
	assert.Equal(t, 1999, movies[0].Year())
}

func TestClient_SearchMovies_NoYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("year"))
		assert.False(t, r.URL.Query().Has("language"))
		writeJSON(w, pagedResponse[Movie]{})
	}))
	defer server.Close()

	movies, err := NewClient("k", WithBaseURL(server.URL)).SearchMovies(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestClient_SearchTV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/tv", r.URL.Path)
		assert.Equal(t, "Breaking Bad", r.URL.Query().Get("query"))
		assert.Equal(t, "2008", r.URL.Query().Get("first_air_date_year"))

		writeJSON(w, pagedResponse[Series]{Results: []Series{{
			ID: 1396, Name: "Breaking Bad", FirstAirDate: "2008-01-20", OriginCountry: []string{"US"},
		}}})
	}))
	defer server.Close()

	series, err := NewClient("k", WithBaseURL(server.URL)).SearchTV(context.Background(), "Breaking Bad", 2008)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 2008, series[0].Year())
	assert.Equal(t, "US", series[0].Country())
}

func TestClient_GetEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1396/season/1/episode/2", r.URL.Path)
		writeJSON(w, Episode{ID: 62086, Name: "Cat's in the Bag...", SeasonNumber: 1, EpisodeNumber: 2, AirDate: "2008-01-27"})
	}))
	defer server.Close()

	ep, err := NewClient("k", WithBaseURL(server.URL)).GetEpisode(context.Background(), 1396, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(62086), ep.ID)
	assert.Equal(t, "Cat's in the Bag...", ep.Name)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient("k", WithBaseURL(server.URL)).GetEpisode(context.Background(), 1, 1, 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient("k", WithBaseURL(server.URL)).SearchTV(context.Background(), "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, 2008, yearOf("2008-01-20"))
	assert.Zero(t, yearOf(""))
	assert.Zero(t, yearOf("abcd-01-01"))
}
