// internal/upstream/movies.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w200_and_h300_bestv2/"

// maxFilms caps the number of movie results returned and persisted.
const maxFilms = 20

// MovieClient fetches films from the TMDB search API.
type MovieClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type tmdbResponse struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbMovie struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	ReleaseDate string  `json:"release_date"`
}

// NewMovieClient creates a new movie client
func NewMovieClient(cfg config.ProviderConfig) *MovieClient {
	return &MovieClient{
		APIKey:     cfg.MoviesAPIKey,
		BaseURL:    cfg.MoviesBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Kind implements resource.Adapter.
func (c *MovieClient) Kind() resource.Kind { return resource.Movies }

// Fetch searches TMDB by the city part of the formatted address and returns
// the most popular films, sorted descending, capped at 20.
func (c *MovieClient) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	params := url.Values{}
	params.Set("api_key", c.APIKey)
	params.Set("query", cityQuery(loc.FormattedQuery))
	reqURL := fmt.Sprintf("%s/3/search/movie?%s", c.BaseURL, params.Encode())

	var payload tmdbResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, nil, &payload); err != nil {
		return nil, err
	}

	return mapFilms(payload.Results), nil
}

// cityQuery reduces "Seattle, WA, USA" to "Seattle, WA" for the search term.
func cityQuery(formatted string) string {
	parts := strings.Split(formatted, ",")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]) + ", " + strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(parts[0])
}

func mapFilms(movies []tmdbMovie) []resource.Record {
	sorted := make([]tmdbMovie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})

	if len(sorted) > maxFilms {
		sorted = sorted[:maxFilms]
	}

	records := make([]resource.Record, 0, len(sorted))
	for _, m := range sorted {
		records = append(records, resource.Film{
			Title:        m.Title,
			Overview:     m.Overview,
			AverageVotes: m.VoteAverage,
			TotalVotes:   m.VoteCount,
			ImageURL:     posterBaseURL + strings.TrimPrefix(m.PosterPath, "/"),
			Popularity:   m.Popularity,
			ReleasedOn:   m.ReleaseDate,
		})
	}
	return records
}
