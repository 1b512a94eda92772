// internal/upstream/geocoder.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
)

// GeocodeClient resolves free-text queries against the Google geocoding API.
type GeocodeClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// geocodeResponse is the subset of the geocoder payload this system reads.
type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// NewGeocodeClient creates a new geocoder client
func NewGeocodeClient(cfg config.ProviderConfig) *GeocodeClient {
	return &GeocodeClient{
		APIKey:     cfg.GeocodeAPIKey,
		BaseURL:    cfg.GeocodeBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Geocode resolves a query to its first geocoder match. A reachable
// provider with no results is location.ErrNoMatch, not an upstream failure.
func (c *GeocodeClient) Geocode(ctx context.Context, query string) (*location.Record, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", c.APIKey)
	reqURL := fmt.Sprintf("%s/maps/api/geocode/json?%s", c.BaseURL, params.Encode())

	var payload geocodeResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, nil, &payload); err != nil {
		return nil, err
	}

	if len(payload.Results) == 0 {
		return nil, location.ErrNoMatch
	}

	first := payload.Results[0]
	return &location.Record{
		SearchQuery:    query,
		FormattedQuery: first.FormattedAddress,
		Latitude:       first.Geometry.Location.Lat,
		Longitude:      first.Geometry.Location.Lng,
	}, nil
}
