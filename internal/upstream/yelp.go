// internal/upstream/yelp.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// YelpClient fetches restaurant results from the Yelp business search API.
type YelpClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type yelpResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpBusiness struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	URL      string  `json:"url"`
}

// NewYelpClient creates a new Yelp client
func NewYelpClient(cfg config.ProviderConfig) *YelpClient {
	return &YelpClient{
		APIKey:     cfg.YelpAPIKey,
		BaseURL:    cfg.YelpBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Kind implements resource.Adapter.
func (c *YelpClient) Kind() resource.Kind { return resource.Restaurants }

// Fetch retrieves up to 20 restaurants near the location's coordinates.
func (c *YelpClient) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	params := url.Values{}
	params.Set("term", "restaurants")
	params.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	params.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	params.Set("limit", "20")
	reqURL := fmt.Sprintf("%s/v3/businesses/search?%s", c.BaseURL, params.Encode())

	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}

	var payload yelpResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, headers, &payload); err != nil {
		return nil, err
	}

	records := make([]resource.Record, 0, len(payload.Businesses))
	for _, biz := range payload.Businesses {
		records = append(records, resource.Restaurant{
			Name:     biz.Name,
			ImageURL: biz.ImageURL,
			Price:    biz.Price,
			Rating:   biz.Rating,
			URL:      biz.URL,
		})
	}
	return records, nil
}
