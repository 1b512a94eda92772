// internal/upstream/weather.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// WeatherClient fetches daily forecasts from the Dark Sky API.
type WeatherClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type darkskyResponse struct {
	Daily struct {
		Data []darkskyDay `json:"data"`
	} `json:"daily"`
}

type darkskyDay struct {
	Summary string `json:"summary"`
	Time    int64  `json:"time"`
}

// NewWeatherClient creates a new weather client
func NewWeatherClient(cfg config.ProviderConfig) *WeatherClient {
	return &WeatherClient{
		APIKey:     cfg.WeatherAPIKey,
		BaseURL:    cfg.WeatherBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Kind implements resource.Adapter.
func (c *WeatherClient) Kind() resource.Kind { return resource.Weather }

// Fetch retrieves the daily forecast for the location's coordinates.
func (c *WeatherClient) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	reqURL := fmt.Sprintf("%s/forecast/%s/%f,%f", c.BaseURL, c.APIKey, loc.Latitude, loc.Longitude)

	var payload darkskyResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, nil, &payload); err != nil {
		return nil, err
	}

	return mapForecasts(payload.Daily.Data), nil
}

func mapForecasts(days []darkskyDay) []resource.Record {
	records := make([]resource.Record, 0, len(days))
	for _, day := range days {
		records = append(records, resource.Forecast{
			Forecast: day.Summary,
			Time:     time.Unix(day.Time, 0).UTC().Format("Mon Jan 02 2006"),
		})
	}
	return records
}
