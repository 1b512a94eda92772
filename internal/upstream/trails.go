// internal/upstream/trails.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// TrailClient fetches hiking trails from the Hiking Project API.
type TrailClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type trailResponse struct {
	Trails []trailResult `json:"trails"`
}

type trailResult struct {
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	Length           float64 `json:"length"`
	Stars            float64 `json:"stars"`
	StarVotes        int     `json:"starVotes"`
	Summary          string  `json:"summary"`
	URL              string  `json:"url"`
	ConditionDetails string  `json:"conditionDetails"`
	ConditionDate    string  `json:"conditionDate"`
}

// NewTrailClient creates a new trail client
func NewTrailClient(cfg config.ProviderConfig) *TrailClient {
	return &TrailClient{
		APIKey:     cfg.HikingAPIKey,
		BaseURL:    cfg.HikingBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Kind implements resource.Adapter.
func (c *TrailClient) Kind() resource.Kind { return resource.Trails }

// Fetch retrieves trails near the location's coordinates.
func (c *TrailClient) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", loc.Latitude))
	params.Set("lon", fmt.Sprintf("%f", loc.Longitude))
	params.Set("key", c.APIKey)
	reqURL := fmt.Sprintf("%s/data/get-trails?%s", c.BaseURL, params.Encode())

	var payload trailResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, nil, &payload); err != nil {
		return nil, err
	}

	return mapTrails(payload.Trails), nil
}

func mapTrails(trails []trailResult) []resource.Record {
	records := make([]resource.Record, 0, len(trails))
	for _, t := range trails {
		date, timeOfDay := splitCondition(t.ConditionDate)
		records = append(records, resource.Trail{
			Name:          t.Name,
			Location:      t.Location,
			Length:        t.Length,
			Stars:         t.Stars,
			StarVotes:     t.StarVotes,
			Summary:       t.Summary,
			TrailURL:      t.URL,
			Conditions:    t.ConditionDetails,
			ConditionDate: date,
			ConditionTime: timeOfDay,
		})
	}
	return records
}

// splitCondition splits "2019-07-21 14:03:00" into its date and time parts.
func splitCondition(conditionDate string) (string, string) {
	parts := strings.SplitN(conditionDate, " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return conditionDate, ""
}
