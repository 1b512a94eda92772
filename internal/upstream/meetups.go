// internal/upstream/meetups.go

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cityscout/internal/config"
	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// MeetupClient fetches social events from the Meetup concierge API.
type MeetupClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type meetupResponse struct {
	Results []meetupEvent `json:"results"`
}

type meetupEvent struct {
	EventURL string `json:"event_url"`
	Name     string `json:"name"`
	Created  int64  `json:"created"`
	Group    struct {
		Name string `json:"name"`
	} `json:"group"`
}

// NewMeetupClient creates a new meetup client
func NewMeetupClient(cfg config.ProviderConfig) *MeetupClient {
	return &MeetupClient{
		APIKey:     cfg.MeetupAPIKey,
		BaseURL:    cfg.MeetupBaseURL,
		HTTPClient: newHTTPClient(cfg.Timeout),
	}
}

// Kind implements resource.Adapter.
func (c *MeetupClient) Kind() resource.Kind { return resource.Meetups }

// Fetch retrieves events near the location's coordinates.
func (c *MeetupClient) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("lat", fmt.Sprintf("%f", loc.Latitude))
	params.Set("lon", fmt.Sprintf("%f", loc.Longitude))
	reqURL := fmt.Sprintf("%s/2/concierge?%s", c.BaseURL, params.Encode())

	var payload meetupResponse
	if err := getJSON(ctx, c.HTTPClient, reqURL, nil, &payload); err != nil {
		return nil, err
	}

	return mapMeetups(payload.Results), nil
}

func mapMeetups(events []meetupEvent) []resource.Record {
	records := make([]resource.Record, 0, len(events))
	for _, ev := range events {
		// created is a millisecond epoch
		records = append(records, resource.Meetup{
			Link:         ev.EventURL,
			Name:         ev.Name,
			CreationDate: time.UnixMilli(ev.Created).UTC().Format("Mon Jan 02 2006"),
			Host:         ev.Group.Name,
		})
	}
	return records
}
