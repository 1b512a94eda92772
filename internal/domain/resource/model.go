// internal/domain/resource/model.go

package resource

import (
	"context"
	"fmt"
	"time"

	"cityscout/internal/domain/location"
)

// Kind identifies a category of location-dependent data with its own
// payload shape and time-to-live.
type Kind string

// The fixed set of resource kinds served by the API.
const (
	Weather     Kind = "weather"
	Restaurants Kind = "restaurants"
	Movies      Kind = "movies"
	Meetups     Kind = "meetups"
	Trails      Kind = "trails"
)

// Kinds lists every resource kind.
func Kinds() []Kind {
	return []Kind{Weather, Restaurants, Movies, Meetups, Trails}
}

// Record is one element of a resource batch. Concrete types carry the
// kind-specific payload fields.
type Record interface {
	ResourceKind() Kind
}

// Forecast is one day of weather for a location.
type Forecast struct {
	Forecast string `json:"forecast"`
	Time     string `json:"time"`
}

// Restaurant is one business-search result for a location.
type Restaurant struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	URL      string  `json:"url"`
}

// Film is one movie-search result for a location.
type Film struct {
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	AverageVotes float64 `json:"average_votes"`
	TotalVotes   int     `json:"total_votes"`
	ImageURL     string  `json:"image_url"`
	Popularity   float64 `json:"popularity"`
	ReleasedOn   string  `json:"released_on"`
}

// Meetup is one social-event result for a location.
type Meetup struct {
	Link         string `json:"link"`
	Name         string `json:"name"`
	CreationDate string `json:"creation_date"`
	Host         string `json:"host"`
}

// Trail is one trail-search result for a location.
type Trail struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Length        float64 `json:"length"`
	Stars         float64 `json:"stars"`
	StarVotes     int     `json:"star_votes"`
	Summary       string  `json:"summary"`
	TrailURL      string  `json:"trail_url"`
	Conditions    string  `json:"conditions"`
	ConditionDate string  `json:"condition_date"`
	ConditionTime string  `json:"condition_time"`
}

func (Forecast) ResourceKind() Kind   { return Weather }
func (Restaurant) ResourceKind() Kind { return Restaurants }
func (Film) ResourceKind() Kind       { return Movies }
func (Meetup) ResourceKind() Kind     { return Meetups }
func (Trail) ResourceKind() Kind      { return Trails }

// Batch is the full set of records produced by one fetch-and-persist for a
// (location, kind) pair. All records in a batch share one CreatedAt;
// freshness is evaluated per batch, not per record.
type Batch struct {
	LocationID int64
	Kind       Kind
	CreatedAt  time.Time
	Records    []Record
}

// Store persists resource batches keyed by (kind, location ID).
type Store interface {
	// Batch returns the stored batch for the key, or (nil, nil) when no
	// records exist.
	Batch(ctx context.Context, kind Kind, locationID int64) (*Batch, error)

	// SaveBatch inserts every record of the batch as one logical write.
	// Either the whole batch becomes visible or none of it.
	SaveBatch(ctx context.Context, b *Batch) error

	// DeleteBatch removes all records for the key.
	DeleteBatch(ctx context.Context, kind Kind, locationID int64) error
}

// Adapter fetches one kind of resource from its upstream provider and maps
// the response into this system's record shape. Adapters never touch the
// store; persistence belongs to the coordinator.
type Adapter interface {
	Kind() Kind
	Fetch(ctx context.Context, loc location.Record) ([]Record, error)
}

// UpstreamError wraps a provider failure: unreachable, timed out, or a
// malformed payload. Nothing is persisted when one occurs.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
