// internal/domain/location/model.go

package location

import (
	"context"
	"errors"
)

// Record is a canonical location resolved from a free-text search query.
// Records are immutable once persisted: they are created on a resolution miss
// and never updated or expired afterwards.
type Record struct {
	ID             int64   `json:"id"`
	SearchQuery    string  `json:"search_query"`
	FormattedQuery string  `json:"formatted_query"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// ErrNoMatch indicates the geocoder was reachable but returned no usable
// result for the query. It is surfaced to the caller and never cached.
var ErrNoMatch = errors.New("no location match for query")

// Store persists location records keyed by their original search query.
type Store interface {
	// ByQuery returns the record for an exact search query match,
	// or (nil, nil) when no record exists.
	ByQuery(ctx context.Context, query string) (*Record, error)

	// Save persists the record and fills in its store-assigned ID.
	// The search query is unique; saving the same query twice must
	// yield the same stored record.
	Save(ctx context.Context, rec *Record) error
}

// Resolver turns a free-text query into a canonical location record.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*Record, error)
}
