// internal/service/resolver/resolver.go

package resolver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
	"cityscout/internal/logger"
	"cityscout/internal/telemetry"
)

// Geocoder resolves a free-text query against an upstream geocoding
// provider. A reachable provider with no match returns location.ErrNoMatch.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*location.Record, error)
}

// Service resolves search queries to canonical locations, using the store
// as a cache and the geocoder on miss. Location identity never expires, so
// a stored record is returned as-is with no freshness check.
type Service struct {
	store    location.Store
	geocoder Geocoder
	group    singleflight.Group
	log      *zap.SugaredLogger
}

// New creates a new resolver service
func New(store location.Store, geocoder Geocoder) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		log:      logger.Named("resolver"),
	}
}

// Resolve returns the location for a query, geocoding and persisting it on
// a cache miss. Concurrent resolves of the same query collapse into one
// geocoder call.
func (s *Service) Resolve(ctx context.Context, query string) (*location.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, location.ErrNoMatch
	}

	v, err, _ := s.group.Do(query, func() (interface{}, error) {
		return s.lookupOrGeocode(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return v.(*location.Record), nil
}

func (s *Service) lookupOrGeocode(ctx context.Context, query string) (*location.Record, error) {
	rec, err := s.store.ByQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		s.log.Debugw("location served from store", "query", query, "id", rec.ID)
		return rec, nil
	}

	s.log.Debugw("location not stored, geocoding", "query", query)
	telemetry.UpstreamRequests.WithLabelValues("geocoder").Inc()

	rec, err = s.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, location.ErrNoMatch) {
			// Provider reachable, nothing matched. Never cached.
			return nil, err
		}
		telemetry.UpstreamErrors.WithLabelValues("geocoder").Inc()
		return nil, &resource.UpstreamError{Provider: "geocoder", Err: err}
	}

	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Infow("location resolved and stored", "query", query, "id", rec.ID)
	return rec, nil
}
