// internal/adapter/storage/location_store.go

package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cityscout/internal/domain/location"
)

// LocationStore implements location.Store on PostgreSQL.
type LocationStore struct {
	db *pgxpool.Pool
}

// NewLocationStore creates a new location store
func NewLocationStore(db *pgxpool.Pool) *LocationStore {
	return &LocationStore{db: db}
}

// ByQuery retrieves the location for an exact search query match.
// Returns (nil, nil) when no record exists.
func (s *LocationStore) ByQuery(ctx context.Context, query string) (*location.Record, error) {
	const sql = `
		SELECT id, search_query, formatted_query, latitude, longitude
		FROM locations
		WHERE search_query = $1
	`

	var rec location.Record
	err := s.db.QueryRow(ctx, sql, query).Scan(
		&rec.ID,
		&rec.SearchQuery,
		&rec.FormattedQuery,
		&rec.Latitude,
		&rec.Longitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "location lookup", Err: err}
	}

	return &rec, nil
}

// Save persists the record and fills in its assigned ID. search_query is
// unique, so a concurrent insert of the same query converges on one row.
func (s *LocationStore) Save(ctx context.Context, rec *location.Record) error {
	const sql = `
		INSERT INTO locations (search_query, formatted_query, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (search_query) DO UPDATE
		SET search_query = EXCLUDED.search_query
		RETURNING id
	`

	err := s.db.QueryRow(ctx, sql,
		rec.SearchQuery,
		rec.FormattedQuery,
		rec.Latitude,
		rec.Longitude,
	).Scan(&rec.ID)
	if err != nil {
		return &StoreError{Op: "location save", Err: err}
	}

	return nil
}
