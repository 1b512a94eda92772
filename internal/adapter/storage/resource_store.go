// internal/adapter/storage/resource_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cityscout/internal/domain/resource"
)

// ResourceStore implements resource.Store on PostgreSQL, one table per
// resource kind. Every row of a batch carries the same created_at; the
// batch is the unit of insertion and deletion.
type ResourceStore struct {
	db *pgxpool.Pool
}

// NewResourceStore creates a new resource store
func NewResourceStore(db *pgxpool.Pool) *ResourceStore {
	return &ResourceStore{db: db}
}

// Batch retrieves the stored batch for a (kind, location) key.
// Returns (nil, nil) when no records exist.
func (s *ResourceStore) Batch(ctx context.Context, kind resource.Kind, locationID int64) (*resource.Batch, error) {
	sql, scan, err := selectFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, locationID)
	if err != nil {
		return nil, &StoreError{Op: fmt.Sprintf("%s lookup", kind), Err: err}
	}
	defer rows.Close()

	var (
		records   []resource.Record
		createdAt time.Time
	)
	for rows.Next() {
		rec, created, err := scan(rows)
		if err != nil {
			return nil, &StoreError{Op: fmt.Sprintf("%s scan", kind), Err: err}
		}
		records = append(records, rec)
		createdAt = created
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: fmt.Sprintf("%s iterate", kind), Err: err}
	}

	if len(records) == 0 {
		return nil, nil
	}

	return &resource.Batch{
		LocationID: locationID,
		Kind:       kind,
		CreatedAt:  createdAt,
		Records:    records,
	}, nil
}

// SaveBatch inserts every record of the batch inside one transaction, so a
// reader never observes a partially written batch.
func (s *ResourceStore) SaveBatch(ctx context.Context, b *resource.Batch) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &StoreError{Op: fmt.Sprintf("%s save begin", b.Kind), Err: err}
	}
	defer tx.Rollback(ctx)

	for _, rec := range b.Records {
		sql, args, err := insertFor(rec, b.LocationID, b.CreatedAt)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return &StoreError{Op: fmt.Sprintf("%s save", b.Kind), Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &StoreError{Op: fmt.Sprintf("%s save commit", b.Kind), Err: err}
	}
	return nil
}

// DeleteBatch removes all records for a (kind, location) key.
func (s *ResourceStore) DeleteBatch(ctx context.Context, kind resource.Kind, locationID int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE location_id = $1", table)
	if _, err := s.db.Exec(ctx, sql, locationID); err != nil {
		return &StoreError{Op: fmt.Sprintf("%s delete", kind), Err: err}
	}
	return nil
}

// tableFor maps a kind to its table. Kinds and table names coincide but the
// mapping is explicit so an unknown kind fails instead of reaching SQL.
func tableFor(kind resource.Kind) (string, error) {
	switch kind {
	case resource.Weather, resource.Restaurants, resource.Movies, resource.Meetups, resource.Trails:
		return string(kind), nil
	default:
		return "", &StoreError{Op: "table", Err: fmt.Errorf("unknown resource kind %q", kind)}
	}
}

type scanFunc func(rows pgx.Rows) (resource.Record, time.Time, error)

func selectFor(kind resource.Kind) (string, scanFunc, error) {
	switch kind {
	case resource.Weather:
		return `SELECT forecast, time, created_at FROM weather WHERE location_id = $1 ORDER BY id`,
			func(rows pgx.Rows) (resource.Record, time.Time, error) {
				var rec resource.Forecast
				var created time.Time
				err := rows.Scan(&rec.Forecast, &rec.Time, &created)
				return rec, created, err
			}, nil

	case resource.Restaurants:
		return `SELECT name, image_url, price, rating, url, created_at FROM restaurants WHERE location_id = $1 ORDER BY id`,
			func(rows pgx.Rows) (resource.Record, time.Time, error) {
				var rec resource.Restaurant
				var created time.Time
				err := rows.Scan(&rec.Name, &rec.ImageURL, &rec.Price, &rec.Rating, &rec.URL, &created)
				return rec, created, err
			}, nil

	case resource.Movies:
		return `SELECT title, overview, average_votes, total_votes, image_url, popularity, released_on, created_at FROM movies WHERE location_id = $1 ORDER BY popularity DESC, id`,
			func(rows pgx.Rows) (resource.Record, time.Time, error) {
				var rec resource.Film
				var created time.Time
				err := rows.Scan(&rec.Title, &rec.Overview, &rec.AverageVotes, &rec.TotalVotes, &rec.ImageURL, &rec.Popularity, &rec.ReleasedOn, &created)
				return rec, created, err
			}, nil

	case resource.Meetups:
		return `SELECT link, name, creation_date, host, created_at FROM meetups WHERE location_id = $1 ORDER BY id`,
			func(rows pgx.Rows) (resource.Record, time.Time, error) {
				var rec resource.Meetup
				var created time.Time
				err := rows.Scan(&rec.Link, &rec.Name, &rec.CreationDate, &rec.Host, &created)
				return rec, created, err
			}, nil

	case resource.Trails:
		return `SELECT name, location, length, stars, star_votes, summary, trail_url, conditions, condition_date, condition_time, created_at FROM trails WHERE location_id = $1 ORDER BY id`,
			func(rows pgx.Rows) (resource.Record, time.Time, error) {
				var rec resource.Trail
				var created time.Time
				err := rows.Scan(&rec.Name, &rec.Location, &rec.Length, &rec.Stars, &rec.StarVotes, &rec.Summary, &rec.TrailURL, &rec.Conditions, &rec.ConditionDate, &rec.ConditionTime, &created)
				return rec, created, err
			}, nil

	default:
		return "", nil, &StoreError{Op: "select", Err: fmt.Errorf("unknown resource kind %q", kind)}
	}
}

func insertFor(rec resource.Record, locationID int64, createdAt time.Time) (string, []interface{}, error) {
	switch r := rec.(type) {
	case resource.Forecast:
		return `INSERT INTO weather (forecast, time, location_id, created_at) VALUES ($1, $2, $3, $4)`,
			[]interface{}{r.Forecast, r.Time, locationID, createdAt}, nil

	case resource.Restaurant:
		return `INSERT INTO restaurants (name, image_url, price, rating, url, location_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			[]interface{}{r.Name, r.ImageURL, r.Price, r.Rating, r.URL, locationID, createdAt}, nil

	case resource.Film:
		return `INSERT INTO movies (title, overview, average_votes, total_votes, image_url, popularity, released_on, location_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			[]interface{}{r.Title, r.Overview, r.AverageVotes, r.TotalVotes, r.ImageURL, r.Popularity, r.ReleasedOn, locationID, createdAt}, nil

	case resource.Meetup:
		return `INSERT INTO meetups (link, name, creation_date, host, location_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			[]interface{}{r.Link, r.Name, r.CreationDate, r.Host, locationID, createdAt}, nil

	case resource.Trail:
		return `INSERT INTO trails (name, location, length, stars, star_votes, summary, trail_url, conditions, condition_date, condition_time, location_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			[]interface{}{r.Name, r.Location, r.Length, r.Stars, r.StarVotes, r.Summary, r.TrailURL, r.Conditions, r.ConditionDate, r.ConditionTime, locationID, createdAt}, nil

	default:
		return "", nil, &StoreError{Op: "insert", Err: fmt.Errorf("unknown record type %T", rec)}
	}
}
