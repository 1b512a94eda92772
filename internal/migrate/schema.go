// internal/migrate/schema.go

package migrate

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the location table and one table per resource kind if
// they do not exist yet. The location table keys on search_query; every
// resource table references its owning location and stamps created_at, which
// the freshness policy reads.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id SERIAL PRIMARY KEY,
			search_query TEXT NOT NULL UNIQUE,
			formatted_query TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS weather (
			id SERIAL PRIMARY KEY,
			forecast TEXT NOT NULL,
			time TEXT NOT NULL,
			location_id INT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			image_url TEXT,
			price TEXT,
			rating DOUBLE PRECISION,
			url TEXT,
			location_id INT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT,
			average_votes DOUBLE PRECISION,
			total_votes INT,
			image_url TEXT,
			popularity DOUBLE PRECISION,
			released_on TEXT,
			location_id INT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meetups (
			id SERIAL PRIMARY KEY,
			link TEXT,
			name TEXT NOT NULL,
			creation_date TEXT,
			host TEXT,
			location_id INT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trails (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			length DOUBLE PRECISION,
			stars DOUBLE PRECISION,
			star_votes INT,
			summary TEXT,
			trail_url TEXT,
			conditions TEXT,
			condition_date TEXT,
			condition_time TEXT,
			location_id INT NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_weather_location ON weather(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_location ON restaurants(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_location ON movies(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_meetups_location ON meetups(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trails_location ON trails(location_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
