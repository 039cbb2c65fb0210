// Package history persists the closest enriched flight of each poll cycle
// into a local sqlite database, so past sightings survive restarts and can
// be browsed from the dashboard.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS sightings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	seen_at     TIMESTAMP NOT NULL,
	callsign    TEXT NOT NULL,
	distance_km INTEGER NOT NULL,
	altitude_ft INTEGER NOT NULL,
	speed_kt    INTEGER NOT NULL,
	model       TEXT NOT NULL,
	origin      TEXT NOT NULL,
	destination TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sightings_seen_at ON sightings(seen_at);
`

// Sighting is one recorded closest-flight observation.
type Sighting struct {
	SeenAt      time.Time
	Callsign    string
	DistanceKm  int
	AltitudeFt  int
	SpeedKt     int
	Model       string
	Origin      string
	Destination string
}

// Store wraps the sqlite database holding the sighting log.
type Store struct {
	db *sql.DB
}

// Open creates or opens the sighting database and ensures the schema.
func Open(path string) (*Store, error) {
	db, openErr := sql.Open("sqlite", path)
	if openErr != nil {
		return nil, fmt.Errorf("history: failed to open %s: %w", path, openErr)
	}

	if _, execErr := db.Exec(schema); execErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: failed to apply schema: %w", execErr)
	}

	return &Store{db: db}, nil
}

// Record inserts one sighting.
func (store *Store) Record(ctx context.Context, sighting Sighting) error {
	_, execErr := store.db.ExecContext(ctx,
		`INSERT INTO sightings
			(seen_at, callsign, distance_km, altitude_ft, speed_kt, model, origin, destination)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sighting.SeenAt,
		sighting.Callsign,
		sighting.DistanceKm,
		sighting.AltitudeFt,
		sighting.SpeedKt,
		sighting.Model,
		sighting.Origin,
		sighting.Destination,
	)
	if execErr != nil {
		return fmt.Errorf("history: failed to record sighting: %w", execErr)
	}

	return nil
}

// Recent returns up to limit sightings, newest first.
func (store *Store) Recent(ctx context.Context, limit int) ([]Sighting, error) {
	rows, queryErr := store.db.QueryContext(ctx,
		`SELECT seen_at, callsign, distance_km, altitude_ft, speed_kt, model, origin, destination
		 FROM sightings ORDER BY seen_at DESC LIMIT ?`, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("history: failed to query sightings: %w", queryErr)
	}
	defer rows.Close()

	var sightings []Sighting
	for rows.Next() {
		var sighting Sighting
		if scanErr := rows.Scan(
			&sighting.SeenAt,
			&sighting.Callsign,
			&sighting.DistanceKm,
			&sighting.AltitudeFt,
			&sighting.SpeedKt,
			&sighting.Model,
			&sighting.Origin,
			&sighting.Destination,
		); scanErr != nil {
			return nil, fmt.Errorf("history: failed to scan sighting: %w", scanErr)
		}

		sightings = append(sightings, sighting)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("history: failed to iterate sightings: %w", rowsErr)
	}

	return sightings, nil
}

// Close releases the database handle.
func (store *Store) Close() error {
	if closeErr := store.db.Close(); closeErr != nil {
		return fmt.Errorf("history: failed to close database: %w", closeErr)
	}

	return nil
}
