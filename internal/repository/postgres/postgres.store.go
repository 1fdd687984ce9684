// FilePath: internal/repository/postgres/postgres.store.go
package postgres

import (
	"context"

	"github.com/vigilaire/hub/internal/database"
	"github.com/vigilaire/hub/internal/errors"
)

// Store is the persistent Store variant, backed by PostgreSQL through
// parameterized queries only.
type Store struct {
	db database.DB
}

// New creates the repository and ensures the schema exists.
func New(db database.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initializeSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensors (
			sensor_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			last_seen TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			humidity DOUBLE PRECISION NOT NULL,
			pm25 DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS connection_events (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		// Keeps range and pagination queries sub-linear in total row count.
		`CREATE INDEX IF NOT EXISTS idx_readings_sensor_timestamp
			ON readings(sensor_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_events_sensor_timestamp
			ON connection_events(sensor_id, timestamp DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.GetDB().PingContext(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if err := s.db.GetDB().Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}
