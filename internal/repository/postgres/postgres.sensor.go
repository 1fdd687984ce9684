// FilePath: internal/repository/postgres/postgres.sensor.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

func (s *Store) RegisterSensor(ctx context.Context, sensor *models.Sensor) error {
	query := `
		INSERT INTO sensors (sensor_id, name, latitude, longitude, created_at, last_seen)
		VALUES (:sensor_id, :name, :latitude, :longitude, :created_at, :last_seen)
		ON CONFLICT (sensor_id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			last_seen = excluded.last_seen`

	_, err := s.db.GetDB().NamedExecContext(ctx, query, sensor)
	if err != nil {
		return errors.NewDatabaseError("failed to register sensor", err)
	}
	return nil
}

func (s *Store) GetSensor(ctx context.Context, id string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `SELECT sensor_id, name, latitude, longitude, created_at, last_seen
		FROM sensors WHERE sensor_id = $1`

	err := s.db.GetDB().GetContext(ctx, sensor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

func (s *Store) ListSensors(ctx context.Context) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT sensor_id, name, latitude, longitude, created_at, last_seen
		FROM sensors ORDER BY name`

	err := s.db.GetDB().SelectContext(ctx, &sensors, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

func (s *Store) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	query := `UPDATE sensors SET last_seen = $1 WHERE sensor_id = $2`

	result, err := s.db.GetDB().ExecContext(ctx, query, lastSeen, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update last seen", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}

// DeleteSensor removes the sensor row and cascades to readings and events
// inside a single transaction.
func (s *Store) DeleteSensor(ctx context.Context, id string) error {
	tx, err := s.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback() // Ignored once committed.

	if _, err := tx.ExecContext(ctx, `DELETE FROM readings WHERE sensor_id = $1`, id); err != nil {
		return errors.NewDatabaseError("failed to delete readings", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM connection_events WHERE sensor_id = $1`, id); err != nil {
		return errors.NewDatabaseError("failed to delete connection events", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM sensors WHERE sensor_id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete sensor", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}

	nuts.L.Infof("[Store] Deleted sensor %s and all associated data", id)
	return nil
}
