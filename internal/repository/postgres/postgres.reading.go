// FilePath: internal/repository/postgres/postgres.reading.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

func (s *Store) InsertReading(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}
	query := `
		INSERT INTO readings (id, sensor_id, temperature, humidity, pm25, timestamp)
		VALUES (:id, :sensor_id, :temperature, :humidity, :pm25, :timestamp)`

	_, err := s.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert reading", err)
	}
	return nil
}

func (s *Store) ReadingsBySensor(ctx context.Context, sensorID string, limit int) ([]models.Reading, error) {
	readings := []models.Reading{}
	query := `
		SELECT id, sensor_id, temperature, humidity, pm25, timestamp
		FROM readings
		WHERE sensor_id = $1
		ORDER BY timestamp DESC`
	args := []interface{}{sensorID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	err := s.db.GetDB().SelectContext(ctx, &readings, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get readings", err)
	}
	return readings, nil
}

func (s *Store) ReadingsByRange(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	readings := []models.Reading{}
	query := `
		SELECT id, sensor_id, temperature, humidity, pm25, timestamp
		FROM readings
		WHERE sensor_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp DESC`

	err := s.db.GetDB().SelectContext(ctx, &readings, query, sensorID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get readings by range", err)
	}
	return readings, nil
}

type pagedReadingRow struct {
	Total int64 `db:"total"`
	models.Reading
}

func (s *Store) ReadingsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.ReadingPage, error) {
	where, args := timeRangeClause(`sensor_id = $1`, []interface{}{sensorID}, start, end)

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER() AS total,
			id, sensor_id, temperature, humidity, pm25, timestamp
		FROM readings
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows := []pagedReadingRow{}
	if err := s.db.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to get readings page", err)
	}

	result := &models.ReadingPage{
		Readings: make([]models.Reading, 0, len(rows)),
		Page:     page,
		PageSize: pageSize,
	}
	for _, row := range rows {
		result.Total = row.Total
		result.Readings = append(result.Readings, row.Reading)
	}
	if len(rows) == 0 {
		// Page past the end: the window function returned nothing, so the
		// total needs its own query.
		total, err := s.countReadings(ctx, sensorID, start, end)
		if err != nil {
			return nil, err
		}
		result.Total = total
	}
	return result, nil
}

func (s *Store) LatestReading(ctx context.Context, sensorID string) (*models.Reading, error) {
	reading := &models.Reading{}
	query := `
		SELECT id, sensor_id, temperature, humidity, pm25, timestamp
		FROM readings
		WHERE sensor_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	err := s.db.GetDB().GetContext(ctx, reading, query, sensorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to get latest reading", err)
	}
	return reading, nil
}

func (s *Store) countReadings(ctx context.Context, sensorID string, start, end *time.Time) (int64, error) {
	where, args := timeRangeClause(`sensor_id = $1`, []interface{}{sensorID}, start, end)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM readings WHERE %s`, where)

	var total int64
	if err := s.db.GetDB().GetContext(ctx, &total, query, args...); err != nil {
		return 0, errors.NewDatabaseError("failed to count readings", err)
	}
	return total, nil
}

// timeRangeClause appends optional timestamp bounds to a WHERE clause,
// keeping the positional parameters consistent with args.
func timeRangeClause(base string, args []interface{}, start, end *time.Time) (string, []interface{}) {
	where := base
	if start != nil {
		args = append(args, *start)
		where += fmt.Sprintf(` AND timestamp >= $%d`, len(args))
	}
	if end != nil {
		args = append(args, *end)
		where += fmt.Sprintf(` AND timestamp <= $%d`, len(args))
	}
	return where, args
}
