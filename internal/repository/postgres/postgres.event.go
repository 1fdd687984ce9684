// FilePath: internal/repository/postgres/postgres.event.go
package postgres

import (
	"context"
	"fmt"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

func (s *Store) InsertEvent(ctx context.Context, event *models.ConnectionEvent) error {
	if event.ID == "" {
		event.ID = nuts.NID("ce", 12)
	}
	query := `
		INSERT INTO connection_events (id, sensor_id, event_type, timestamp)
		VALUES (:id, :sensor_id, :event_type, :timestamp)`

	_, err := s.db.GetDB().NamedExecContext(ctx, query, event)
	if err != nil {
		return errors.NewDatabaseError("failed to insert connection event", err)
	}
	return nil
}

func (s *Store) Events(ctx context.Context, sensorID string, start, end *time.Time) ([]models.ConnectionEvent, error) {
	where, args := timeRangeClause(`sensor_id = $1`, []interface{}{sensorID}, start, end)
	query := fmt.Sprintf(`
		SELECT id, sensor_id, event_type, timestamp
		FROM connection_events
		WHERE %s
		ORDER BY timestamp DESC`, where)

	events := []models.ConnectionEvent{}
	if err := s.db.GetDB().SelectContext(ctx, &events, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to get connection events", err)
	}
	return events, nil
}

type pagedEventRow struct {
	Total int64 `db:"total"`
	models.ConnectionEvent
}

func (s *Store) EventsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.EventPage, error) {
	where, args := timeRangeClause(`sensor_id = $1`, []interface{}{sensorID}, start, end)

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER() AS total,
			id, sensor_id, event_type, timestamp
		FROM connection_events
		WHERE %s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows := []pagedEventRow{}
	if err := s.db.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to get events page", err)
	}

	result := &models.EventPage{
		Events:   make([]models.ConnectionEvent, 0, len(rows)),
		Page:     page,
		PageSize: pageSize,
	}
	for _, row := range rows {
		result.Total = row.Total
		result.Events = append(result.Events, row.ConnectionEvent)
	}
	if len(rows) == 0 {
		total, err := s.countEvents(ctx, sensorID, start, end)
		if err != nil {
			return nil, err
		}
		result.Total = total
	}
	return result, nil
}

func (s *Store) countEvents(ctx context.Context, sensorID string, start, end *time.Time) (int64, error) {
	where, args := timeRangeClause(`sensor_id = $1`, []interface{}{sensorID}, start, end)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM connection_events WHERE %s`, where)

	var total int64
	if err := s.db.GetDB().GetContext(ctx, &total, query, args...); err != nil {
		return 0, errors.NewDatabaseError("failed to count connection events", err)
	}
	return total, nil
}
