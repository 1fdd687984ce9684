// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/vigilaire/hub/internal/models"
)

// Store is the single contract both backends implement. The liveness engine
// and the query layer are agnostic to which variant is active; the failover
// wrapper switches between them at runtime.
//
// Ordering contract: every multi-row query returns rows most-recent-first.
// Paginated queries report the full filtered count so consumers can compute
// ceil(total/pageSize) pages.
type Store interface {
	// RegisterSensor upserts by sensor id: an existing sensor keeps its
	// identity and created_at but gets the new name, location and
	// last_seen.
	RegisterSensor(ctx context.Context, sensor *models.Sensor) error
	GetSensor(ctx context.Context, id string) (*models.Sensor, error)
	ListSensors(ctx context.Context) ([]*models.Sensor, error)
	// DeleteSensor removes the sensor and cascades to its readings and
	// connection events.
	DeleteSensor(ctx context.Context, id string) error
	UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error

	InsertReading(ctx context.Context, reading *models.Reading) error
	// ReadingsBySensor returns up to limit readings; limit <= 0 means all.
	ReadingsBySensor(ctx context.Context, sensorID string, limit int) ([]models.Reading, error)
	ReadingsByRange(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error)
	ReadingsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.ReadingPage, error)
	// LatestReading returns nil, nil when the sensor has no readings yet.
	LatestReading(ctx context.Context, sensorID string) (*models.Reading, error)

	InsertEvent(ctx context.Context, event *models.ConnectionEvent) error
	Events(ctx context.Context, sensorID string, start, end *time.Time) ([]models.ConnectionEvent, error)
	EventsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.EventPage, error)
}
