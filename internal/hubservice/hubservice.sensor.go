// FilePath: internal/hubservice/hubservice.sensor.go
package hubservice

import (
	"context"
	"math"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

// RegisterSensor upserts a sensor by its device-assigned id. Registration
// counts as contact: last_seen moves to now and a connect event is
// journaled, matching what a device does when it comes online.
func (s *HubService) RegisterSensor(ctx context.Context, id, name string, latitude, longitude float64) (*models.Sensor, error) {
	if id == "" {
		return nil, errors.NewValidationError("missing required field: sensorId", nil)
	}
	if name == "" {
		return nil, errors.NewValidationError("missing required field: name", nil)
	}
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) || latitude < -90 || latitude > 90 {
		return nil, errors.NewValidationError("invalid latitude", nil)
	}
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) || longitude < -180 || longitude > 180 {
		return nil, errors.NewValidationError("invalid longitude", nil)
	}

	lock := s.lockSensor(id)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	sensor := &models.Sensor{
		ID:        id,
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: now,
		LastSeen:  now,
	}
	if err := s.store.RegisterSensor(ctx, sensor); err != nil {
		return nil, err
	}

	if err := s.store.InsertEvent(ctx, &models.ConnectionEvent{
		SensorID:  id,
		EventType: models.EventConnect,
		Timestamp: now,
	}); err != nil {
		return nil, err
	}
	s.metrics.ConnectionEvent(models.EventConnect)

	sensor.IsConnected = true
	return sensor, nil
}

// GetSensor fetches a sensor with its liveness derived from last_seen.
func (s *HubService) GetSensor(ctx context.Context, id string) (*models.Sensor, error) {
	sensor, err := s.store.GetSensor(ctx, id)
	if err != nil {
		return nil, err
	}
	sensor.IsConnected = sensor.ConnectedAt(s.now(), s.staleThreshold)
	return sensor, nil
}

// ListSensors returns all sensors, each with derived liveness and its most
// recent reading. The latest-reading cache is consulted first; misses fall
// through to the store.
func (s *HubService) ListSensors(ctx context.Context) ([]*models.SensorWithLastReading, error) {
	sensors, err := s.store.ListSensors(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]*models.SensorWithLastReading, 0, len(sensors))
	for _, sensor := range sensors {
		sensor.IsConnected = sensor.ConnectedAt(now, s.staleThreshold)

		entry := &models.SensorWithLastReading{Sensor: *sensor}
		if reading, ok := s.cache.Get(ctx, sensor.ID); ok {
			entry.LastReading = reading
		} else if reading, err := s.store.LatestReading(ctx, sensor.ID); err == nil {
			entry.LastReading = reading
		}
		result = append(result, entry)
	}
	return result, nil
}

// DeleteSensor removes a sensor and cascades to its readings and events,
// then emits a "sensor.deleted" cleanup event.
func (s *HubService) DeleteSensor(ctx context.Context, id string) error {
	if err := s.store.DeleteSensor(ctx, id); err != nil {
		return err
	}
	s.releaseSensorLock(id)
	if err := s.Events.Emit("sensor.deleted", id); err != nil {
		nuts.L.Errorf("[HubService] Failed to emit sensor.deleted for %s: %v", id, err)
	}
	return nil
}

// Readings answers the limit-shaped query.
func (s *HubService) Readings(ctx context.Context, sensorID string, limit int) ([]models.Reading, error) {
	return s.store.ReadingsBySensor(ctx, sensorID, limit)
}

// ReadingsByRange answers the date-range-shaped query.
func (s *HubService) ReadingsByRange(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	return s.store.ReadingsByRange(ctx, sensorID, start, end)
}

// ReadingsPage answers the paginated query shape.
func (s *HubService) ReadingsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.ReadingPage, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.store.ReadingsPage(ctx, sensorID, page, pageSize, start, end)
}

// ConnectionEvents returns the journal for a sensor, optionally bounded.
func (s *HubService) ConnectionEvents(ctx context.Context, sensorID string, start, end *time.Time) ([]models.ConnectionEvent, error) {
	return s.store.Events(ctx, sensorID, start, end)
}

// ConnectionEventsPage answers the paginated events query.
func (s *HubService) ConnectionEventsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.EventPage, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.store.EventsPage(ctx, sensorID, page, pageSize, start, end)
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	return page, pageSize
}
