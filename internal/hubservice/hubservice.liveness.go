// FilePath: internal/hubservice/hubservice.liveness.go
package hubservice

import (
	"context"
	"math"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

// RecordReading persists a measurement for an already-registered sensor and
// marks the sensor live. Submitting for an unknown sensor id fails with a
// not-found error and leaves no trace in the store.
//
// A zero `at` takes the server clock; devices pushing over the realtime
// channel may supply their own timestamp.
func (s *HubService) RecordReading(ctx context.Context, sensorID string, temperature, humidity, pm25 float64, at time.Time) (*models.Reading, error) {
	if sensorID == "" {
		return nil, errors.NewValidationError("missing required field: sensorId", nil)
	}
	if err := validateMeasurement("temperature", temperature); err != nil {
		return nil, err
	}
	if err := validateMeasurement("humidity", humidity); err != nil {
		return nil, err
	}
	if err := validateMeasurement("pm25", pm25); err != nil {
		return nil, err
	}

	if _, err := s.store.GetSensor(ctx, sensorID); err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = s.now()
	}
	reading := &models.Reading{
		SensorID:    sensorID,
		Temperature: temperature,
		Humidity:    humidity,
		PM25:        pm25,
		Timestamp:   at,
	}
	if err := s.store.InsertReading(ctx, reading); err != nil {
		return nil, err
	}

	if err := s.SetConnection(ctx, sensorID, true); err != nil {
		nuts.L.Warnf("[HubService] Failed to update connection state for %s: %v", sensorID, err)
	}

	s.cache.Set(ctx, reading)
	s.metrics.ReadingIngested()
	return reading, nil
}

// SetConnection updates the liveness state machine for a sensor.
//
// connected=true refreshes last_seen and journals a connect event only when
// the sensor was stale or unknown before, so a burst of readings inside the
// threshold collapses into a single logical "became connected" event.
//
// connected=false journals a disconnect event unconditionally: an explicit
// disconnect is always worth a journal entry.
func (s *HubService) SetConnection(ctx context.Context, sensorID string, connected bool) error {
	lock := s.lockSensor(sensorID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()

	if !connected {
		if err := s.store.InsertEvent(ctx, &models.ConnectionEvent{
			SensorID:  sensorID,
			EventType: models.EventDisconnect,
			Timestamp: now,
		}); err != nil {
			return err
		}
		s.metrics.ConnectionEvent(models.EventDisconnect)
		return nil
	}

	sensor, err := s.store.GetSensor(ctx, sensorID)
	if err != nil {
		return err
	}

	wasStale := sensor.LastSeen.IsZero() || now.Sub(sensor.LastSeen) >= s.staleThreshold

	if err := s.store.UpdateLastSeen(ctx, sensorID, now); err != nil {
		return err
	}

	if wasStale {
		if err := s.store.InsertEvent(ctx, &models.ConnectionEvent{
			SensorID:  sensorID,
			EventType: models.EventConnect,
			Timestamp: now,
		}); err != nil {
			return err
		}
		s.metrics.ConnectionEvent(models.EventConnect)
	}
	return nil
}

// validateMeasurement rejects NaN and infinities outright.
func validateMeasurement(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.NewValidationError("invalid numeric value for field: "+field, nil)
	}
	return nil
}
