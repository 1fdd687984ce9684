// FilePath: internal/repository/failover/failover.store.go
package failover

import (
	"context"
	"sync/atomic"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
	"github.com/vigilaire/hub/internal/repository"
)

// Store routes every operation to the primary (persistent) backend until it
// reports a backend-class failure, then latches over to the fallback for the
// remainder of the process lifetime. The latch is one-way: there is no
// recovery probe, only a restart clears it. The call that tripped the latch
// is replayed on the fallback so no error surfaces to the caller.
//
// Caller-class errors (unknown id, bad input) pass through untouched and
// never trip the latch.
type Store struct {
	primary  repository.Store
	fallback repository.Store
	latched  atomic.Bool
}

// New wires a primary and a fallback store. A nil primary starts the
// process already latched onto the fallback.
func New(primary, fallback repository.Store) *Store {
	s := &Store{primary: primary, fallback: fallback}
	if primary == nil {
		s.latched.Store(true)
		nuts.L.Warnf("[Failover] No persistent backend configured, running on volatile fallback")
	}
	return s
}

// FellBack reports whether the process has latched onto the fallback.
func (s *Store) FellBack() bool {
	return s.latched.Load()
}

// trip records a primary failure and flips the latch.
func (s *Store) trip(op string, err error) {
	if s.latched.CompareAndSwap(false, true) {
		nuts.L.Errorf("[Failover] Persistent backend failed during %s, latching onto fallback for process lifetime: %v", op, err)
	}
}

func (s *Store) RegisterSensor(ctx context.Context, sensor *models.Sensor) error {
	if s.latched.Load() {
		return s.fallback.RegisterSensor(ctx, sensor)
	}
	err := s.primary.RegisterSensor(ctx, sensor)
	if errors.IsBackendFailure(err) {
		s.trip("RegisterSensor", err)
		return s.fallback.RegisterSensor(ctx, sensor)
	}
	return err
}

func (s *Store) GetSensor(ctx context.Context, id string) (*models.Sensor, error) {
	if s.latched.Load() {
		return s.fallback.GetSensor(ctx, id)
	}
	sensor, err := s.primary.GetSensor(ctx, id)
	if errors.IsBackendFailure(err) {
		s.trip("GetSensor", err)
		return s.fallback.GetSensor(ctx, id)
	}
	return sensor, err
}

func (s *Store) ListSensors(ctx context.Context) ([]*models.Sensor, error) {
	if s.latched.Load() {
		return s.fallback.ListSensors(ctx)
	}
	sensors, err := s.primary.ListSensors(ctx)
	if errors.IsBackendFailure(err) {
		s.trip("ListSensors", err)
		return s.fallback.ListSensors(ctx)
	}
	return sensors, err
}

func (s *Store) DeleteSensor(ctx context.Context, id string) error {
	if s.latched.Load() {
		return s.fallback.DeleteSensor(ctx, id)
	}
	err := s.primary.DeleteSensor(ctx, id)
	if errors.IsBackendFailure(err) {
		s.trip("DeleteSensor", err)
		return s.fallback.DeleteSensor(ctx, id)
	}
	return err
}

func (s *Store) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	if s.latched.Load() {
		return s.fallback.UpdateLastSeen(ctx, id, lastSeen)
	}
	err := s.primary.UpdateLastSeen(ctx, id, lastSeen)
	if errors.IsBackendFailure(err) {
		s.trip("UpdateLastSeen", err)
		return s.fallback.UpdateLastSeen(ctx, id, lastSeen)
	}
	return err
}

func (s *Store) InsertReading(ctx context.Context, reading *models.Reading) error {
	if s.latched.Load() {
		return s.fallback.InsertReading(ctx, reading)
	}
	err := s.primary.InsertReading(ctx, reading)
	if errors.IsBackendFailure(err) {
		s.trip("InsertReading", err)
		return s.fallback.InsertReading(ctx, reading)
	}
	return err
}

func (s *Store) ReadingsBySensor(ctx context.Context, sensorID string, limit int) ([]models.Reading, error) {
	if s.latched.Load() {
		return s.fallback.ReadingsBySensor(ctx, sensorID, limit)
	}
	readings, err := s.primary.ReadingsBySensor(ctx, sensorID, limit)
	if errors.IsBackendFailure(err) {
		s.trip("ReadingsBySensor", err)
		return s.fallback.ReadingsBySensor(ctx, sensorID, limit)
	}
	return readings, err
}

func (s *Store) ReadingsByRange(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	if s.latched.Load() {
		return s.fallback.ReadingsByRange(ctx, sensorID, start, end)
	}
	readings, err := s.primary.ReadingsByRange(ctx, sensorID, start, end)
	if errors.IsBackendFailure(err) {
		s.trip("ReadingsByRange", err)
		return s.fallback.ReadingsByRange(ctx, sensorID, start, end)
	}
	return readings, err
}

func (s *Store) ReadingsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.ReadingPage, error) {
	if s.latched.Load() {
		return s.fallback.ReadingsPage(ctx, sensorID, page, pageSize, start, end)
	}
	result, err := s.primary.ReadingsPage(ctx, sensorID, page, pageSize, start, end)
	if errors.IsBackendFailure(err) {
		s.trip("ReadingsPage", err)
		return s.fallback.ReadingsPage(ctx, sensorID, page, pageSize, start, end)
	}
	return result, err
}

func (s *Store) LatestReading(ctx context.Context, sensorID string) (*models.Reading, error) {
	if s.latched.Load() {
		return s.fallback.LatestReading(ctx, sensorID)
	}
	reading, err := s.primary.LatestReading(ctx, sensorID)
	if errors.IsBackendFailure(err) {
		s.trip("LatestReading", err)
		return s.fallback.LatestReading(ctx, sensorID)
	}
	return reading, err
}

func (s *Store) InsertEvent(ctx context.Context, event *models.ConnectionEvent) error {
	if s.latched.Load() {
		return s.fallback.InsertEvent(ctx, event)
	}
	err := s.primary.InsertEvent(ctx, event)
	if errors.IsBackendFailure(err) {
		s.trip("InsertEvent", err)
		return s.fallback.InsertEvent(ctx, event)
	}
	return err
}

func (s *Store) Events(ctx context.Context, sensorID string, start, end *time.Time) ([]models.ConnectionEvent, error) {
	if s.latched.Load() {
		return s.fallback.Events(ctx, sensorID, start, end)
	}
	events, err := s.primary.Events(ctx, sensorID, start, end)
	if errors.IsBackendFailure(err) {
		s.trip("Events", err)
		return s.fallback.Events(ctx, sensorID, start, end)
	}
	return events, err
}

func (s *Store) EventsPage(ctx context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.EventPage, error) {
	if s.latched.Load() {
		return s.fallback.EventsPage(ctx, sensorID, page, pageSize, start, end)
	}
	result, err := s.primary.EventsPage(ctx, sensorID, page, pageSize, start, end)
	if errors.IsBackendFailure(err) {
		s.trip("EventsPage", err)
		return s.fallback.EventsPage(ctx, sensorID, page, pageSize, start, end)
	}
	return result, err
}
