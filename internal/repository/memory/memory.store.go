// FilePath: internal/repository/memory/memory.store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/models"
)

// DefaultMaxReadings caps the volatile store when no limit is configured.
const DefaultMaxReadings = 10000

// Store is the volatile fallback variant of the Store contract. It holds
// everything in process memory and enforces a bounded-retention policy on
// readings: once maxReadings is reached the oldest entries are evicted
// first, by insertion order rather than by timestamp.
type Store struct {
	mu          sync.RWMutex
	sensors     map[string]*models.Sensor
	readings    []models.Reading
	events      []models.ConnectionEvent
	maxReadings int
}

// New creates an empty fallback store. maxReadings <= 0 selects the default
// retention cap.
func New(maxReadings int) *Store {
	if maxReadings <= 0 {
		maxReadings = DefaultMaxReadings
	}
	return &Store{
		sensors:     make(map[string]*models.Sensor),
		maxReadings: maxReadings,
	}
}

func (s *Store) RegisterSensor(_ context.Context, sensor *models.Sensor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sensors[sensor.ID]; ok {
		existing.Name = sensor.Name
		existing.Latitude = sensor.Latitude
		existing.Longitude = sensor.Longitude
		existing.LastSeen = sensor.LastSeen
		sensor.CreatedAt = existing.CreatedAt
		return nil
	}

	stored := *sensor
	s.sensors[sensor.ID] = &stored
	return nil
}

func (s *Store) GetSensor(_ context.Context, id string) (*models.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sensor, ok := s.sensors[id]
	if !ok {
		return nil, errors.NewNotFoundError("sensor not found", nil)
	}
	copied := *sensor
	return &copied, nil
}

func (s *Store) ListSensors(_ context.Context) ([]*models.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sensors := make([]*models.Sensor, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		copied := *sensor
		sensors = append(sensors, &copied)
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i].Name < sensors[j].Name })
	return sensors, nil
}

func (s *Store) DeleteSensor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sensors[id]; !ok {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	delete(s.sensors, id)

	kept := s.readings[:0]
	for _, r := range s.readings {
		if r.SensorID != id {
			kept = append(kept, r)
		}
	}
	s.readings = kept

	keptEvents := s.events[:0]
	for _, e := range s.events {
		if e.SensorID != id {
			keptEvents = append(keptEvents, e)
		}
	}
	s.events = keptEvents

	nuts.L.Infof("[MemoryStore] Deleted sensor %s and all associated data", id)
	return nil
}

func (s *Store) UpdateLastSeen(_ context.Context, id string, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sensor, ok := s.sensors[id]
	if !ok {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	sensor.LastSeen = lastSeen
	return nil
}

func (s *Store) InsertReading(_ context.Context, reading *models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}
	s.readings = append(s.readings, *reading)

	// FIFO retention: evict by insertion order, not timestamp.
	if len(s.readings) > s.maxReadings {
		overflow := len(s.readings) - s.maxReadings
		s.readings = append([]models.Reading(nil), s.readings[overflow:]...)
	}
	return nil
}

func (s *Store) ReadingsBySensor(_ context.Context, sensorID string, limit int) ([]models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterReadings(sensorID, nil, nil)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) ReadingsByRange(_ context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterReadings(sensorID, &start, &end), nil
}

func (s *Store) ReadingsPage(_ context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.ReadingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterReadings(sensorID, start, end)
	result := &models.ReadingPage{
		Readings: pageSlice(matched, page, pageSize),
		Total:    int64(len(matched)),
		Page:     page,
		PageSize: pageSize,
	}
	return result, nil
}

func (s *Store) LatestReading(_ context.Context, sensorID string) (*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterReadings(sensorID, nil, nil)
	if len(matched) == 0 {
		return nil, nil
	}
	latest := matched[0]
	return &latest, nil
}

func (s *Store) InsertEvent(_ context.Context, event *models.ConnectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = nuts.NID("ce", 12)
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *Store) Events(_ context.Context, sensorID string, start, end *time.Time) ([]models.ConnectionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterEvents(sensorID, start, end), nil
}

func (s *Store) EventsPage(_ context.Context, sensorID string, page, pageSize int, start, end *time.Time) (*models.EventPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filterEvents(sensorID, start, end)
	result := &models.EventPage{
		Events:   pageSlice(matched, page, pageSize),
		Total:    int64(len(matched)),
		Page:     page,
		PageSize: pageSize,
	}
	return result, nil
}

// filterReadings returns matching readings most-recent-first. Callers must
// hold at least the read lock.
func (s *Store) filterReadings(sensorID string, start, end *time.Time) []models.Reading {
	matched := []models.Reading{}
	for _, r := range s.readings {
		if r.SensorID != sensorID {
			continue
		}
		if !inRange(r.Timestamp, start, end) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched
}

func (s *Store) filterEvents(sensorID string, start, end *time.Time) []models.ConnectionEvent {
	matched := []models.ConnectionEvent{}
	for _, e := range s.events {
		if e.SensorID != sensorID {
			continue
		}
		if !inRange(e.Timestamp, start, end) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func pageSlice[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return []T{}
	}
	limit := offset + pageSize
	if limit > len(items) {
		limit = len(items)
	}
	return items[offset:limit]
}
