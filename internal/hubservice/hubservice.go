// FilePath: internal/hubservice/hubservice.go
package hubservice

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/cache"
	"github.com/vigilaire/hub/internal/monitoring"
	"github.com/vigilaire/hub/internal/repository"
)

// DefaultStaleThreshold is the window after which a silent sensor counts as
// disconnected.
const DefaultStaleThreshold = 60 * time.Second

// HubService owns the liveness engine and fronts the store for the API
// layer. Liveness is inferred: there is no heartbeat protocol, a sensor is
// live exactly when its last contact is younger than the stale threshold.
type HubService struct {
	store   repository.Store
	cache   cache.LatestReadings
	metrics *monitoring.Metrics

	staleThreshold time.Duration
	now            func() time.Time

	// sensorLocks serializes the read-lastSeen / decide / write / journal
	// sequence per sensor so a burst of near-simultaneous readings cannot
	// double-log a connect event.
	mu          sync.Mutex
	sensorLocks map[string]*sync.Mutex

	// Events emits "sensor.deleted" after a successful cascade delete.
	Events *nuts.EventEmitter
}

// Option tweaks service construction.
type Option func(*HubService)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *HubService) { s.now = now }
}

// WithStaleThreshold overrides the liveness window.
func WithStaleThreshold(d time.Duration) Option {
	return func(s *HubService) {
		if d > 0 {
			s.staleThreshold = d
		}
	}
}

// New creates a HubService instance.
func New(store repository.Store, latest cache.LatestReadings, metrics *monitoring.Metrics, opts ...Option) *HubService {
	svc := &HubService{
		store:          store,
		cache:          latest,
		metrics:        metrics,
		staleThreshold: DefaultStaleThreshold,
		now:            time.Now,
		sensorLocks:    make(map[string]*sync.Mutex),
		Events:         nuts.NewEventEmitter(),
	}
	if svc.cache == nil {
		svc.cache = cache.Nop{}
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// StaleThreshold returns the configured liveness window.
func (s *HubService) StaleThreshold() time.Duration {
	return s.staleThreshold
}

func (s *HubService) lockSensor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sensorLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.sensorLocks[id] = lock
	}
	return lock
}

func (s *HubService) releaseSensorLock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sensorLocks, id)
}
