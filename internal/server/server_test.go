// FilePath: internal/server/server_test.go
package server

import (
	"testing"
	"time"

	"github.com/vigilaire/hub/internal/config"
	"github.com/vigilaire/hub/internal/monitoring"
	"github.com/vigilaire/hub/internal/repository/failover"
	"github.com/vigilaire/hub/internal/repository/memory"
)

func TestWatchFallbackLatchStopsOnShutdown(t *testing.T) {
	s := New(&config.Config{})
	s.store = failover.New(nil, memory.New(0))
	s.metrics = monitoring.New()

	stopped := make(chan struct{})
	go func() {
		s.watchFallbackLatch()
		close(stopped)
	}()

	close(s.done)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("latch watcher kept running after shutdown")
	}
}
