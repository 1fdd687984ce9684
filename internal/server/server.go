// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/api"
	"github.com/vigilaire/hub/internal/cache"
	"github.com/vigilaire/hub/internal/config"
	"github.com/vigilaire/hub/internal/database"
	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/monitoring"
	"github.com/vigilaire/hub/internal/realtime"
	"github.com/vigilaire/hub/internal/repository"
	"github.com/vigilaire/hub/internal/repository/failover"
	"github.com/vigilaire/hub/internal/repository/memory"
	"github.com/vigilaire/hub/internal/repository/postgres"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	store      *failover.Store
	metrics    *monitoring.Metrics
	done       chan struct{}
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{config: cfg, done: make(chan struct{})}
}

// Start wires all services and begins listening for requests.
func (s *Server) Start() error {
	s.initializeServices()
	s.setupCleanupHandlers()

	registry := realtime.NewRegistry()
	ws := realtime.NewHandler(registry, s.hubservice, s.metrics)
	router := api.NewRouter(s.hubservice, ws, s.metrics)

	handler := handlers.RecoveryHandler()(handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go s.watchFallbackLatch()

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// Seed wires the services and loads demo data, for empty deployments.
func (s *Server) Seed(ctx context.Context) error {
	s.initializeServices()
	return s.hubservice.Seed(ctx)
}

// initializeServices builds the store chain (persistent primary with a
// volatile fallback behind the one-way latch), the latest-reading cache and
// the hub service.
func (s *Server) initializeServices() {
	var primary repository.Store

	db, err := database.NewPostgresDB(s.config.Database)
	if err != nil {
		nuts.L.Errorf("[Server] Persistent backend unreachable, starting on fallback store: %v", err)
	} else {
		pg, err := postgres.New(db)
		if err != nil {
			nuts.L.Errorf("[Server] Failed to initialize schema, starting on fallback store: %v", err)
		} else {
			primary = pg
		}
	}

	fallback := memory.New(s.config.Fallback.MaxReadings)
	s.store = failover.New(primary, fallback)

	s.metrics = monitoring.New()
	s.metrics.SetFallbackActive(s.store.FellBack())

	latest := cache.New(s.config.Redis)

	s.hubservice = hubservice.New(s.store, latest, s.metrics,
		hubservice.WithStaleThreshold(s.config.Liveness.StaleThreshold))
}

// watchFallbackLatch mirrors the failover latch into the metrics gauge
// until the server shuts down.
func (s *Server) watchFallbackLatch() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.metrics.SetFallbackActive(s.store.FellBack())
		case <-s.done:
			return
		}
	}
}

func (s *Server) setupCleanupHandlers() {
	// The emitter matches listener signatures against the emitted
	// arguments, so the handler takes the sensor id directly.
	if _, err := s.hubservice.Events.On("sensor.deleted", "server_log", func(id string) {
		nuts.L.Infof("[Cleanup] Sensor %s and all associated data deleted", id)
	}); err != nil {
		nuts.L.Errorf("[Server] Failed to register cleanup handler: %v", err)
	}
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")
	close(s.done)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}
