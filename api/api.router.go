// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vigilaire/hub/api/resources"
	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/monitoring"
	"github.com/vigilaire/hub/internal/realtime"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
	ws        *realtime.Handler
	metrics   *monitoring.Metrics
}

func NewRouter(svc *hubservice.HubService, ws *realtime.Handler, metrics *monitoring.Metrics) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
		ws:        ws,
		metrics:   metrics,
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// Sensors
	sensors := r.router.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("/register", r.resources.Sensors.RegisterSensor).Methods(http.MethodPost)
	sensors.HandleFunc("/data", r.resources.Sensors.SubmitReading).Methods(http.MethodPost)
	sensors.HandleFunc("/disconnect", r.resources.Sensors.DisconnectSensor).Methods(http.MethodPost)
	sensors.HandleFunc("/list", r.resources.Sensors.ListSensors).Methods(http.MethodGet)
	sensors.HandleFunc("/{id}", r.resources.Sensors.DeleteSensor).Methods(http.MethodDelete)
	sensors.HandleFunc("/{id}/readings", r.resources.History.GetSensorReadings).Methods(http.MethodGet)
	sensors.HandleFunc("/{id}/events", r.resources.History.GetConnectionEvents).Methods(http.MethodGet)

	// Realtime channel
	r.router.Handle("/ws", r.ws).Methods(http.MethodGet)

	// Operational endpoints
	r.router.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
