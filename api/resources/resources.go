// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/vigilaire/hub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sensors *SensorHandlers
	History *HistoryHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Sensors: &SensorHandlers{hubservice: svc},
		History: &HistoryHandlers{hubservice: svc},
	}
}

// HealthCheck reports process liveness.
func (r *Resources) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
