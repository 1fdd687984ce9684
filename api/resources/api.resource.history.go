// FilePath: api/resources/api.resource.history.go
package resources

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/models"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// HistoryHandlers serves the time-ranged and paginated queries over
// readings and connection events.
type HistoryHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Query sensor readings
// @Description Filter shapes: limit, or (startDate,endDate), or (page,pageSize,optional range)
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Param limit query int false "Max rows, most recent first"
// @Param startDate query string false "Range start (RFC3339)"
// @Param endDate query string false "Range end (RFC3339)"
// @Param page query int false "Page number, 1-based"
// @Param pageSize query int false "Rows per page"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.APIError
// @Router /sensors/{id}/readings [get]
func (h *HistoryHandlers) GetSensorReadings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	filters, start, end, err := parseHistoryFilters(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	switch {
	case filters.Paginated():
		page, err := h.hubservice.ReadingsPage(r.Context(), id, filters.Page, filters.PageSize, start, end)
		if err != nil {
			respondWithError(w, errors.NewInternalError("failed to fetch readings", err).WithRequestID(requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, page)

	case filters.Ranged():
		readings, err := h.hubservice.ReadingsByRange(r.Context(), id, *start, *end)
		if err != nil {
			respondWithError(w, errors.NewInternalError("failed to fetch readings", err).WithRequestID(requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"readings": readings})

	default:
		readings, err := h.hubservice.Readings(r.Context(), id, filters.Limit)
		if err != nil {
			respondWithError(w, errors.NewInternalError("failed to fetch readings", err).WithRequestID(requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"readings": readings})
	}
}

// @Summary Query connection events
// @Description Same filter shapes as the readings endpoint
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.APIError
// @Router /sensors/{id}/events [get]
func (h *HistoryHandlers) GetConnectionEvents(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	filters, start, end, err := parseHistoryFilters(r)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	if filters.Paginated() {
		page, err := h.hubservice.ConnectionEventsPage(r.Context(), id, filters.Page, filters.PageSize, start, end)
		if err != nil {
			respondWithError(w, errors.NewInternalError("failed to fetch connection events", err).WithRequestID(requestID))
			return
		}
		respondWithJSON(w, http.StatusOK, page)
		return
	}

	events, err := h.hubservice.ConnectionEvents(r.Context(), id, start, end)
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to fetch connection events", err).WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func parseHistoryFilters(r *http.Request) (*models.HistoryFilters, *time.Time, *time.Time, error) {
	filters := &models.HistoryFilters{}
	if err := queryDecoder.Decode(filters, r.URL.Query()); err != nil {
		return nil, nil, nil, err
	}

	start, err := filters.StartTime()
	if err != nil {
		return nil, nil, nil, err
	}
	end, err := filters.EndTime()
	if err != nil {
		return nil, nil, nil, err
	}
	return filters, start, end, nil
}
