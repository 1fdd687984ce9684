// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
	"github.com/vigilaire/hub/internal/hubservice"
	"github.com/vigilaire/hub/internal/models"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

type registerRequest struct {
	SensorID  string   `json:"sensorId"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type readingRequest struct {
	SensorID    string   `json:"sensorId"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	PM25        *float64 `json:"pm25"`
}

type disconnectRequest struct {
	SensorID string `json:"sensorId"`
}

// @Summary Register a sensor
// @Description Upsert a sensor by its device-assigned id
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body registerRequest true "Sensor identity and location"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Router /sensors/register [post]
func (h *SensorHandlers) RegisterSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.SensorID == "" || req.Name == "" || req.Latitude == nil || req.Longitude == nil {
		respondWithError(w, errors.NewValidationError(
			"missing required fields: sensorId, name, latitude, longitude", nil).WithRequestID(requestID))
		return
	}

	sensor, err := h.hubservice.RegisterSensor(r.Context(), req.SensorID, req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		respondWithServiceError(w, err, requestID, "failed to register sensor")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sensor": sensor})
}

// @Summary Submit a reading
// @Description Ingest one measurement for a registered sensor
// @Tags sensors
// @Accept json
// @Produce json
// @Param reading body readingRequest true "Measurement values"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sensors/data [post]
func (h *SensorHandlers) SubmitReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.SensorID == "" || req.Temperature == nil || req.Humidity == nil || req.PM25 == nil {
		respondWithError(w, errors.NewValidationError(
			"missing required fields: sensorId, temperature, humidity, pm25", nil).WithRequestID(requestID))
		return
	}

	reading, err := h.hubservice.RecordReading(r.Context(), req.SensorID, *req.Temperature, *req.Humidity, *req.PM25, time.Time{})
	if err != nil {
		respondWithServiceError(w, err, requestID, "failed to save sensor data")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "reading": reading})
}

// @Summary Disconnect a sensor
// @Description Journal an explicit disconnect for a sensor
// @Tags sensors
// @Accept json
// @Produce json
// @Param body body disconnectRequest true "Sensor id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.APIError
// @Router /sensors/disconnect [post]
func (h *SensorHandlers) DisconnectSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req disconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.SensorID == "" {
		respondWithError(w, errors.NewValidationError("missing required field: sensorId", nil).WithRequestID(requestID))
		return
	}

	// The sensor must exist; a disconnect for an unknown id is a 404, not
	// a silently accepted no-op.
	if _, err := h.hubservice.GetSensor(r.Context(), req.SensorID); err != nil {
		respondWithServiceError(w, err, requestID, "failed to disconnect sensor")
		return
	}

	if err := h.hubservice.SetConnection(r.Context(), req.SensorID, false); err != nil {
		respondWithServiceError(w, err, requestID, "failed to disconnect sensor")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// @Summary List sensors
// @Description All sensors with derived liveness and their latest reading
// @Tags sensors
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sensors/list [get]
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.hubservice.ListSensors(r.Context())
	if err != nil {
		// Degrade to an empty list so the dashboard shell stays
		// renderable; this route never fails the page.
		nuts.L.Errorf("[API] Failed to list sensors: %v", err)
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"sensors": []*models.SensorWithLastReading{},
			"error":   "failed to fetch sensors",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"sensors": sensors})
}

// @Summary Delete a sensor
// @Description Remove a sensor and cascade to its readings and events
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [delete]
func (h *SensorHandlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteSensor(r.Context(), id); err != nil {
		respondWithServiceError(w, err, requestID, "failed to delete sensor")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
