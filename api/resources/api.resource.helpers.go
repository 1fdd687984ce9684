// FilePath: api/resources/api.resource.helpers.go
package resources

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/errors"
)

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError maps a service error onto the wire: APIErrors keep
// their own status code, anything else becomes a 500.
func respondWithServiceError(w http.ResponseWriter, err error, requestID, fallbackMsg string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError(fallbackMsg, err).WithRequestID(requestID))
}
