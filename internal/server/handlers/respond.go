// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
	"cityscout/internal/logger"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.Named("http").Errorw(message, "code", code, "error", err)
	}

	jsonResponse, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// respondWithDomainError maps the error taxonomy to caller-visible statuses:
// no geocoder match is the caller's problem, a provider failure is a bad
// gateway, anything else (including store failures) is internal.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var ue *resource.UpstreamError

	switch {
	case errors.Is(err, location.ErrNoMatch):
		respondWithError(w, http.StatusNotFound, "Location not found", nil)
	case errors.As(err, &ue):
		respondWithError(w, http.StatusBadGateway, "Upstream provider failure", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal failure", err)
	}
}
