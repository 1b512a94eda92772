// internal/server/handlers/location.go

package handlers

import (
	"net/http"

	"cityscout/internal/domain/location"
)

// LocationHandler handles location resolution HTTP requests
type LocationHandler struct {
	resolver location.Resolver
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(resolver location.Resolver) *LocationHandler {
	return &LocationHandler{resolver: resolver}
}

// GetLocation resolves the free-text "data" query parameter to a canonical
// location record.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("data")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Missing data parameter", nil)
		return
	}

	rec, err := h.resolver.Resolve(r.Context(), query)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}
