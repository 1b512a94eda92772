// internal/server/handlers/resource.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// ResourceGetter serves resource batches for a resolved location.
type ResourceGetter interface {
	GetResource(ctx context.Context, kind resource.Kind, loc location.Record) ([]resource.Record, error)
}

// ResourceHandler handles the per-kind resource HTTP requests. Every
// request goes through the resolver first to obtain or confirm the
// location, then through the cache coordinator.
type ResourceHandler struct {
	resolver    location.Resolver
	coordinator ResourceGetter
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resolver location.Resolver, coordinator ResourceGetter) *ResourceHandler {
	return &ResourceHandler{
		resolver:    resolver,
		coordinator: coordinator,
	}
}

// Get returns the handler for one resource kind. The "data" parameter is
// either the JSON location record a /location call returned, or a bare
// search string.
func (h *ResourceHandler) Get(kind resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := r.URL.Query().Get("data")
		if data == "" {
			respondWithError(w, http.StatusBadRequest, "Missing data parameter", nil)
			return
		}

		loc, err := h.confirmLocation(r.Context(), data)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		records, err := h.coordinator.GetResource(r.Context(), kind, *loc)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, records)
	}
}

// confirmLocation accepts a serialized location record or a raw query and
// always comes back with a stored location carrying its assigned ID.
func (h *ResourceHandler) confirmLocation(ctx context.Context, data string) (*location.Record, error) {
	var rec location.Record
	if err := json.Unmarshal([]byte(data), &rec); err == nil {
		if rec.ID != 0 {
			return &rec, nil
		}
		if rec.SearchQuery != "" {
			return h.resolver.Resolve(ctx, rec.SearchQuery)
		}
		if rec.FormattedQuery != "" {
			return h.resolver.Resolve(ctx, rec.FormattedQuery)
		}
	}

	return h.resolver.Resolve(ctx, data)
}
