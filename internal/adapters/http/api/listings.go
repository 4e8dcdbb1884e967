// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// ListingDependencies defines the interface for listing queries.
type ListingDependencies interface {
	SetFilter(ctx context.Context, text, category string, radiusKm float64)
	Results() []model.EnrichedListing
	RadiusAvailable() bool
}

// ListingsHandler handles listing view requests.
type ListingsHandler struct {
	deps ListingDependencies
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(deps ListingDependencies) *ListingsHandler {
	return &ListingsHandler{deps: deps}
}

// listingsResponse is the read shape for GET /listings.
type listingsResponse struct {
	Count           int                     `json:"count"`
	RadiusAvailable bool                    `json:"radius_available"`
	Listings        []model.EnrichedListing `json:"listings"`
}

// HandleGetListings handles GET /listings?q=&category=&radius_km= requests.
// The query parameters replace the active filter before the view is read, so
// subsequent live updates keep honoring them.
func (h *ListingsHandler) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_listings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	radiusKm := 0.0
	if raw := q.Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		radiusKm = parsed
	}

	h.deps.SetFilter(r.Context(), q.Get("q"), q.Get("category"), radiusKm)
	listings := h.deps.Results()

	writeJSON(w, http.StatusOK, listingsResponse{
		Count:           len(listings),
		RadiusAvailable: h.deps.RadiusAvailable(),
		Listings:        listings,
	})
}
