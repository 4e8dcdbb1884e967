// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SetFilter replaces the active listing filter.
	SetFilter(ctx context.Context, text, category string, radiusKm float64)

	// Results returns the current filtered, enriched view.
	Results() []model.EnrichedListing

	// RadiusAvailable reports whether distance filtering can run.
	RadiusAvailable() bool

	// Apply submits an application for a listing.
	Apply(ctx context.Context, listingID string, identity model.Identity) (model.Application, error)

	// Stats exposes synchronizer statistics.
	Stats() map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	listingsHandler     *ListingsHandler
	applicationsHandler *ApplicationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(deps),
		listingsHandler:     NewListingsHandler(deps),
		applicationsHandler: NewApplicationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/listings", MetricsMiddleware(s.listingsHandler.HandleGetListings, "listings"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.applicationsHandler.HandlePostApplication, "applications"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
