// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hireloop/jobsync/internal/app"
	"github.com/hireloop/jobsync/internal/domain/model"
)

var validate = validator.New()

// ApplicationDependencies defines the interface for application submission.
type ApplicationDependencies interface {
	Apply(ctx context.Context, listingID string, identity model.Identity) (model.Application, error)
}

// ApplicationsHandler handles application submission requests.
type ApplicationsHandler struct {
	deps ApplicationDependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps ApplicationDependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

// applicationRequest is the write shape for POST /applications.
type applicationRequest struct {
	ListingID   string `json:"listing_id" validate:"required"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
}

// applicationResponse acknowledges a stored submission.
type applicationResponse struct {
	ApplicationID string    `json:"application_id"`
	ListingID     string    `json:"listing_id"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// HandlePostApplication handles POST /applications requests.
func (h *ApplicationsHandler) HandlePostApplication(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_application"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrValidation, err))
		return
	}

	identity := model.Identity{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	submission, err := h.deps.Apply(r.Context(), req.ListingID, identity)
	if err != nil {
		if errors.Is(err, app.ErrListingRequired) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusCreated, applicationResponse{
		ApplicationID: submission.ID,
		ListingID:     submission.ListingID,
		Status:        "submitted",
		SubmittedAt:   submission.SubmittedAt,
	})
}
