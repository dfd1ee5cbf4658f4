package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reviewrelay/backend/internal/application/services"
	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/infrastructure/observability"
)

// RatingService defines the rating operations used by the handler.
type RatingService interface {
	Page(ctx context.Context, businessID string) (*services.RatingPage, error)
	Submit(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error)
}

// RatingHandler handles the public rating page endpoints.
type RatingHandler struct {
	service RatingService
	metrics *observability.Metrics
}

// NewRatingHandler creates a new rating handler. metrics may be nil.
func NewRatingHandler(service RatingService, metrics *observability.Metrics) *RatingHandler {
	return &RatingHandler{service: service, metrics: metrics}
}

// GetRatingPage handles GET /api/rate/{businessId}
func (h *RatingHandler) GetRatingPage(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("businessId")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "business id is required")
		return
	}

	page, err := h.service.Page(r.Context(), businessID)
	if err != nil {
		respondWithAppError(w, err, "failed to load rating page")
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

type submitRatingPayload struct {
	Stars     int    `json:"stars"`
	RequestID string `json:"request_id"`
}

// SubmitRating handles POST /api/rate/{businessId}
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("businessId")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "business id is required")
		return
	}

	var payload submitRatingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var requestID *string
	if payload.RequestID != "" {
		requestID = &payload.RequestID
	}

	decision, err := h.service.Submit(r.Context(), businessID, payload.Stars, requestID)
	if err != nil {
		respondWithAppError(w, err, "failed to submit rating")
		return
	}

	observability.RecordRating(r.Context(), h.metrics, payload.Stars, decision.Kind == entities.DecisionRedirect)

	if decision.Kind == entities.DecisionRedirect {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"redirect": true,
			"url":      decision.RedirectURL,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"redirect":        false,
		"feedback_form":   true,
		"rating_event_id": decision.RatingEventID,
	})
}
