package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/entities"
)

// BusinessManager defines the business profile operations used by the handler.
type BusinessManager interface {
	Create(ctx context.Context, ownerID, name, publicReviewURL, industry string) (*entities.Business, error)
	GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error)
	Update(ctx context.Context, ownerID string, business *entities.Business) (*entities.Business, error)
}

// BusinessHandler handles the owner's business profile endpoints.
type BusinessHandler struct {
	service BusinessManager
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(service BusinessManager) *BusinessHandler {
	return &BusinessHandler{service: service}
}

type businessPayload struct {
	Name            string `json:"name"`
	PublicReviewURL string `json:"public_review_url"`
	Industry        string `json:"industry"`
}

// CreateBusiness handles POST /api/business
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload businessPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	business, err := h.service.Create(r.Context(), ownerID, payload.Name, payload.PublicReviewURL, payload.Industry)
	if err != nil {
		respondWithAppError(w, err, "failed to create business")
		return
	}

	respondWithJSON(w, http.StatusCreated, business)
}

// GetBusiness handles GET /api/business
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	business, err := h.service.GetByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to load business")
		return
	}

	respondWithJSON(w, http.StatusOK, business)
}

// UpdateBusiness handles PUT /api/business
func (h *BusinessHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload businessPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	business, err := h.service.GetByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to load business")
		return
	}

	business.Name = payload.Name
	business.PublicReviewURL = payload.PublicReviewURL
	business.Industry = payload.Industry

	updated, err := h.service.Update(r.Context(), ownerID, business)
	if err != nil {
		respondWithAppError(w, err, "failed to update business")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}
