package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/entities"
)

// CustomerResolver resolves a customer identity from contact details.
type CustomerResolver interface {
	Resolve(ctx context.Context, businessID, name, phone string) (string, error)
}

// RequestLedger defines the review request operations used by the handler.
type RequestLedger interface {
	Issue(ctx context.Context, businessID, customerID string) (string, error)
	List(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error)
}

// BusinessDirectory looks up the business owned by the authenticated user.
// Shared by every owner-scoped handler in this package.
type BusinessDirectory interface {
	GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error)
}

// RequestHandler handles review request endpoints.
type RequestHandler struct {
	resolver   CustomerResolver
	ledger     RequestLedger
	businesses BusinessDirectory
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(resolver CustomerResolver, ledger RequestLedger, businesses BusinessDirectory) *RequestHandler {
	return &RequestHandler{
		resolver:   resolver,
		ledger:     ledger,
		businesses: businesses,
	}
}

type createRequestPayload struct {
	BusinessID    string `json:"business_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// CreateRequest handles POST /api/requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	business, err := h.businesses.GetByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to load business")
		return
	}

	// The business id in the payload is advisory; requests are always issued
	// against the owner's own business.
	if payload.BusinessID != "" && payload.BusinessID != business.ID {
		respondWithError(w, http.StatusConflict, "business does not belong to the authenticated owner")
		return
	}

	customerID, err := h.resolver.Resolve(r.Context(), business.ID, payload.CustomerName, payload.CustomerPhone)
	if err != nil {
		respondWithAppError(w, err, "failed to resolve customer")
		return
	}

	requestID, err := h.ledger.Issue(r.Context(), business.ID, customerID)
	if err != nil {
		respondWithAppError(w, err, "failed to create review request")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"request_id": requestID,
	})
}

// ListRequests handles GET /api/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	business, err := h.businesses.GetByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to load business")
		return
	}

	requests, err := h.ledger.List(r.Context(), business.ID)
	if err != nil {
		respondWithAppError(w, err, "failed to list review requests")
		return
	}
	if requests == nil {
		requests = []*entities.RequestWithCustomer{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}
