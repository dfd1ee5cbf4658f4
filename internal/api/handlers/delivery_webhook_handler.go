package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// RequestAdvancer moves a review request through its delivery lifecycle.
type RequestAdvancer interface {
	Advance(ctx context.Context, requestID string, next entities.RequestStatus) error
}

// DeliveryWebhookHandler receives delivery status callbacks from the
// messaging provider.
type DeliveryWebhookHandler struct {
	ledger RequestAdvancer
	secret string
}

// NewDeliveryWebhookHandler creates a new delivery webhook handler.
func NewDeliveryWebhookHandler(ledger RequestAdvancer, secret string) *DeliveryWebhookHandler {
	return &DeliveryWebhookHandler{ledger: ledger, secret: secret}
}

type deliveryEventPayload struct {
	RequestID string `json:"request_id"`
	Event     string `json:"event"`
}

var deliveryEventStatuses = map[string]entities.RequestStatus{
	"delivered": entities.RequestStatusDelivered,
	"read":      entities.RequestStatusRead,
	"completed": entities.RequestStatusCompleted,
	"failed":    entities.RequestStatusFailed,
}

// HandleDeliveryEvent handles POST /webhooks/delivery
func (h *DeliveryWebhookHandler) HandleDeliveryEvent(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		respondWithError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var payload deliveryEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.RequestID == "" {
		respondWithError(w, http.StatusBadRequest, "request id is required")
		return
	}

	status, ok := deliveryEventStatuses[payload.Event]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "unknown delivery event")
		return
	}

	if err := h.ledger.Advance(r.Context(), payload.RequestID, status); err != nil {
		log.Warn().
			Err(err).
			Str("request_id", payload.RequestID).
			Str("event", payload.Event).
			Msg("delivery event rejected")
		respondWithAppError(w, err, "failed to apply delivery event")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"ack": true})
}

func (h *DeliveryWebhookHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	provided := r.Header.Get("X-Webhook-Secret")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) == 1
}
