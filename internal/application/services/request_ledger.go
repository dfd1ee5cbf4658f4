package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/internal/domain/repositories"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// LedgerPolicy configures how review requests may progress.
type LedgerPolicy struct {
	// Strict forbids skipping delivery states (e.g. sent straight to
	// completed).
	Strict bool
	// RatingBaseURL is the public origin used to build rating links in
	// invites.
	RatingBaseURL string
}

// RequestLedger creates review requests and tracks their delivery status.
type RequestLedger struct {
	requests   repositories.ReviewRequestRepository
	customers  repositories.CustomerRepository
	businesses repositories.BusinessRepository
	messenger  providers.MessageProvider
	policy     LedgerPolicy
}

// NewRequestLedger creates a new request ledger. messenger may be nil, in
// which case no invites are dispatched.
func NewRequestLedger(
	requests repositories.ReviewRequestRepository,
	customers repositories.CustomerRepository,
	businesses repositories.BusinessRepository,
	messenger providers.MessageProvider,
	policy LedgerPolicy,
) *RequestLedger {
	return &RequestLedger{
		requests:   requests,
		customers:  customers,
		businesses: businesses,
		messenger:  messenger,
		policy:     policy,
	}
}

// Issue creates a request in status sent and hands the invite to the message
// provider fire-and-forget. A delivery failure never rolls the request back;
// it is reflected later as a transition to failed.
func (s *RequestLedger) Issue(ctx context.Context, businessID, customerID string) (string, error) {
	if businessID == "" || customerID == "" {
		return "", apperrors.NewValidationError("business id and customer id are required")
	}

	request := &entities.ReviewRequest{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		CustomerID: customerID,
		Status:     entities.RequestStatusSent,
		SentAt:     time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return "", err
	}

	s.dispatchInvite(request)

	return request.ID, nil
}

// dispatchInvite sends the review invite in the background. A fresh context
// is used because the issuing request's context may already be cancelled.
func (s *RequestLedger) dispatchInvite(request *entities.ReviewRequest) {
	if s.messenger == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		customer, err := s.customers.GetByID(ctx, request.CustomerID)
		if err != nil {
			log.Warn().Err(err).Str("request_id", request.ID).Msg("invite dispatch: customer lookup failed")
			s.markFailed(ctx, request.ID)
			return
		}
		business, err := s.businesses.GetByID(ctx, request.BusinessID)
		if err != nil {
			log.Warn().Err(err).Str("request_id", request.ID).Msg("invite dispatch: business lookup failed")
			s.markFailed(ctx, request.ID)
			return
		}

		invite := &providers.ReviewInvite{
			ToPhone:      customer.Phone,
			CustomerName: customer.Name,
			BusinessName: business.Name,
			RatingURL:    fmt.Sprintf("%s/rate/%s?rid=%s", s.policy.RatingBaseURL, request.BusinessID, request.ID),
		}

		messageID, err := s.messenger.SendInvite(ctx, invite)
		if err != nil {
			log.Warn().Err(err).Str("request_id", request.ID).Msg("invite dispatch failed")
			s.markFailed(ctx, request.ID)
			return
		}

		log.Info().
			Str("request_id", request.ID).
			Str("message_id", messageID).
			Msg("review invite dispatched")
	}()
}

func (s *RequestLedger) markFailed(ctx context.Context, requestID string) {
	ok, err := s.requests.UpdateStatus(ctx, requestID, entities.RequestStatusSent, entities.RequestStatusFailed)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to mark request as failed")
		return
	}
	if !ok {
		// The request already moved past sent; the delivery signal wins.
		log.Debug().Str("request_id", requestID).Msg("request advanced before failure could be recorded")
	}
}

// Advance moves a request to a new status. Transitions are forward-only;
// invalid moves fail with a conflict.
func (s *RequestLedger) Advance(ctx context.Context, requestID string, next entities.RequestStatus) error {
	if !next.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown status %q", next))
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if !request.Status.CanAdvanceTo(next, s.policy.Strict) {
		return apperrors.NewConflictError(
			fmt.Sprintf("invalid transition from %s to %s", request.Status, next))
	}

	ok, err := s.requests.UpdateStatus(ctx, requestID, request.Status, next)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewConflictError("request status changed concurrently")
	}

	return nil
}

// List returns the business's requests joined with customer display fields,
// most recent first.
func (s *RequestLedger) List(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error) {
	return s.requests.ListByBusiness(ctx, businessID)
}
