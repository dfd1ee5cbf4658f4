package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/repositories"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// FeedbackCollector records private feedback attached to gated ratings and
// lists the owner's feedback inbox.
type FeedbackCollector struct {
	feedback repositories.FeedbackRepository
	ratings  repositories.RatingEventRepository
	requests repositories.ReviewRequestRepository
}

// NewFeedbackCollector creates a new feedback collector.
func NewFeedbackCollector(
	feedback repositories.FeedbackRepository,
	ratings repositories.RatingEventRepository,
	requests repositories.ReviewRequestRepository,
) *FeedbackCollector {
	return &FeedbackCollector{
		feedback: feedback,
		ratings:  ratings,
		requests: requests,
	}
}

// Attach stores feedback for a rating event. Feedback is only valid on
// sub-five-star ratings, and the first submission per event wins.
func (s *FeedbackCollector) Attach(ctx context.Context, ratingEventID, message, contact string) (string, error) {
	message = strings.TrimSpace(message)
	if ratingEventID == "" {
		return "", apperrors.NewValidationError("rating event id is required")
	}
	if message == "" {
		return "", apperrors.NewValidationError("message is required")
	}

	event, err := s.ratings.GetByID(ctx, ratingEventID)
	if err != nil {
		return "", err
	}
	if event.Stars == 5 {
		return "", apperrors.NewConflictError("feedback is only accepted on ratings below five stars")
	}

	feedback := &entities.Feedback{
		ID:            uuid.New().String(),
		RatingEventID: ratingEventID,
		Message:       message,
		Contact:       strings.TrimSpace(contact),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return "", err
	}

	return feedback.ID, nil
}

// Inbox lists all feedback for a business by walking requests to rating
// events to feedback. An empty set at any hop short-circuits to an empty
// inbox rather than an error.
func (s *FeedbackCollector) Inbox(ctx context.Context, businessID string) ([]*entities.FeedbackItem, error) {
	requestIDs, err := s.requests.ListIDsByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(requestIDs) == 0 {
		return nil, nil
	}

	ratingIDs, err := s.ratings.ListIDsByRequests(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	if len(ratingIDs) == 0 {
		return nil, nil
	}

	return s.feedback.ListByRatingEvents(ctx, ratingIDs)
}
