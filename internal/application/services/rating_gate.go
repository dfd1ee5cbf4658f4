package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/repositories"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// RatingGate is the funnel's single branch point: it turns a star value into
// either a public redirect or permission to leave private feedback. Five
// stars is the sole redirect trigger; there is no partial credit.
type RatingGate struct {
	ratings    repositories.RatingEventRepository
	requests   repositories.ReviewRequestRepository
	businesses repositories.BusinessRepository
}

// NewRatingGate creates a new rating gate.
func NewRatingGate(
	ratings repositories.RatingEventRepository,
	requests repositories.ReviewRequestRepository,
	businesses repositories.BusinessRepository,
) *RatingGate {
	return &RatingGate{
		ratings:    ratings,
		requests:   requests,
		businesses: businesses,
	}
}

// RatingPage is what a visitor needs to render the star picker.
type RatingPage struct {
	BusinessName string `json:"business_name"`
	ReviewURLSet bool   `json:"review_url_set"`
}

// Page returns the public rating page data for a business.
func (s *RatingGate) Page(ctx context.Context, businessID string) (*RatingPage, error) {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &RatingPage{
		BusinessName: business.Name,
		ReviewURLSet: business.PublicReviewURL != "",
	}, nil
}

// Submit records a rating event and decides the visitor's path. requestID may
// be nil for ratings reached through a shared link; when present it must
// reference a request of the same business.
func (s *RatingGate) Submit(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error) {
	if stars < 1 || stars > 5 {
		return nil, apperrors.NewValidationError("stars must be between 1 and 5")
	}
	if businessID == "" {
		return nil, apperrors.NewValidationError("business id is required")
	}

	if requestID != nil && *requestID == "" {
		requestID = nil
	}
	if requestID != nil {
		request, err := s.requests.GetByID(ctx, *requestID)
		if err != nil {
			return nil, err
		}
		if request.BusinessID != businessID {
			return nil, apperrors.NewConflictError("request belongs to a different business")
		}
	}

	redirected := stars == 5

	var redirectURL string
	if redirected {
		business, err := s.businesses.GetByID(ctx, businessID)
		if err != nil {
			return nil, err
		}
		if business.PublicReviewURL == "" {
			return nil, apperrors.NewConflictError("business has no public review URL configured")
		}
		redirectURL = business.PublicReviewURL
	}

	event := &entities.RatingEvent{
		ID:              uuid.New().String(),
		ReviewRequestID: requestID,
		Stars:           stars,
		Redirected:      redirected,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.ratings.Create(ctx, event); err != nil {
		return nil, err
	}

	if redirected {
		return &entities.Decision{
			Kind:        entities.DecisionRedirect,
			RedirectURL: redirectURL,
		}, nil
	}
	return &entities.Decision{
		Kind:          entities.DecisionFeedbackAllowed,
		RatingEventID: event.ID,
	}, nil
}
