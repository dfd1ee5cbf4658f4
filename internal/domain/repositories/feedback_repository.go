package repositories

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback persistence.
type FeedbackRepository interface {
	// Create inserts the feedback; a second insert for the same rating event
	// fails with a conflict (first submission wins).
	Create(ctx context.Context, feedback *entities.Feedback) error
	CountByRatingEvents(ctx context.Context, ratingEventIDs []string) (int64, error)
	// ListByRatingEvents returns inbox rows newest first.
	ListByRatingEvents(ctx context.Context, ratingEventIDs []string) ([]*entities.FeedbackItem, error)
}
