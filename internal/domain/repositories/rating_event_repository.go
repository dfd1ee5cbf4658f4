package repositories

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// RatingEventRepository defines the interface for rating event persistence.
type RatingEventRepository interface {
	Create(ctx context.Context, event *entities.RatingEvent) error
	GetByID(ctx context.Context, id string) (*entities.RatingEvent, error)
	CountFiveStarByRequests(ctx context.Context, requestIDs []string) (int64, error)
	ListIDsByRequests(ctx context.Context, requestIDs []string) ([]string, error)
}
