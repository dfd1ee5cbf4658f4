package repositories

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// ReviewRequestRepository defines the interface for review request persistence.
type ReviewRequestRepository interface {
	Create(ctx context.Context, request *entities.ReviewRequest) error
	GetByID(ctx context.Context, id string) (*entities.ReviewRequest, error)
	// UpdateStatus moves a request from one status to another and reports
	// whether a row matched, so concurrent advances cannot regress state.
	UpdateStatus(ctx context.Context, id string, from, to entities.RequestStatus) (bool, error)
	// ListByBusiness returns requests joined with customer display fields,
	// most recent first.
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error)
	ListIDsByBusiness(ctx context.Context, businessID string) ([]string, error)
	CountByStatus(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error)
}
