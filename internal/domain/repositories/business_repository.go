package repositories

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// BusinessRepository defines the interface for business persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *entities.Business) error
	GetByID(ctx context.Context, id string) (*entities.Business, error)
	GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error)
	// Update persists changes to a business owned by ownerID and reports
	// whether a row matched.
	Update(ctx context.Context, ownerID string, business *entities.Business) (bool, error)
}
