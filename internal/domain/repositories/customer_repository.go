package repositories

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/entities"
)

// CustomerRepository defines the interface for customer persistence.
type CustomerRepository interface {
	// Upsert inserts the customer or, when a row already exists for its
	// (business_id, phone), returns the existing row's id. The operation is
	// atomic against the unique constraint, never read-then-write.
	Upsert(ctx context.Context, customer *entities.Customer) (string, error)
	GetByID(ctx context.Context, id string) (*entities.Customer, error)
}
