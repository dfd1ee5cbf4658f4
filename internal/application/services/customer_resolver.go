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

// CustomerResolver maps (business, phone) to a stable customer identity,
// creating the customer lazily on first contact.
type CustomerResolver struct {
	repo repositories.CustomerRepository
}

// NewCustomerResolver creates a new customer resolver.
func NewCustomerResolver(repo repositories.CustomerRepository) *CustomerResolver {
	return &CustomerResolver{repo: repo}
}

// Resolve returns the customer id for (businessID, phone), creating the row
// with the supplied name when absent. Resolution rides on the store's unique
// constraint; an unresolved race is retried once before surfacing.
func (s *CustomerResolver) Resolve(ctx context.Context, businessID, name, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", apperrors.NewValidationError("phone is required")
	}
	if businessID == "" {
		return "", apperrors.NewValidationError("business id is required")
	}

	customer := &entities.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       strings.TrimSpace(name),
		Phone:      phone,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := s.repo.Upsert(ctx, customer)
	if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
		customer.ID = uuid.New().String()
		id, err = s.repo.Upsert(ctx, customer)
	}
	if err != nil {
		return "", err
	}

	return id, nil
}
