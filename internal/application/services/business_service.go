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

// BusinessService manages the owner's business profile.
type BusinessService struct {
	repo repositories.BusinessRepository
}

// NewBusinessService creates a new business service.
func NewBusinessService(repo repositories.BusinessRepository) *BusinessService {
	return &BusinessService{repo: repo}
}

// Create registers a business for an owner.
func (s *BusinessService) Create(ctx context.Context, ownerID, name, publicReviewURL, industry string) (*entities.Business, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	business := &entities.Business{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		Name:            name,
		PublicReviewURL: strings.TrimSpace(publicReviewURL),
		Industry:        strings.TrimSpace(industry),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	return business, nil
}

// GetByOwner returns the owner's business.
func (s *BusinessService) GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// Update changes a business's profile. The update is scoped to the owner, so
// another owner's business appears not found.
func (s *BusinessService) Update(ctx context.Context, ownerID string, business *entities.Business) (*entities.Business, error) {
	if business.ID == "" {
		return nil, apperrors.NewValidationError("business id is required")
	}
	business.Name = strings.TrimSpace(business.Name)
	if business.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	matched, err := s.repo.Update(ctx, ownerID, business)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, apperrors.NewNotFoundError("business not found for owner")
	}

	return s.repo.GetByID(ctx, business.ID)
}
