package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/repositories"
	"github.com/reviewrelay/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// BusinessAdapter implements the BusinessRepository interface
type BusinessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) repositories.BusinessRepository {
	return &BusinessAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a business row
func (a *BusinessAdapter) Create(ctx context.Context, business *entities.Business) error {
	record := goqu.Record{
		"id":                business.ID,
		"owner_id":          business.OwnerID,
		"name":              business.Name,
		"public_review_url": sql.NullString{String: business.PublicReviewURL, Valid: business.PublicReviewURL != ""},
		"industry":          sql.NullString{String: business.Industry, Valid: business.Industry != ""},
		"created_at":        business.CreatedAt,
	}

	query, args, err := a.db.Insert("businesses").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build business insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("owner already has a business")
		}
		return apperrors.NewUnavailableError("failed to create business", err)
	}

	return nil
}

// GetByID retrieves a business by id
func (a *BusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("business with id %s not found", id))
}

// GetByOwner retrieves the business owned by ownerID
func (a *BusinessAdapter) GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	return a.getOne(ctx, goqu.Ex{"owner_id": ownerID}, "business not found for owner")
}

func (a *BusinessAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Business, error) {
	query, args, err := a.db.Select(
		"id", "owner_id", "name", "public_review_url", "industry", "created_at",
	).From("businesses").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build business query", err)
	}

	business := &entities.Business{}
	var reviewURL, industry sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&reviewURL,
		&industry,
		&business.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get business", err)
	}

	business.PublicReviewURL = reviewURL.String
	business.Industry = industry.String

	return business, nil
}

// Update persists name, review URL and industry for a business owned by
// ownerID, reporting whether a row matched
func (a *BusinessAdapter) Update(ctx context.Context, ownerID string, business *entities.Business) (bool, error) {
	record := goqu.Record{
		"name":              business.Name,
		"public_review_url": sql.NullString{String: business.PublicReviewURL, Valid: business.PublicReviewURL != ""},
		"industry":          sql.NullString{String: business.Industry, Valid: business.Industry != ""},
	}

	query, args, err := a.db.Update("businesses").
		Set(record).
		Where(goqu.Ex{"id": business.ID, "owner_id": ownerID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build business update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewUnavailableError("failed to update business", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read update result", err)
	}

	return affected > 0, nil
}
