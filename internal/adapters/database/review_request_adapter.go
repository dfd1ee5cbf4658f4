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

// ReviewRequestAdapter implements the ReviewRequestRepository interface
type ReviewRequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewRequestAdapter creates a new review request adapter
func NewReviewRequestAdapter(client *postgres.Client) repositories.ReviewRequestRepository {
	return &ReviewRequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review request row
func (a *ReviewRequestAdapter) Create(ctx context.Context, request *entities.ReviewRequest) error {
	record := goqu.Record{
		"id":          request.ID,
		"business_id": request.BusinessID,
		"customer_id": request.CustomerID,
		"status":      string(request.Status),
		"sent_at":     request.SentAt,
	}

	query, args, err := a.db.Insert("review_requests").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build request insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create review request", err)
	}

	return nil
}

// GetByID retrieves a review request by id
func (a *ReviewRequestAdapter) GetByID(ctx context.Context, id string) (*entities.ReviewRequest, error) {
	query, args, err := a.db.Select(
		"id", "business_id", "customer_id", "status", "sent_at",
	).From("review_requests").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request query", err)
	}

	request := &entities.ReviewRequest{}
	var status string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&request.BusinessID,
		&request.CustomerID,
		&status,
		&request.SentAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review request with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get review request", err)
	}

	request.Status = entities.RequestStatus(status)
	return request, nil
}

// UpdateStatus moves a request from one status to another. The WHERE clause
// pins the current status so a concurrent advance cannot be overwritten.
func (a *ReviewRequestAdapter) UpdateStatus(ctx context.Context, id string, from, to entities.RequestStatus) (bool, error) {
	query, args, err := a.db.Update("review_requests").
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build status update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewUnavailableError("failed to update request status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read status update result", err)
	}

	return affected > 0, nil
}

// ListByBusiness returns requests joined with customer display fields, most
// recent first
func (a *ReviewRequestAdapter) ListByBusiness(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error) {
	query, args, err := a.db.Select(
		goqu.I("review_requests.id"),
		goqu.I("customers.name"),
		goqu.I("customers.phone"),
		goqu.I("review_requests.status"),
		goqu.I("review_requests.sent_at"),
	).From("review_requests").
		Join(goqu.T("customers"), goqu.On(goqu.I("review_requests.customer_id").Eq(goqu.I("customers.id")))).
		Where(goqu.I("review_requests.business_id").Eq(businessID)).
		Order(goqu.I("review_requests.sent_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list review requests", err)
	}
	defer rows.Close()

	var requests []*entities.RequestWithCustomer
	for rows.Next() {
		r := &entities.RequestWithCustomer{}
		var status string
		if err := rows.Scan(&r.ID, &r.CustomerName, &r.CustomerPhone, &status, &r.SentAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review request", err)
		}
		r.Status = entities.RequestStatus(status)
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("failed to read review requests", err)
	}

	return requests, nil
}

// ListIDsByBusiness returns all request ids for a business
func (a *ReviewRequestAdapter) ListIDsByBusiness(ctx context.Context, businessID string) ([]string, error) {
	query, args, err := a.db.Select("id").
		From("review_requests").
		Where(goqu.Ex{"business_id": businessID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request id query", err)
	}

	return a.scanIDs(ctx, query, args)
}

// CountByStatus counts a business's requests in the given status
func (a *ReviewRequestAdapter) CountByStatus(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
	query, args, err := a.db.From("review_requests").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"business_id": businessID, "status": string(status)}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build request count query", err)
	}

	var count int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewUnavailableError("failed to count review requests", err)
	}

	return count, nil
}

func (a *ReviewRequestAdapter) scanIDs(ctx context.Context, query string, args []interface{}) ([]string, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list request ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan request id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("failed to read request ids", err)
	}

	return ids, nil
}
