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

// RatingEventAdapter implements the RatingEventRepository interface
type RatingEventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRatingEventAdapter creates a new rating event adapter
func NewRatingEventAdapter(client *postgres.Client) repositories.RatingEventRepository {
	return &RatingEventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a rating event row
func (a *RatingEventAdapter) Create(ctx context.Context, event *entities.RatingEvent) error {
	var requestID sql.NullString
	if event.ReviewRequestID != nil {
		requestID = sql.NullString{String: *event.ReviewRequestID, Valid: true}
	}

	record := goqu.Record{
		"id":                event.ID,
		"review_request_id": requestID,
		"stars":             event.Stars,
		"redirected":        event.Redirected,
		"created_at":        event.CreatedAt,
	}

	query, args, err := a.db.Insert("rating_events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create rating event", err)
	}

	return nil
}

// GetByID retrieves a rating event by id
func (a *RatingEventAdapter) GetByID(ctx context.Context, id string) (*entities.RatingEvent, error) {
	query, args, err := a.db.Select(
		"id", "review_request_id", "stars", "redirected", "created_at",
	).From("rating_events").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating query", err)
	}

	event := &entities.RatingEvent{}
	var requestID sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&event.ID,
		&requestID,
		&event.Stars,
		&event.Redirected,
		&event.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("rating event with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get rating event", err)
	}

	if requestID.Valid {
		event.ReviewRequestID = &requestID.String
	}

	return event, nil
}

// CountFiveStarByRequests counts redirected five-star events among the given
// request ids
func (a *RatingEventAdapter) CountFiveStarByRequests(ctx context.Context, requestIDs []string) (int64, error) {
	if len(requestIDs) == 0 {
		return 0, nil
	}

	query, args, err := a.db.From("rating_events").
		Select(goqu.COUNT("*")).
		Where(
			goqu.C("review_request_id").In(requestIDs),
			goqu.C("stars").Eq(5),
		).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build five-star count query", err)
	}

	var count int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewUnavailableError("failed to count five-star ratings", err)
	}

	return count, nil
}

// ListIDsByRequests returns ids of rating events referencing the given requests
func (a *RatingEventAdapter) ListIDsByRequests(ctx context.Context, requestIDs []string) ([]string, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	query, args, err := a.db.Select("id").
		From("rating_events").
		Where(goqu.C("review_request_id").In(requestIDs)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating id query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list rating ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("failed to read rating ids", err)
	}

	return ids, nil
}
