package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/repositories"
	"github.com/reviewrelay/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// FeedbackAdapter implements feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback record. The unique index on rating_event_id makes
// the first submission win; later ones surface as a conflict.
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback) error {
	record := goqu.Record{
		"id":              feedback.ID,
		"rating_event_id": feedback.RatingEventID,
		"message":         feedback.Message,
		"contact":         sql.NullString{String: feedback.Contact, Valid: feedback.Contact != ""},
		"created_at":      feedback.CreatedAt,
	}

	query, args, err := a.db.Insert("feedback").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("feedback already exists for this rating event")
		}
		return apperrors.NewUnavailableError("failed to create feedback", err)
	}

	return nil
}

// CountByRatingEvents counts feedback rows referencing the given rating events
func (a *FeedbackAdapter) CountByRatingEvents(ctx context.Context, ratingEventIDs []string) (int64, error) {
	if len(ratingEventIDs) == 0 {
		return 0, nil
	}

	query, args, err := a.db.From("feedback").
		Select(goqu.COUNT("*")).
		Where(goqu.C("rating_event_id").In(ratingEventIDs)).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build feedback count query", err)
	}

	var count int64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewUnavailableError("failed to count feedback", err)
	}

	return count, nil
}

// ListByRatingEvents returns inbox rows (feedback plus the gating stars),
// newest first
func (a *FeedbackAdapter) ListByRatingEvents(ctx context.Context, ratingEventIDs []string) ([]*entities.FeedbackItem, error) {
	if len(ratingEventIDs) == 0 {
		return nil, nil
	}

	query, args, err := a.db.Select(
		goqu.I("feedback.id"),
		goqu.I("feedback.message"),
		goqu.I("feedback.contact"),
		goqu.I("rating_events.stars"),
		goqu.I("feedback.created_at"),
	).From("feedback").
		Join(goqu.T("rating_events"), goqu.On(goqu.I("feedback.rating_event_id").Eq(goqu.I("rating_events.id")))).
		Where(goqu.I("feedback.rating_event_id").In(ratingEventIDs)).
		Order(goqu.I("feedback.created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list feedback", err)
	}
	defer rows.Close()

	var items []*entities.FeedbackItem
	for rows.Next() {
		item := &entities.FeedbackItem{}
		var contact sql.NullString
		if err := rows.Scan(&item.ID, &item.Message, &contact, &item.Stars, &item.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}
		item.Contact = contact.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("failed to read feedback", err)
	}

	return items, nil
}
