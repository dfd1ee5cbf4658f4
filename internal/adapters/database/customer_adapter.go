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

// CustomerAdapter implements the CustomerRepository interface
type CustomerAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCustomerAdapter creates a new customer adapter
func NewCustomerAdapter(client *postgres.Client) repositories.CustomerRepository {
	return &CustomerAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts the customer, deferring to the unique (business_id, phone)
// constraint: a conflicting insert is a no-op and the existing row's id is
// fetched instead. Two concurrent calls for an unseen phone therefore settle
// on a single row without a read-then-write race.
func (a *CustomerAdapter) Upsert(ctx context.Context, customer *entities.Customer) (string, error) {
	record := goqu.Record{
		"id":          customer.ID,
		"business_id": customer.BusinessID,
		"name":        customer.Name,
		"phone":       customer.Phone,
		"created_at":  customer.CreatedAt,
	}

	query, args, err := a.db.Insert("customers").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		Returning("id").
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build customer upsert query", err)
	}

	var id string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", apperrors.NewUnavailableError("failed to upsert customer", err)
	}

	// The insert lost to an existing row; read the winner.
	query, args, err = a.db.Select("id").
		From("customers").
		Where(goqu.Ex{"business_id": customer.BusinessID, "phone": customer.Phone}).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build customer lookup query", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return "", apperrors.NewConflictError("customer creation race could not be resolved")
	}
	if err != nil {
		return "", apperrors.NewUnavailableError("failed to look up customer", err)
	}

	return id, nil
}

// GetByID retrieves a customer by id
func (a *CustomerAdapter) GetByID(ctx context.Context, id string) (*entities.Customer, error) {
	query, args, err := a.db.Select(
		"id", "business_id", "name", "phone", "created_at",
	).From("customers").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build customer query", err)
	}

	customer := &entities.Customer{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.BusinessID,
		&customer.Name,
		&customer.Phone,
		&customer.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get customer", err)
	}

	return customer, nil
}
