package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewrelay/backend/internal/application/services"
	"github.com/reviewrelay/backend/internal/domain/entities"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

func TestCustomerResolver_Resolve_RequiresPhone(t *testing.T) {
	resolver := services.NewCustomerResolver(&stubCustomerRepo{})

	_, err := resolver.Resolve(context.Background(), "biz-1", "Alex", "   ")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCustomerResolver_Resolve_RequiresBusiness(t *testing.T) {
	resolver := services.NewCustomerResolver(&stubCustomerRepo{})

	_, err := resolver.Resolve(context.Background(), "", "Alex", "+15550001")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCustomerResolver_Resolve_CreatesCustomer(t *testing.T) {
	var captured *entities.Customer
	repo := &stubCustomerRepo{
		upsertFn: func(ctx context.Context, customer *entities.Customer) (string, error) {
			captured = customer
			return customer.ID, nil
		},
	}
	resolver := services.NewCustomerResolver(repo)

	id, err := resolver.Resolve(context.Background(), "biz-1", "  Alex  ", " +15550001 ")

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "biz-1", captured.BusinessID)
	assert.Equal(t, "Alex", captured.Name)
	assert.Equal(t, "+15550001", captured.Phone)
}

func TestCustomerResolver_Resolve_ReturnsExistingID(t *testing.T) {
	repo := &stubCustomerRepo{
		upsertFn: func(ctx context.Context, customer *entities.Customer) (string, error) {
			return "existing-id", nil
		},
	}
	resolver := services.NewCustomerResolver(repo)

	id, err := resolver.Resolve(context.Background(), "biz-1", "Alex", "+15550001")

	assert.NoError(t, err)
	assert.Equal(t, "existing-id", id)
}

func TestCustomerResolver_Resolve_RetriesUnresolvedRace(t *testing.T) {
	attempts := 0
	ids := make(map[string]bool)
	repo := &stubCustomerRepo{
		upsertFn: func(ctx context.Context, customer *entities.Customer) (string, error) {
			attempts++
			ids[customer.ID] = true
			if attempts == 1 {
				return "", apperrors.NewConflictError("customer creation race could not be resolved")
			}
			return customer.ID, nil
		},
	}
	resolver := services.NewCustomerResolver(repo)

	id, err := resolver.Resolve(context.Background(), "biz-1", "Alex", "+15550001")

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 2, attempts)
	// The retry must not reuse the first attempt's id.
	assert.Len(t, ids, 2)
}

func TestCustomerResolver_Resolve_SurfacesPersistentConflict(t *testing.T) {
	repo := &stubCustomerRepo{
		upsertFn: func(ctx context.Context, customer *entities.Customer) (string, error) {
			return "", apperrors.NewConflictError("customer creation race could not be resolved")
		},
	}
	resolver := services.NewCustomerResolver(repo)

	_, err := resolver.Resolve(context.Background(), "biz-1", "Alex", "+15550001")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}
