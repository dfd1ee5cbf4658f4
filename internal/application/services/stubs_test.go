package services_test

import (
	"context"
	"sync"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/providers"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// Repository stubs shared by the service tests. Behavior is injected per test
// through function fields; unset lookups report not found.

type stubBusinessRepo struct {
	createFn     func(ctx context.Context, business *entities.Business) error
	getByIDFn    func(ctx context.Context, id string) (*entities.Business, error)
	getByOwnerFn func(ctx context.Context, ownerID string) (*entities.Business, error)
	updateFn     func(ctx context.Context, ownerID string, business *entities.Business) (bool, error)
}

func (s *stubBusinessRepo) Create(ctx context.Context, business *entities.Business) error {
	if s.createFn != nil {
		return s.createFn(ctx, business)
	}
	return nil
}

func (s *stubBusinessRepo) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("business not found")
}

func (s *stubBusinessRepo) GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	if s.getByOwnerFn != nil {
		return s.getByOwnerFn(ctx, ownerID)
	}
	return nil, apperrors.NewNotFoundError("business not found")
}

func (s *stubBusinessRepo) Update(ctx context.Context, ownerID string, business *entities.Business) (bool, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, ownerID, business)
	}
	return false, nil
}

type stubCustomerRepo struct {
	upsertFn  func(ctx context.Context, customer *entities.Customer) (string, error)
	getByIDFn func(ctx context.Context, id string) (*entities.Customer, error)
}

func (s *stubCustomerRepo) Upsert(ctx context.Context, customer *entities.Customer) (string, error) {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, customer)
	}
	return customer.ID, nil
}

func (s *stubCustomerRepo) GetByID(ctx context.Context, id string) (*entities.Customer, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("customer not found")
}

type stubRequestRepo struct {
	createFn         func(ctx context.Context, request *entities.ReviewRequest) error
	getByIDFn        func(ctx context.Context, id string) (*entities.ReviewRequest, error)
	updateStatusFn   func(ctx context.Context, id string, from, to entities.RequestStatus) (bool, error)
	listByBusinessFn func(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error)
	listIDsFn        func(ctx context.Context, businessID string) ([]string, error)
	countByStatusFn  func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error)
}

func (s *stubRequestRepo) Create(ctx context.Context, request *entities.ReviewRequest) error {
	if s.createFn != nil {
		return s.createFn(ctx, request)
	}
	return nil
}

func (s *stubRequestRepo) GetByID(ctx context.Context, id string) (*entities.ReviewRequest, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("review request not found")
}

func (s *stubRequestRepo) UpdateStatus(ctx context.Context, id string, from, to entities.RequestStatus) (bool, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, from, to)
	}
	return true, nil
}

func (s *stubRequestRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entities.RequestWithCustomer, error) {
	if s.listByBusinessFn != nil {
		return s.listByBusinessFn(ctx, businessID)
	}
	return nil, nil
}

func (s *stubRequestRepo) ListIDsByBusiness(ctx context.Context, businessID string) ([]string, error) {
	if s.listIDsFn != nil {
		return s.listIDsFn(ctx, businessID)
	}
	return nil, nil
}

func (s *stubRequestRepo) CountByStatus(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
	if s.countByStatusFn != nil {
		return s.countByStatusFn(ctx, businessID, status)
	}
	return 0, nil
}

type stubRatingRepo struct {
	createFn    func(ctx context.Context, event *entities.RatingEvent) error
	getByIDFn   func(ctx context.Context, id string) (*entities.RatingEvent, error)
	countFiveFn func(ctx context.Context, requestIDs []string) (int64, error)
	listIDsFn   func(ctx context.Context, requestIDs []string) ([]string, error)
}

func (s *stubRatingRepo) Create(ctx context.Context, event *entities.RatingEvent) error {
	if s.createFn != nil {
		return s.createFn(ctx, event)
	}
	return nil
}

func (s *stubRatingRepo) GetByID(ctx context.Context, id string) (*entities.RatingEvent, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("rating event not found")
}

func (s *stubRatingRepo) CountFiveStarByRequests(ctx context.Context, requestIDs []string) (int64, error) {
	if s.countFiveFn != nil {
		return s.countFiveFn(ctx, requestIDs)
	}
	return 0, nil
}

func (s *stubRatingRepo) ListIDsByRequests(ctx context.Context, requestIDs []string) ([]string, error) {
	if s.listIDsFn != nil {
		return s.listIDsFn(ctx, requestIDs)
	}
	return nil, nil
}

type stubFeedbackRepo struct {
	createFn func(ctx context.Context, feedback *entities.Feedback) error
	countFn  func(ctx context.Context, ratingEventIDs []string) (int64, error)
	listFn   func(ctx context.Context, ratingEventIDs []string) ([]*entities.FeedbackItem, error)
}

func (s *stubFeedbackRepo) Create(ctx context.Context, feedback *entities.Feedback) error {
	if s.createFn != nil {
		return s.createFn(ctx, feedback)
	}
	return nil
}

func (s *stubFeedbackRepo) CountByRatingEvents(ctx context.Context, ratingEventIDs []string) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, ratingEventIDs)
	}
	return 0, nil
}

func (s *stubFeedbackRepo) ListByRatingEvents(ctx context.Context, ratingEventIDs []string) ([]*entities.FeedbackItem, error) {
	if s.listFn != nil {
		return s.listFn(ctx, ratingEventIDs)
	}
	return nil, nil
}

type stubMessenger struct {
	sendFn func(ctx context.Context, invite *providers.ReviewInvite) (string, error)
}

func (s *stubMessenger) SendInvite(ctx context.Context, invite *providers.ReviewInvite) (string, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, invite)
	}
	return "msg-1", nil
}

// memoryCache is an in-process CacheProvider for cache behavior tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return data, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}
