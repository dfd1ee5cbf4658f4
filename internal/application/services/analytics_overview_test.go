package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewrelay/backend/internal/application/services"
	"github.com/reviewrelay/backend/internal/domain/entities"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

func analyticsConfig() services.AnalyticsConfig {
	return services.AnalyticsConfig{VisitMultiplier: 2, CacheTTLSeconds: 60}
}

func TestAnalyticsService_Overview_EmptyBusiness(t *testing.T) {
	svc := services.NewAnalyticsService(&stubRequestRepo{}, &stubRatingRepo{}, &stubFeedbackRepo{}, nil, analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.True(t, overview.Complete())
	assert.Equal(t, entities.Observed(0), overview.MessagesSent)
	assert.Equal(t, entities.Observed(0), overview.PageVisits)
	assert.Equal(t, entities.Observed(0), overview.FiveStarRedirects)
	assert.Equal(t, entities.Observed(0), overview.FeedbackCount)
}

func TestAnalyticsService_Overview_CountsChain(t *testing.T) {
	// Two requests: one customer rated five stars and was redirected, the
	// other rated two stars and left feedback.
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			assert.Equal(t, entities.RequestStatusSent, status)
			return 2, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return []string{"req-1", "req-2"}, nil
		},
	}
	ratings := &stubRatingRepo{
		countFiveFn: func(ctx context.Context, requestIDs []string) (int64, error) {
			return 1, nil
		},
		listIDsFn: func(ctx context.Context, requestIDs []string) ([]string, error) {
			return []string{"rating-1", "rating-2"}, nil
		},
	}
	feedback := &stubFeedbackRepo{
		countFn: func(ctx context.Context, ratingEventIDs []string) (int64, error) {
			return 1, nil
		},
	}

	svc := services.NewAnalyticsService(requests, ratings, feedback, nil, analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.True(t, overview.Complete())
	assert.Equal(t, int64(2), overview.MessagesSent.Value)
	assert.Equal(t, int64(4), overview.PageVisits.Value)
	assert.Equal(t, int64(1), overview.FiveStarRedirects.Value)
	assert.Equal(t, int64(1), overview.FeedbackCount.Value)
}

func TestAnalyticsService_Overview_RepeatRatingsForOneRequest(t *testing.T) {
	// One request rated twice: a five-star redirect and a later two-star
	// rating with feedback. Both events count; nothing is collapsed or
	// double-counted.
	events := []*entities.RatingEvent{
		{ID: "rating-1", Stars: 5, Redirected: true},
		{ID: "rating-2", Stars: 2},
	}

	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			return 1, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return []string{"req-1"}, nil
		},
	}
	ratings := &stubRatingRepo{
		countFiveFn: func(ctx context.Context, requestIDs []string) (int64, error) {
			var n int64
			for _, event := range events {
				if event.Stars == 5 {
					n++
				}
			}
			return n, nil
		},
		listIDsFn: func(ctx context.Context, requestIDs []string) ([]string, error) {
			ids := make([]string, 0, len(events))
			for _, event := range events {
				ids = append(ids, event.ID)
			}
			return ids, nil
		},
	}
	feedback := &stubFeedbackRepo{
		countFn: func(ctx context.Context, ratingEventIDs []string) (int64, error) {
			assert.Equal(t, []string{"rating-1", "rating-2"}, ratingEventIDs)
			return 1, nil
		},
	}

	svc := services.NewAnalyticsService(requests, ratings, feedback, nil, analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.True(t, overview.Complete())
	assert.Equal(t, int64(1), overview.MessagesSent.Value)
	assert.Equal(t, int64(2), overview.PageVisits.Value)
	assert.Equal(t, int64(1), overview.FiveStarRedirects.Value)
	assert.Equal(t, int64(1), overview.FeedbackCount.Value)
}

func TestAnalyticsService_Overview_EssentialStageFails(t *testing.T) {
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			return 0, apperrors.NewUnavailableError("database unavailable", errors.New("conn refused"))
		},
	}
	svc := services.NewAnalyticsService(requests, &stubRatingRepo{}, &stubFeedbackRepo{}, nil, analyticsConfig())

	_, err := svc.Overview(context.Background(), "biz-1")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestAnalyticsService_Overview_DegradesToPartial(t *testing.T) {
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			return 3, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return []string{"req-1"}, nil
		},
	}
	ratings := &stubRatingRepo{
		countFiveFn: func(ctx context.Context, requestIDs []string) (int64, error) {
			return 0, apperrors.NewUnavailableError("database unavailable", errors.New("timeout"))
		},
		listIDsFn: func(ctx context.Context, requestIDs []string) ([]string, error) {
			return []string{"rating-1"}, nil
		},
	}
	feedback := &stubFeedbackRepo{
		countFn: func(ctx context.Context, ratingEventIDs []string) (int64, error) {
			return 1, nil
		},
	}

	svc := services.NewAnalyticsService(requests, ratings, feedback, nil, analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.False(t, overview.Complete())
	assert.True(t, overview.MessagesSent.Known)
	assert.True(t, overview.PageVisits.Known)
	assert.False(t, overview.FiveStarRedirects.Known)
	assert.True(t, overview.FeedbackCount.Known)
	assert.Equal(t, int64(1), overview.FeedbackCount.Value)
}

func TestAnalyticsService_Overview_RequestStageFailureLeavesDownstreamUnknown(t *testing.T) {
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			return 3, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return nil, apperrors.NewUnavailableError("database unavailable", errors.New("timeout"))
		},
	}

	svc := services.NewAnalyticsService(requests, &stubRatingRepo{}, &stubFeedbackRepo{}, nil, analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.True(t, overview.MessagesSent.Known)
	assert.False(t, overview.FiveStarRedirects.Known)
	assert.False(t, overview.FeedbackCount.Known)
}

func TestAnalyticsService_Overview_ServesFromCache(t *testing.T) {
	calls := 0
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			calls++
			return 2, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return nil, nil
		},
	}

	svc := services.NewAnalyticsService(requests, &stubRatingRepo{}, &stubFeedbackRepo{}, newMemoryCache(), analyticsConfig())

	first, err := svc.Overview(context.Background(), "biz-1")
	assert.NoError(t, err)

	second, err := svc.Overview(context.Background(), "biz-1")
	assert.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.MessagesSent, second.MessagesSent)
	assert.Equal(t, first.PageVisits, second.PageVisits)
}

func TestAnalyticsService_Overview_NeverCachesPartialResults(t *testing.T) {
	calls := 0
	requests := &stubRequestRepo{
		countByStatusFn: func(ctx context.Context, businessID string, status entities.RequestStatus) (int64, error) {
			calls++
			return 2, nil
		},
		listIDsFn: func(ctx context.Context, businessID string) ([]string, error) {
			return nil, apperrors.NewUnavailableError("database unavailable", errors.New("timeout"))
		},
	}

	svc := services.NewAnalyticsService(requests, &stubRatingRepo{}, &stubFeedbackRepo{}, newMemoryCache(), analyticsConfig())

	overview, err := svc.Overview(context.Background(), "biz-1")
	assert.NoError(t, err)
	assert.False(t, overview.Complete())

	_, err = svc.Overview(context.Background(), "biz-1")
	assert.NoError(t, err)

	// Both calls hit the store; the degraded result was not cached.
	assert.Equal(t, 2, calls)
}
