package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/internal/domain/repositories"
)

const overviewCachePrefix = "analytics:overview:"

// AnalyticsConfig tunes the rollup computation.
type AnalyticsConfig struct {
	// VisitMultiplier estimates page visits from messages sent; direct
	// visit tracking is out of scope.
	VisitMultiplier int
	// CacheTTLSeconds bounds staleness of cached overviews.
	CacheTTLSeconds int
}

// AnalyticsService reconstructs rollup counters by walking the chain
// requests -> rating events -> feedback for one business. The walk is a
// snapshot read: each stage tolerates data changing underneath it and an
// empty stage yields zero downstream counts by rule, not by error.
type AnalyticsService struct {
	requests repositories.ReviewRequestRepository
	ratings  repositories.RatingEventRepository
	feedback repositories.FeedbackRepository
	cache    providers.CacheProvider
	cfg      AnalyticsConfig
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(
	requests repositories.ReviewRequestRepository,
	ratings repositories.RatingEventRepository,
	feedback repositories.FeedbackRepository,
	cache providers.CacheProvider,
	cfg AnalyticsConfig,
) *AnalyticsService {
	if cfg.VisitMultiplier <= 0 {
		cfg.VisitMultiplier = 2
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = 60
	}
	return &AnalyticsService{
		requests: requests,
		ratings:  ratings,
		feedback: feedback,
		cache:    cache,
		cfg:      cfg,
	}
}

// cachedOverview is the cache representation; only complete overviews are
// ever cached, so every field is a known value.
type cachedOverview struct {
	MessagesSent      int64 `json:"messages_sent"`
	PageVisits        int64 `json:"page_visits"`
	FiveStarRedirects int64 `json:"five_star_redirects"`
	FeedbackCount     int64 `json:"feedback_count"`
}

// Overview computes the rollup for a business. The messages_sent stage is
// essential and its failure fails the call; failures on the dependent stages
// degrade the result to partial, with the affected counters left unknown.
func (s *AnalyticsService) Overview(ctx context.Context, businessID string) (*entities.Overview, error) {
	if cached := s.fromCache(ctx, businessID); cached != nil {
		return cached, nil
	}

	sent, err := s.requests.CountByStatus(ctx, businessID, entities.RequestStatusSent)
	if err != nil {
		return nil, err
	}

	overview := &entities.Overview{
		MessagesSent:      entities.Observed(sent),
		PageVisits:        entities.Observed(sent * int64(s.cfg.VisitMultiplier)),
		FiveStarRedirects: entities.UnknownMetric(),
		FeedbackCount:     entities.UnknownMetric(),
	}

	requestIDs, err := s.requests.ListIDsByBusiness(ctx, businessID)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("overview degraded: request id stage failed")
		return overview, nil
	}
	if len(requestIDs) == 0 {
		// No requests means no rated requests and no feedback, by rule.
		overview.FiveStarRedirects = entities.Observed(0)
		overview.FeedbackCount = entities.Observed(0)
		s.toCache(ctx, businessID, overview)
		return overview, nil
	}

	fiveStar, err := s.ratings.CountFiveStarByRequests(ctx, requestIDs)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("overview degraded: five-star stage failed")
	} else {
		overview.FiveStarRedirects = entities.Observed(fiveStar)
	}

	ratingIDs, err := s.ratings.ListIDsByRequests(ctx, requestIDs)
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("overview degraded: rating id stage failed")
		return overview, nil
	}
	if len(ratingIDs) == 0 {
		overview.FeedbackCount = entities.Observed(0)
	} else {
		feedbackCount, err := s.feedback.CountByRatingEvents(ctx, ratingIDs)
		if err != nil {
			log.Warn().Err(err).Str("business_id", businessID).Msg("overview degraded: feedback stage failed")
		} else {
			overview.FeedbackCount = entities.Observed(feedbackCount)
		}
	}

	s.toCache(ctx, businessID, overview)
	return overview, nil
}

func (s *AnalyticsService) fromCache(ctx context.Context, businessID string) *entities.Overview {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, overviewCachePrefix+businessID)
	if err != nil {
		return nil
	}

	var cached cachedOverview
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}

	return &entities.Overview{
		MessagesSent:      entities.Observed(cached.MessagesSent),
		PageVisits:        entities.Observed(cached.PageVisits),
		FiveStarRedirects: entities.Observed(cached.FiveStarRedirects),
		FeedbackCount:     entities.Observed(cached.FeedbackCount),
	}
}

// toCache stores the overview, but never a partial one: a degraded result
// must not mask recovered dependencies for the TTL window.
func (s *AnalyticsService) toCache(ctx context.Context, businessID string, overview *entities.Overview) {
	if s.cache == nil || !overview.Complete() {
		return
	}

	data, err := json.Marshal(cachedOverview{
		MessagesSent:      overview.MessagesSent.Value,
		PageVisits:        overview.PageVisits.Value,
		FiveStarRedirects: overview.FiveStarRedirects.Value,
		FeedbackCount:     overview.FeedbackCount.Value,
	})
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, overviewCachePrefix+businessID, data, s.cfg.CacheTTLSeconds); err != nil {
		log.Debug().Err(err).Str("business_id", businessID).Msg("overview cache write failed")
	}
}
