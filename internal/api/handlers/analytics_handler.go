package handlers

import (
	"context"
	"net/http"

	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/entities"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// AnalyticsProvider defines the rollup operations used by the handler.
type AnalyticsProvider interface {
	Overview(ctx context.Context, businessID string) (*entities.Overview, error)
}

// AnalyticsHandler handles the owner's analytics endpoints.
type AnalyticsHandler struct {
	analytics  AnalyticsProvider
	businesses BusinessDirectory
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analytics AnalyticsProvider, businesses BusinessDirectory) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, businesses: businesses}
}

type overviewResponse struct {
	MessagesSent      int64 `json:"messages_sent"`
	PageVisits        int64 `json:"page_visits"`
	FiveStarRedirects int64 `json:"five_star_redirects"`
	FeedbackCount     int64 `json:"feedback_count"`

	// Partial names counters that could not be computed this time; their
	// values above are zero placeholders, not observations.
	Partial []string `json:"partial,omitempty"`
}

// GetOverview handles GET /api/analytics/overview
func (h *AnalyticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	business, err := h.businesses.GetByOwner(r.Context(), ownerID)
	if err != nil {
		// An owner without a business simply has no activity yet.
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			respondWithJSON(w, http.StatusOK, overviewResponse{})
			return
		}
		respondWithAppError(w, err, "failed to load business")
		return
	}

	overview, err := h.analytics.Overview(r.Context(), business.ID)
	if err != nil {
		respondWithAppError(w, err, "failed to compute analytics overview")
		return
	}

	respondWithJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func toOverviewResponse(overview *entities.Overview) overviewResponse {
	resp := overviewResponse{
		MessagesSent:      overview.MessagesSent.Value,
		PageVisits:        overview.PageVisits.Value,
		FiveStarRedirects: overview.FiveStarRedirects.Value,
		FeedbackCount:     overview.FeedbackCount.Value,
	}

	if !overview.MessagesSent.Known {
		resp.Partial = append(resp.Partial, "messages_sent")
	}
	if !overview.PageVisits.Known {
		resp.Partial = append(resp.Partial, "page_visits")
	}
	if !overview.FiveStarRedirects.Known {
		resp.Partial = append(resp.Partial, "five_star_redirects")
	}
	if !overview.FeedbackCount.Known {
		resp.Partial = append(resp.Partial, "feedback_count")
	}

	return resp
}
