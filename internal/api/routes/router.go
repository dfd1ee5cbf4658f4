package routes

import (
	"net/http"

	"github.com/reviewrelay/backend/internal/api/handlers"
	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	businessHandler  *handlers.BusinessHandler
	requestHandler   *handlers.RequestHandler
	ratingHandler    *handlers.RatingHandler
	feedbackHandler  *handlers.FeedbackHandler
	analyticsHandler *handlers.AnalyticsHandler

	deliveryWebhookHandler *handlers.DeliveryWebhookHandler

	verifier providers.IdentityProvider
	metrics  *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	businessHandler *handlers.BusinessHandler,
	requestHandler *handlers.RequestHandler,
	ratingHandler *handlers.RatingHandler,
	feedbackHandler *handlers.FeedbackHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	deliveryWebhookHandler *handlers.DeliveryWebhookHandler,
	verifier providers.IdentityProvider,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		businessHandler:  businessHandler,
		requestHandler:   requestHandler,
		ratingHandler:    ratingHandler,
		feedbackHandler:  feedbackHandler,
		analyticsHandler: analyticsHandler,

		deliveryWebhookHandler: deliveryWebhookHandler,

		verifier: verifier,
		metrics:  metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	protect := middleware.AuthMiddleware(r.verifier)
	protected := func(h http.HandlerFunc) http.Handler {
		return protect(h)
	}

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Business profile endpoints (owner-scoped)
	r.mux.Handle("POST /api/business", protected(r.businessHandler.CreateBusiness))
	r.mux.Handle("GET /api/business", protected(r.businessHandler.GetBusiness))
	r.mux.Handle("PUT /api/business", protected(r.businessHandler.UpdateBusiness))

	// Review request endpoints (owner-scoped)
	r.mux.Handle("POST /api/requests", protected(r.requestHandler.CreateRequest))
	r.mux.Handle("GET /api/requests", protected(r.requestHandler.ListRequests))

	// Public rating page endpoints
	r.mux.HandleFunc("GET /api/rate/{businessId}", r.ratingHandler.GetRatingPage)
	r.mux.HandleFunc("POST /api/rate/{businessId}", r.ratingHandler.SubmitRating)

	// Feedback endpoints; submission is public, the inbox is owner-scoped
	r.mux.HandleFunc("POST /api/feedback", r.feedbackHandler.SubmitFeedback)
	r.mux.Handle("GET /api/feedback", protected(r.feedbackHandler.ListFeedback))

	// Analytics endpoints (owner-scoped)
	r.mux.Handle("GET /api/analytics/overview", protected(r.analyticsHandler.GetOverview))

	// Delivery status webhook from the messaging provider
	if r.deliveryWebhookHandler != nil {
		r.mux.HandleFunc("POST /webhooks/delivery", r.deliveryWebhookHandler.HandleDeliveryEvent)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so even preflight and error responses carry the
	// headers.
	handler = middleware.CORSMiddleware(handler)

	return handler
}
