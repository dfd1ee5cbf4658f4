package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/entities"
	"github.com/reviewrelay/backend/internal/domain/providers"
)

const (
	feedbackRateLimit  = 5
	feedbackRateWindow = time.Hour
)

// FeedbackCollector defines the feedback operations used by the handler.
type FeedbackCollector interface {
	Attach(ctx context.Context, ratingEventID, message, contact string) (string, error)
	Inbox(ctx context.Context, businessID string) ([]*entities.FeedbackItem, error)
}

// FeedbackHandler handles private feedback submission and the owner inbox.
// Submission is a public endpoint, so it is rate limited per client IP;
// duplicate submissions per rating event are rejected by the store.
type FeedbackHandler struct {
	collector  FeedbackCollector
	businesses BusinessDirectory
	cache      providers.CacheProvider
	local      *localRateLimiter
}

// NewFeedbackHandler creates a new feedback handler. cache may be nil, in
// which case rate limiting falls back to in-process state.
func NewFeedbackHandler(collector FeedbackCollector, businesses BusinessDirectory, cache providers.CacheProvider) *FeedbackHandler {
	return &FeedbackHandler{
		collector:  collector,
		businesses: businesses,
		cache:      cache,
		local:      newLocalRateLimiter(),
	}
}

type feedbackPayload struct {
	RatingEventID string `json:"rating_event_id"`
	Message       string `json:"message"`
	Contact       string `json:"contact"`
}

// SubmitFeedback handles POST /api/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var payload feedbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Message = strings.TrimSpace(payload.Message)
	payload.Contact = strings.TrimSpace(payload.Contact)

	if len(payload.Message) > 2000 {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return
	}
	if len(payload.Contact) > 200 {
		respondWithError(w, http.StatusBadRequest, "contact is too long")
		return
	}

	key := "feedback:rate:" + clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), key)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	feedbackID, err := h.collector.Attach(r.Context(), payload.RatingEventID, payload.Message, payload.Contact)
	if err != nil {
		respondWithAppError(w, err, "failed to submit feedback")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"ack":         true,
		"feedback_id": feedbackID,
	})
}

// ListFeedback handles GET /api/feedback
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	business, err := h.businesses.GetByOwner(r.Context(), ownerID)
	if err != nil {
		respondWithAppError(w, err, "failed to load business")
		return
	}

	items, err := h.collector.Inbox(r.Context(), business.ID)
	if err != nil {
		respondWithAppError(w, err, "failed to list feedback")
		return
	}
	if items == nil {
		items = []*entities.FeedbackItem{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": items,
	})
}

func (h *FeedbackHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, feedbackRateLimit, feedbackRateWindow)
	}

	state := rateLimitState{}
	if data, err := h.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= feedbackRateLimit {
		return false, feedbackRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.cache.Set(ctx, key, data, int(feedbackRateWindow.Seconds()))
	return true, feedbackRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
