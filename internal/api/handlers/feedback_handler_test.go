package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewrelay/backend/internal/api/handlers"
	"github.com/reviewrelay/backend/internal/api/middleware"
	"github.com/reviewrelay/backend/internal/domain/entities"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

type stubFeedbackCollector struct {
	attachFn func(ctx context.Context, ratingEventID, message, contact string) (string, error)
	inboxFn  func(ctx context.Context, businessID string) ([]*entities.FeedbackItem, error)
}

func (s *stubFeedbackCollector) Attach(ctx context.Context, ratingEventID, message, contact string) (string, error) {
	if s.attachFn != nil {
		return s.attachFn(ctx, ratingEventID, message, contact)
	}
	return "fb-1", nil
}

func (s *stubFeedbackCollector) Inbox(ctx context.Context, businessID string) ([]*entities.FeedbackItem, error) {
	if s.inboxFn != nil {
		return s.inboxFn(ctx, businessID)
	}
	return nil, nil
}

type stubBusinessDirectory struct {
	getByOwnerFn func(ctx context.Context, ownerID string) (*entities.Business, error)
}

func (s *stubBusinessDirectory) GetByOwner(ctx context.Context, ownerID string) (*entities.Business, error) {
	if s.getByOwnerFn != nil {
		return s.getByOwnerFn(ctx, ownerID)
	}
	return &entities.Business{ID: "biz-1", OwnerID: ownerID, Name: "Corner Cafe"}, nil
}

func TestFeedbackHandler_SubmitFeedback_Success(t *testing.T) {
	collector := &stubFeedbackCollector{
		attachFn: func(ctx context.Context, ratingEventID, message, contact string) (string, error) {
			assert.Equal(t, "rating-1", ratingEventID)
			assert.Equal(t, "too slow", message)
			return "fb-1", nil
		},
	}
	handler := handlers.NewFeedbackHandler(collector, &stubBusinessDirectory{}, nil)

	body := `{"rating_event_id":"rating-1","message":"too slow","contact":"alex@example.com"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, true, response["ack"])
	assert.Equal(t, "fb-1", response["feedback_id"])
}

func TestFeedbackHandler_SubmitFeedback_Duplicate(t *testing.T) {
	collector := &stubFeedbackCollector{
		attachFn: func(ctx context.Context, ratingEventID, message, contact string) (string, error) {
			return "", apperrors.NewConflictError("feedback already exists for this rating event")
		},
	}
	handler := handlers.NewFeedbackHandler(collector, &stubBusinessDirectory{}, nil)

	body := `{"rating_event_id":"rating-1","message":"too slow"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFeedbackHandler_SubmitFeedback_RateLimit(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&stubFeedbackCollector{}, &stubBusinessDirectory{}, nil)

	for i := 0; i < 5; i++ {
		body := `{"rating_event_id":"rating-` + strconv.Itoa(i) + `","message":"ok"}`
		req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.SubmitFeedback(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	body := `{"rating_event_id":"rating-x","message":"ok"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestFeedbackHandler_SubmitFeedback_MessageTooLong(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&stubFeedbackCollector{}, &stubBusinessDirectory{}, nil)

	body := `{"rating_event_id":"rating-1","message":"` + strings.Repeat("a", 2001) + `"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandler_ListFeedback_RequiresAuth(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&stubFeedbackCollector{}, &stubBusinessDirectory{}, nil)

	req := httptest.NewRequest("GET", "/api/feedback", nil)
	w := httptest.NewRecorder()

	handler.ListFeedback(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedbackHandler_ListFeedback_ReturnsInbox(t *testing.T) {
	collector := &stubFeedbackCollector{
		inboxFn: func(ctx context.Context, businessID string) ([]*entities.FeedbackItem, error) {
			assert.Equal(t, "biz-1", businessID)
			return []*entities.FeedbackItem{
				{ID: "fb-1", Message: "too slow", Stars: 2},
			}, nil
		},
	}
	handler := handlers.NewFeedbackHandler(collector, &stubBusinessDirectory{}, nil)

	req := httptest.NewRequest("GET", "/api/feedback", nil)
	req = req.WithContext(middleware.WithOwner(req.Context(), "owner-1"))
	w := httptest.NewRecorder()

	handler.ListFeedback(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Feedback []*entities.FeedbackItem `json:"feedback"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Feedback, 1)
}

func TestFeedbackHandler_ListFeedback_EmptyInboxIsList(t *testing.T) {
	handler := handlers.NewFeedbackHandler(&stubFeedbackCollector{}, &stubBusinessDirectory{}, nil)

	req := httptest.NewRequest("GET", "/api/feedback", nil)
	req = req.WithContext(middleware.WithOwner(req.Context(), "owner-1"))
	w := httptest.NewRecorder()

	handler.ListFeedback(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"feedback":[]`)
}
