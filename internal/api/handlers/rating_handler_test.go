package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewrelay/backend/internal/api/handlers"
	"github.com/reviewrelay/backend/internal/application/services"
	"github.com/reviewrelay/backend/internal/domain/entities"
	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

type stubRatingService struct {
	pageFn   func(ctx context.Context, businessID string) (*services.RatingPage, error)
	submitFn func(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error)
}

func (s *stubRatingService) Page(ctx context.Context, businessID string) (*services.RatingPage, error) {
	return s.pageFn(ctx, businessID)
}

func (s *stubRatingService) Submit(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error) {
	return s.submitFn(ctx, businessID, stars, requestID)
}

func ratingRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/rate/biz-1", strings.NewReader(body))
	req.SetPathValue("businessId", "biz-1")
	return req
}

func TestRatingHandler_GetRatingPage(t *testing.T) {
	service := &stubRatingService{
		pageFn: func(ctx context.Context, businessID string) (*services.RatingPage, error) {
			assert.Equal(t, "biz-1", businessID)
			return &services.RatingPage{BusinessName: "Corner Cafe", ReviewURLSet: true}, nil
		},
	}
	handler := handlers.NewRatingHandler(service, nil)

	w := httptest.NewRecorder()
	handler.GetRatingPage(w, ratingRequest("GET", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var response services.RatingPage
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Corner Cafe", response.BusinessName)
	assert.True(t, response.ReviewURLSet)
}

func TestRatingHandler_GetRatingPage_NotFound(t *testing.T) {
	service := &stubRatingService{
		pageFn: func(ctx context.Context, businessID string) (*services.RatingPage, error) {
			return nil, apperrors.NewNotFoundError("business not found")
		},
	}
	handler := handlers.NewRatingHandler(service, nil)

	w := httptest.NewRecorder()
	handler.GetRatingPage(w, ratingRequest("GET", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRatingHandler_SubmitRating_Redirect(t *testing.T) {
	service := &stubRatingService{
		submitFn: func(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error) {
			assert.Equal(t, 5, stars)
			assert.Nil(t, requestID)
			return &entities.Decision{Kind: entities.DecisionRedirect, RedirectURL: "https://g.example.com/review"}, nil
		},
	}
	handler := handlers.NewRatingHandler(service, nil)

	w := httptest.NewRecorder()
	handler.SubmitRating(w, ratingRequest("POST", `{"stars":5}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, true, response["redirect"])
	assert.Equal(t, "https://g.example.com/review", response["url"])
}

func TestRatingHandler_SubmitRating_FeedbackPath(t *testing.T) {
	service := &stubRatingService{
		submitFn: func(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error) {
			if assert.NotNil(t, requestID) {
				assert.Equal(t, "req-1", *requestID)
			}
			return &entities.Decision{Kind: entities.DecisionFeedbackAllowed, RatingEventID: "rating-1"}, nil
		},
	}
	handler := handlers.NewRatingHandler(service, nil)

	w := httptest.NewRecorder()
	handler.SubmitRating(w, ratingRequest("POST", `{"stars":2,"request_id":"req-1"}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, false, response["redirect"])
	assert.Equal(t, true, response["feedback_form"])
	assert.Equal(t, "rating-1", response["rating_event_id"])
}

func TestRatingHandler_SubmitRating_InvalidPayload(t *testing.T) {
	handler := handlers.NewRatingHandler(&stubRatingService{}, nil)

	w := httptest.NewRecorder()
	handler.SubmitRating(w, ratingRequest("POST", `{bad json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRatingHandler_SubmitRating_ValidationError(t *testing.T) {
	service := &stubRatingService{
		submitFn: func(ctx context.Context, businessID string, stars int, requestID *string) (*entities.Decision, error) {
			return nil, apperrors.NewValidationError("stars must be between 1 and 5")
		},
	}
	handler := handlers.NewRatingHandler(service, nil)

	w := httptest.NewRecorder()
	handler.SubmitRating(w, ratingRequest("POST", `{"stars":9}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
