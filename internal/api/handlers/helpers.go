package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the application error taxonomy onto HTTP statuses.
func respondWithAppError(w http.ResponseWriter, err error, fallback string) {
	message := fallback
	if appErr, ok := err.(*apperrors.AppError); ok && appErr.Message != "" {
		message = appErr.Message
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, message)
	case apperrors.ErrorTypeUnavailable:
		respondWithError(w, http.StatusServiceUnavailable, message)
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
