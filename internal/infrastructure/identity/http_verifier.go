package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// HTTPVerifier verifies bearer tokens against the external identity service's
// verify endpoint.
type HTTPVerifier struct {
	verifyURL  string
	httpClient *http.Client
}

// NewHTTPVerifier creates a new HTTP token verifier
func NewHTTPVerifier(verifyURL string) (*HTTPVerifier, error) {
	if verifyURL == "" {
		return nil, fmt.Errorf("identity verify URL must be set")
	}
	return &HTTPVerifier{
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
}

// Verify returns the owner id the token belongs to
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL, nil)
	if err != nil {
		return "", apperrors.NewInternalError("failed to build verify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewUnavailableError("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", apperrors.NewUnauthorizedError("token rejected")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrors.NewUnavailableError(
			fmt.Sprintf("identity provider error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.NewInternalError("failed to decode verify response", err)
	}
	if payload.UserID == "" {
		return "", apperrors.NewUnauthorizedError("verify response carried no user id")
	}

	return payload.UserID, nil
}
