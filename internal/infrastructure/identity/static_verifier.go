package identity

import (
	"context"
	"strings"

	apperrors "github.com/reviewrelay/backend/pkg/errors"
)

// StaticVerifier accepts tokens of the form "owner:<id>". Development only.
type StaticVerifier struct{}

// NewStaticVerifier creates a static development verifier
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{}
}

// Verify extracts the owner id from the token
func (v *StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	ownerID, ok := strings.CutPrefix(token, "owner:")
	if !ok || ownerID == "" {
		return "", apperrors.NewUnauthorizedError("token rejected")
	}
	return ownerID, nil
}
