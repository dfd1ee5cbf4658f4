package providers

import "context"

// IdentityProvider verifies already-issued credentials with the external
// identity service. The core never inspects tokens itself.
type IdentityProvider interface {
	// Verify returns the owner id the token belongs to.
	Verify(ctx context.Context, token string) (string, error)
}
