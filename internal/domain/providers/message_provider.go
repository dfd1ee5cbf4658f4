package providers

import "context"

// ReviewInvite is one outbound review solicitation
type ReviewInvite struct {
	ToPhone      string
	CustomerName string
	BusinessName string
	RatingURL    string
}

// MessageProvider delivers review invites to customers. Delivery is
// best-effort fire-and-forget; the provider's failure never rolls back the
// request that triggered it.
type MessageProvider interface {
	// SendInvite sends the invite and returns the provider's message id.
	SendInvite(ctx context.Context, invite *ReviewInvite) (string, error)
}
