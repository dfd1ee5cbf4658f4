package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/reviewrelay/backend/internal/domain/providers"
)

// LogInviteSender logs invites instead of delivering them. Used when WhatsApp
// credentials are not configured.
type LogInviteSender struct{}

// NewLogInviteSender creates a log-only invite sender
func NewLogInviteSender() *LogInviteSender {
	return &LogInviteSender{}
}

// SendInvite logs the invite and returns a synthetic message id
func (s *LogInviteSender) SendInvite(_ context.Context, invite *providers.ReviewInvite) (string, error) {
	log.Info().
		Str("to", invite.ToPhone).
		Str("customer", invite.CustomerName).
		Str("rating_url", invite.RatingURL).
		Msg("review invite (log-only sender)")
	return "log-" + uuid.New().String(), nil
}
