package notifications

import (
	"context"

	"github.com/reviewrelay/backend/internal/domain/providers"
	"github.com/reviewrelay/backend/internal/infrastructure/observability"
)

// InstrumentedSender wraps a message provider and records a metric per
// dispatch attempt.
type InstrumentedSender struct {
	inner   providers.MessageProvider
	metrics *observability.Metrics
}

// NewInstrumentedSender creates a new instrumented sender.
func NewInstrumentedSender(inner providers.MessageProvider, metrics *observability.Metrics) *InstrumentedSender {
	return &InstrumentedSender{inner: inner, metrics: metrics}
}

// SendInvite forwards to the wrapped provider and records the outcome.
func (s *InstrumentedSender) SendInvite(ctx context.Context, invite *providers.ReviewInvite) (string, error) {
	messageID, err := s.inner.SendInvite(ctx, invite)
	observability.RecordInviteSent(ctx, s.metrics, err == nil)
	return messageID, err
}
