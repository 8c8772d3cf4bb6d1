package ports

import (
	"context"

	"github.com/bnema/check-efy/internal/domain"
)

// MessageSender delivers one text message and returns the provider's message id.
type MessageSender interface {
	Send(ctx context.Context, from, to domain.PhoneNumber, body string) (string, error)
}
