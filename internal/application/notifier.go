package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/bnema/check-efy/internal/ports"
)

const DefaultSessionLink = "https://efy.byu.edu/efy_session/10091862"

func FormatMessage(a domain.Availability, link string) string {
	return fmt.Sprintf("%s spots available for session %s at EFY. Click here %s.", a.Seats, a.Session, link)
}

type Notifier struct {
	sender     ports.MessageSender
	from       domain.PhoneNumber
	recipients domain.RecipientList
	link       string
	log        logx.Logger
}

func NewNotifier(sender ports.MessageSender, from domain.PhoneNumber, recipients domain.RecipientList, link string, log logx.Logger) *Notifier {
	if link == "" {
		link = DefaultSessionLink
	}

	return &Notifier{
		sender:     sender,
		from:       from,
		recipients: recipients,
		link:       link,
		log:        log,
	}
}

// Notify sends the same message to every recipient in order. A failed
// delivery does not stop the remaining sends; all failures are returned
// joined. Cancellation stops the fan-out.
func (n *Notifier) Notify(ctx context.Context, a domain.Availability) error {
	body := FormatMessage(a, n.link)

	var errs []error
	for _, recipient := range n.recipients {
		if err := ctx.Err(); err != nil {
			return err
		}

		sid, err := n.sender.Send(ctx, n.from, recipient, body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			n.log.Error("Failed to send message", logx.String("recipient", string(recipient)), logx.Err(err))
			errs = append(errs, fmt.Errorf("notify %s: %w", recipient, err))
			continue
		}

		n.log.Info("Sent message "+sid, logx.String("recipient", string(recipient)))
	}

	return errors.Join(errs...)
}
