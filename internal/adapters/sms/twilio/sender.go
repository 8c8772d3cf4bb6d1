package twilio

import (
	"context"
	"errors"
	"fmt"

	twiliogo "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/ports"
)

const DefaultRatePerSecond = 1.0

var (
	ErrMissingCredentials = errors.New("twilio account id and auth token are required")
	errMissingSID         = errors.New("response missing message sid")
)

// messageAPI is the part of the Twilio REST API used to send messages.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Sender struct {
	api     messageAPI
	limiter *rate.Limiter
}

var _ ports.MessageSender = (*Sender)(nil)

func NewSender(accountID, authToken string, ratePerSecond float64) (*Sender, error) {
	if accountID == "" || authToken == "" {
		return nil, ErrMissingCredentials
	}

	client := twiliogo.NewRestClientWithParams(twiliogo.ClientParams{
		Username: accountID,
		Password: authToken,
	})

	return newSender(client.Api, ratePerSecond), nil
}

func newSender(api messageAPI, ratePerSecond float64) *Sender {
	if ratePerSecond <= 0 {
		ratePerSecond = DefaultRatePerSecond
	}

	return &Sender{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

// Send waits for the send limiter, then creates the message. The Twilio call
// itself does not observe ctx.
func (s *Sender) Send(ctx context.Context, from, to domain.PhoneNumber, body string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for send slot: %w", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(string(from))
	params.SetTo(string(to))
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("create message to %s: %w", to, err)
	}
	if msg == nil || msg.Sid == nil || *msg.Sid == "" {
		return "", fmt.Errorf("create message to %s: %w", to, errMissingSID)
	}

	return *msg.Sid, nil
}
