package cmd

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	configtoml "github.com/bnema/check-efy/internal/adapters/config/toml"
	availabilityrender "github.com/bnema/check-efy/internal/adapters/render/availability"
	chainstore "github.com/bnema/check-efy/internal/adapters/secrets/chain"
	"github.com/bnema/check-efy/internal/adapters/sms/twilio"
	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/ports"
)

const (
	accountIDSecretKey = "check-efy/twilio/account-id"
	authTokenSecretKey = "check-efy/twilio/auth-token"
)

type senderFactory func(accountID, authToken string, ratePerSecond float64) (ports.MessageSender, error)

type app struct {
	secretStore        ports.SecretStore
	defaultConfigPath  string
	httpClient         *http.Client
	newSender          senderFactory
	availabilityRender func([]domain.Availability, availabilityrender.RenderOptions) (string, error)
	clock              ports.Clock
	sleepStep          time.Duration
	randSource         func() rand.Source
	now                func() time.Time
}

func wireApp() (*app, error) {
	configPath, err := configtoml.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("wire config path: %w", err)
	}

	secretsDir, err := configtoml.DefaultSecretsDir()
	if err != nil {
		return nil, fmt.Errorf("wire secrets directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(secretsDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		secretStore:        secretStore,
		defaultConfigPath:  configPath,
		httpClient:         http.DefaultClient,
		newSender:          newTwilioSender,
		availabilityRender: availabilityrender.Render,
		clock:              ports.SystemClock{},
		randSource:         func() rand.Source { return rand.NewSource(time.Now().UnixNano()) },
		now:                time.Now,
	}, nil
}

func newTwilioSender(accountID, authToken string, ratePerSecond float64) (ports.MessageSender, error) {
	sender, err := twilio.NewSender(accountID, authToken, ratePerSecond)
	if err != nil {
		return nil, err
	}
	return sender, nil
}
