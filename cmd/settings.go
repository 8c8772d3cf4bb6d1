package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	configtoml "github.com/bnema/check-efy/internal/adapters/config/toml"
	"github.com/bnema/check-efy/internal/adapters/scrape"
	"github.com/bnema/check-efy/internal/adapters/sms/twilio"
	"github.com/bnema/check-efy/internal/application"
	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/bnema/check-efy/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix             = "CHECK_EFY"
	configFlag            = "config"
	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
)

var (
	errNoRecipients     = errors.New("at least one recipient is required")
	errNoSender         = errors.New("--sender is required")
	errMissingAccountID = errors.New("twilio account id not set: pass --account-id or run 'check-efy credentials set'")
	errMissingAuthToken = errors.New("twilio auth token not set: pass --auth-token or run 'check-efy credentials set'")
)

// watchSettings is the resolved configuration of the polling loop.
type watchSettings struct {
	Recipients     domain.RecipientList
	Sender         domain.PhoneNumber
	AccountID      string
	AuthToken      string
	Session        domain.SessionID
	URL            string
	SessionLink    string
	RequestTimeout time.Duration
	DelayMean      float64
	DelayStdDev    float64
	SendRate       float64
	Log            logx.Config
}

// validationError marks recipient and sender format problems, which are
// reported as "Value error: ..." without a failing exit status.
type validationError struct {
	err error
}

func (e validationError) Error() string { return e.err.Error() }
func (e validationError) Unwrap() error { return e.err }

func addSharedFlags(flags *pflag.FlagSet) {
	flags.String(configFlag, "", "Config file (default $XDG_CONFIG_HOME/check-efy/config.toml)")
	flags.String(configtoml.KeySession, string(domain.DefaultSessionID), "Session identifier to watch")
	flags.String(configtoml.KeyURL, scrape.DefaultURL, "Available-sessions page URL")
	flags.Duration(configtoml.KeyRequestTimeout, defaultRequestTimeout, "Timeout for one page fetch")
	flags.String(configtoml.KeyLogLevel, defaultLogLevel, "Console log level (debug, info, warn, error)")
}

func addWatchFlags(flags *pflag.FlagSet) {
	flags.String(configtoml.KeySender, "", "The text message sender number")
	flags.String(configtoml.KeyAccountID, "", "Twilio account id used to send text messages")
	flags.String(configtoml.KeyAuthToken, "", "Twilio auth token used to send text messages")
	flags.String(configtoml.KeySessionLink, application.DefaultSessionLink, "Registration link included in the message")
	flags.Float64(configtoml.KeyDelayMean, application.DefaultDelayMeanMinutes, "Mean delay between checks, in minutes")
	flags.Float64(configtoml.KeyDelayStdDev, application.DefaultDelayStdDevMinutes, "Standard deviation of the delay, in minutes")
	flags.Float64(configtoml.KeySendRate, twilio.DefaultRatePerSecond, "Maximum text messages sent per second")
	flags.BoolP(configtoml.KeyVerbose, "v", false, "Enable verbose logging to file")
	flags.String(configtoml.KeyLogFile, "", "Log file to write to. If not set, "+logx.DefaultFile+" is used")
}

// loadConfig layers flags over CHECK_EFY_* variables over the config file
// over flag defaults.
func loadConfig(ctx context.Context, cmd *cobra.Command, app *app) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	path := v.GetString(configFlag)
	explicit := path != ""
	if !explicit {
		path = app.defaultConfigPath
	}
	if path == "" {
		return v, nil
	}

	values, err := configtoml.NewFile(path).Load(ctx)
	if err != nil {
		if errors.Is(err, configtoml.ErrConfigNotFound) && !explicit {
			return v, nil
		}
		return nil, err
	}

	if err := v.MergeConfigMap(map[string]any(values)); err != nil {
		return nil, fmt.Errorf("merge config file: %w", err)
	}

	return v, nil
}

func resolveWatchSettings(ctx context.Context, v *viper.Viper, args []string, store ports.SecretStore) (watchSettings, error) {
	s := watchSettings{
		AccountID:      strings.TrimSpace(v.GetString(configtoml.KeyAccountID)),
		AuthToken:      strings.TrimSpace(v.GetString(configtoml.KeyAuthToken)),
		Session:        domain.SessionID(v.GetString(configtoml.KeySession)),
		URL:            v.GetString(configtoml.KeyURL),
		SessionLink:    v.GetString(configtoml.KeySessionLink),
		RequestTimeout: v.GetDuration(configtoml.KeyRequestTimeout),
		DelayMean:      v.GetFloat64(configtoml.KeyDelayMean),
		DelayStdDev:    v.GetFloat64(configtoml.KeyDelayStdDev),
		SendRate:       v.GetFloat64(configtoml.KeySendRate),
		Log:            logConfig(v),
	}

	if err := validateTuning(s.RequestTimeout, s.Log.Level); err != nil {
		return watchSettings{}, err
	}
	if !isFinite(s.DelayMean) {
		return watchSettings{}, fmt.Errorf("--%s must be a finite number", configtoml.KeyDelayMean)
	}
	if !isFinite(s.DelayStdDev) {
		return watchSettings{}, fmt.Errorf("--%s must be a finite number", configtoml.KeyDelayStdDev)
	}
	if s.DelayStdDev < 0 {
		return watchSettings{}, fmt.Errorf("--%s must not be negative", configtoml.KeyDelayStdDev)
	}
	if s.SendRate <= 0 {
		return watchSettings{}, fmt.Errorf("--%s must be positive", configtoml.KeySendRate)
	}

	rawRecipients := args
	if len(rawRecipients) == 0 {
		rawRecipients = v.GetStringSlice(configtoml.KeyRecipients)
	}
	if len(rawRecipients) == 0 {
		return watchSettings{}, errNoRecipients
	}

	rawSender := strings.TrimSpace(v.GetString(configtoml.KeySender))
	if rawSender == "" {
		return watchSettings{}, errNoSender
	}

	recipients, err := domain.ParseRecipients(rawRecipients)
	if err != nil {
		return watchSettings{}, validationError{err: err}
	}
	sender, err := domain.ParsePhoneNumber(rawSender)
	if err != nil {
		return watchSettings{}, validationError{err: err}
	}
	s.Recipients = recipients
	s.Sender = sender

	if s.AccountID == "" {
		if s.AccountID, err = lookupSecret(ctx, store, accountIDSecretKey); err != nil {
			return watchSettings{}, err
		}
	}
	if s.AuthToken == "" {
		if s.AuthToken, err = lookupSecret(ctx, store, authTokenSecretKey); err != nil {
			return watchSettings{}, err
		}
	}
	if s.AccountID == "" {
		return watchSettings{}, errMissingAccountID
	}
	if s.AuthToken == "" {
		return watchSettings{}, errMissingAuthToken
	}

	return s, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateTuning(requestTimeout time.Duration, level string) error {
	if requestTimeout <= 0 {
		return fmt.Errorf("--%s must be positive", configtoml.KeyRequestTimeout)
	}
	if !logx.ValidLevel(level) {
		return fmt.Errorf("unsupported log level %q", level)
	}
	return nil
}

func logConfig(v *viper.Viper) logx.Config {
	return logx.Config{
		Level:   v.GetString(configtoml.KeyLogLevel),
		Console: true,
		File: logx.FileConfig{
			Enabled: true,
			Path:    v.GetString(configtoml.KeyLogFile),
			Verbose: v.GetBool(configtoml.KeyVerbose),
		},
	}
}

// lookupSecret returns "" when the key is not stored in any backend.
func lookupSecret(ctx context.Context, store ports.SecretStore, key string) (string, error) {
	if store == nil {
		return "", nil
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ports.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load %s: %w", key, err)
	}

	return strings.TrimSpace(value), nil
}
