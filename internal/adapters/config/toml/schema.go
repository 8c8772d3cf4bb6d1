package toml

import (
	"fmt"
	"time"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int          `toml:"version"`
	Sender     string       `toml:"sender,omitempty"`
	AccountID  string       `toml:"account_id,omitempty"`
	AuthToken  string       `toml:"auth_token,omitempty"`
	Recipients []string     `toml:"recipients"`
	Watch      watchSchema  `toml:"watch"`
	Delay      delaySchema  `toml:"delay"`
	Notify     notifySchema `toml:"notify"`
	Log        logSchema    `toml:"log"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type watchSchema struct {
	Session        string `toml:"session,omitempty"`
	URL            string `toml:"url,omitempty"`
	SessionLink    string `toml:"session_link,omitempty"`
	RequestTimeout string `toml:"request_timeout,omitempty"`
}

type delaySchema struct {
	MeanMinutes   *float64 `toml:"mean_minutes,omitempty"`
	StdDevMinutes *float64 `toml:"stddev_minutes,omitempty"`
}

type notifySchema struct {
	RatePerSecond *float64 `toml:"rate_per_second,omitempty"`
}

type logSchema struct {
	File    string `toml:"file,omitempty"`
	Level   string `toml:"level,omitempty"`
	Verbose *bool  `toml:"verbose,omitempty"`
}

// values flattens the keys present in the file onto CLI flag names.
func (s fileSchema) values() (Values, error) {
	out := Values{}

	putString := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}

	putString(KeySender, s.Sender)
	putString(KeyAccountID, s.AccountID)
	putString(KeyAuthToken, s.AuthToken)
	if len(s.Recipients) > 0 {
		out[KeyRecipients] = append([]string(nil), s.Recipients...)
	}

	putString(KeySession, s.Watch.Session)
	putString(KeyURL, s.Watch.URL)
	putString(KeySessionLink, s.Watch.SessionLink)
	if s.Watch.RequestTimeout != "" {
		timeout, err := time.ParseDuration(s.Watch.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse watch.request_timeout: %w", err)
		}
		out[KeyRequestTimeout] = timeout
	}

	if s.Delay.MeanMinutes != nil {
		out[KeyDelayMean] = *s.Delay.MeanMinutes
	}
	if s.Delay.StdDevMinutes != nil {
		out[KeyDelayStdDev] = *s.Delay.StdDevMinutes
	}
	if s.Notify.RatePerSecond != nil {
		out[KeySendRate] = *s.Notify.RatePerSecond
	}

	putString(KeyLogFile, s.Log.File)
	putString(KeyLogLevel, s.Log.Level)
	if s.Log.Verbose != nil {
		out[KeyVerbose] = *s.Log.Verbose
	}

	return out, nil
}

func templateSchema(t Template) fileSchema {
	mean := t.DelayMeanMinutes
	stdDev := t.DelayStdDevMinutes
	rate := t.SendRate
	verbose := false

	return fileSchema{
		Version:    currentSchemaVersion,
		Sender:     t.Sender,
		Recipients: []string{},
		Watch: watchSchema{
			Session:        t.Session,
			URL:            t.URL,
			SessionLink:    t.SessionLink,
			RequestTimeout: t.RequestTimeout.String(),
		},
		Delay:  delaySchema{MeanMinutes: &mean, StdDevMinutes: &stdDev},
		Notify: notifySchema{RatePerSecond: &rate},
		Log:    logSchema{File: t.LogFile, Level: t.LogLevel, Verbose: &verbose},
	}
}
