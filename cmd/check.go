package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	configtoml "github.com/bnema/check-efy/internal/adapters/config/toml"
	availabilityrender "github.com/bnema/check-efy/internal/adapters/render/availability"
	"github.com/bnema/check-efy/internal/adapters/scrape"
	"github.com/bnema/check-efy/internal/application"
	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/spf13/cobra"
)

// checkLogLevel keeps the one-shot report free of per-request chatter unless
// --log-level asks for it.
const checkLogLevel = "warn"

func newCheckCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the watched session once and print its availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runCheck(cmd *cobra.Command, app *app, asJSON bool) error {
	v, err := loadConfig(cmd.Context(), cmd, app)
	if err != nil {
		return err
	}

	requestTimeout := v.GetDuration(configtoml.KeyRequestTimeout)
	level := checkLogLevel
	if cmd.Flags().Changed(configtoml.KeyLogLevel) {
		level = v.GetString(configtoml.KeyLogLevel)
	}
	if err := validateTuning(requestTimeout, level); err != nil {
		return err
	}

	logs, log := logx.New(logx.Config{Level: level, Console: true}, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	defer func() { _ = logs.Close() }()

	checker := scrape.Checker{
		URL:            v.GetString(configtoml.KeyURL),
		HTTPClient:     app.httpClient,
		RequestTimeout: requestTimeout,
		Log:            log.Named("checker"),
	}
	watcher := application.NewWatcher(checker, nil, nil, app.clock, log.Named("watcher"), application.WatcherConfig{
		Session: domain.SessionID(v.GetString(configtoml.KeySession)),
	})

	var result domain.Availability
	poll := func(ctx context.Context) error {
		var pollErr error
		result, pollErr = watcher.Poll(ctx)
		return pollErr
	}

	if asJSON {
		if err := poll(cmd.Context()); err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if err := runCheckSpinner(cmd.Context(), cmd.ErrOrStderr(), "Checking session availability...", poll); err != nil {
		return err
	}

	link := v.GetString(configtoml.KeySessionLink)
	if link == "" {
		link = application.DefaultSessionLink
	}

	rendered, err := app.availabilityRender([]domain.Availability{result}, availabilityrender.RenderOptions{
		Now:  app.now(),
		Link: link,
	})
	if err != nil {
		return fmt.Errorf("render availability: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
