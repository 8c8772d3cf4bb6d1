package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bnema/check-efy/internal/adapters/scrape"
	"github.com/bnema/check-efy/internal/application"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/bnema/check-efy/internal/version"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app, err := wireApp()
	if err != nil {
		rootCmd := baseRootCmd()
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	return newRootCmdWithApp(app)
}

func baseRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "check-efy <recipient>...",
		Short: "Watch an EFY session for open seats and text the recipients",
		Long: "check-efy polls the EFY available-sessions page for one session and sends a text " +
			"message to every recipient through Twilio whenever seats are open. Recipients and the " +
			"sender are E.164 numbers such as +16175551212.",
		Version:       version.Version,
		Args:          recipientArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetVersionTemplate("Check Efy. {{.Version}}\n")

	return rootCmd
}

var errUnknownCommand = errors.New("unknown command")

// recipientArgs rejects positional args without a digit. Those are mistyped
// subcommands; anything with digits goes on to phone number validation.
func recipientArgs(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if strings.ContainsAny(arg, "0123456789") {
			continue
		}
		err := fmt.Errorf("%w %q for %q", errUnknownCommand, arg, cmd.CommandPath())
		if suggestions := cmd.SuggestionsFor(arg); len(suggestions) > 0 {
			err = fmt.Errorf("%w\n\nDid you mean this?\n\t%s", err, strings.Join(suggestions, "\n\t"))
		}
		return err
	}
	return nil
}

func newRootCmdWithApp(app *app) *cobra.Command {
	rootCmd := baseRootCmd()
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, app, args)
	}

	addSharedFlags(rootCmd.PersistentFlags())
	addWatchFlags(rootCmd.Flags())

	rootCmd.AddCommand(
		newVersionCmd(),
		newCheckCmd(app),
		newConfigCmd(app),
		newCredentialsCmd(app),
	)

	return rootCmd
}

func runWatch(cmd *cobra.Command, app *app, args []string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Starting Check Efy Script."); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := loadConfig(ctx, cmd, app)
	if err != nil {
		return err
	}

	logs, log := logx.New(logConfig(v), cmd.ErrOrStderr(), cmd.ErrOrStderr())
	defer func() { _ = logs.Close() }()

	settings, err := resolveWatchSettings(ctx, v, args, app.secretStore)
	if err != nil {
		var invalid validationError
		if errors.As(err, &invalid) {
			_, printErr := fmt.Fprintf(cmd.OutOrStdout(), "Value error: %v\n", invalid)
			return printErr
		}
		return err
	}

	sender, err := app.newSender(settings.AccountID, settings.AuthToken, settings.SendRate)
	if err != nil {
		return fmt.Errorf("create sms sender: %w", err)
	}

	checker := scrape.Checker{
		URL:            settings.URL,
		HTTPClient:     app.httpClient,
		RequestTimeout: settings.RequestTimeout,
		Log:            log.Named("checker"),
	}
	notifier := application.NewNotifier(sender, settings.Sender, settings.Recipients, settings.SessionLink, log.Named("notifier"))
	delay := application.NewDelayGenerator(settings.DelayMean, settings.DelayStdDev, app.randSource())
	watcher := application.NewWatcher(checker, notifier, delay, app.clock, log.Named("watcher"), application.WatcherConfig{
		Session:   settings.Session,
		SleepStep: app.sleepStep,
	})

	err = watcher.Run(ctx)
	if application.IsCancellation(err) {
		log.Info("Interrupted, exiting", logx.String("cause", interruptCause(ctx, err)))
		return nil
	}

	return err
}

func interruptCause(ctx context.Context, err error) string {
	if cause := context.Cause(ctx); cause != nil {
		return cause.Error()
	}
	return err.Error()
}
