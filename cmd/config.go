package cmd

import (
	"fmt"

	configtoml "github.com/bnema/check-efy/internal/adapters/config/toml"
	"github.com/bnema/check-efy/internal/adapters/scrape"
	"github.com/bnema/check-efy/internal/adapters/sms/twilio"
	"github.com/bnema/check-efy/internal/application"
	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	cmd.AddCommand(newConfigInitCmd(app))

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString(configFlag)
			if err != nil {
				return err
			}
			if path == "" {
				path = app.defaultConfigPath
			}

			file := configtoml.NewFile(path)
			if err := file.WriteTemplate(cmd.Context(), defaultTemplate(), force); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", file.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func defaultTemplate() configtoml.Template {
	return configtoml.Template{
		Session:            string(domain.DefaultSessionID),
		URL:                scrape.DefaultURL,
		SessionLink:        application.DefaultSessionLink,
		RequestTimeout:     defaultRequestTimeout,
		DelayMeanMinutes:   application.DefaultDelayMeanMinutes,
		DelayStdDevMinutes: application.DefaultDelayStdDevMinutes,
		SendRate:           twilio.DefaultRatePerSecond,
		LogFile:            logx.DefaultFile,
		LogLevel:           defaultLogLevel,
	}
}
