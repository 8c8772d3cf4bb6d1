package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored Twilio credentials",
	}

	cmd.AddCommand(newCredentialsSetCmd(app))

	return cmd
}

func newCredentialsSetCmd(app *app) *cobra.Command {
	var accountID string
	var authToken string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Twilio account id and auth token in the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountID = strings.TrimSpace(accountID)
			authToken = strings.TrimSpace(authToken)
			if accountID == "" || authToken == "" {
				return errors.New("account id and auth token must not be empty")
			}

			if err := app.secretStore.Put(cmd.Context(), accountIDSecretKey, accountID); err != nil {
				return fmt.Errorf("store account id: %w", err)
			}
			if err := app.secretStore.Put(cmd.Context(), authTokenSecretKey, authToken); err != nil {
				return fmt.Errorf("store auth token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Stored Twilio credentials.")
			return err
		},
	}

	cmd.Flags().StringVar(&accountID, "account-id", "", "Twilio account id")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "Twilio auth token")
	_ = cmd.MarkFlagRequired("account-id")
	_ = cmd.MarkFlagRequired("auth-token")

	return cmd
}
