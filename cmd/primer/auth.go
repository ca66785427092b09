package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/gcal"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authGoogleCmd())

	return cmd
}

func authGoogleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Connect Google Calendar",
		Long: `Authorize primer to manage your Google Calendar.

This command will:
1. Start a local callback server
2. Print a consent URL to open in your browser
3. Save the resulting token to google.token_file

Set google.enabled to true afterwards to sync events.`,
		RunE: runAuthGoogle,
	}

	cmd.Flags().Bool("force", false, "ignore a saved token and authorize again")

	return cmd
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadGoogleConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		return errors.New("set google.client_id and google.client_secret (or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET) first")
	}

	var token *oauth2.Token
	if force, _ := cmd.Flags().GetBool("force"); force {
		token, err = gcal.AuthenticateInteractive(ctx, cfg.OAuth)
	} else {
		token, err = gcal.GetOrCreateToken(ctx, cfg.OAuth)
	}
	if err != nil {
		return fmt.Errorf("google authorization failed: %w", err)
	}

	msg := "Google Calendar connected. Token saved to " + cfg.OAuth.TokenFile
	if !token.Expiry.IsZero() {
		msg += fmt.Sprintf(" (access token valid until %s)", token.Expiry.Local().Format("Jan 2 3:04 PM"))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
	return err
}
