package cli

import (
	"fmt"
	"os"

	"inbox-dashboard/internal/gmail"

	"github.com/spf13/cobra"
)

// authCmd runs the OAuth consent flow and caches the token
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Gmail access",
	Long: `Opens the Google consent page for the OAuth client in
GMAIL_CONFIG_DIR/client_secret.json and stores the resulting token next to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gmail.Authorize(cmd.Context(), cfg.GmailConfigDir, os.Stdin, cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Gmail verbunden")
		return nil
	},
}
