package cli

import (
	"context"
	"fmt"
	"os"

	"inbox-dashboard/internal/config"
	"inbox-dashboard/internal/gmail"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/service"

	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	appLogger *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailapi",
	Short: "Gmail backend for the inbox dashboard",
	Long: `mailapi connects the inbox dashboard to a Gmail account.

Commands:
  mailapi auth              # authorize Gmail access once
  mailapi serve             # run the mail API for live dashboard actions
  mailapi analyze --days 30 # write an inbox report the dashboard can load`,
	SilenceUsage: true,
}

// Execute runs the CLI with the provided config and logger
func Execute(config *config.Config, log *logger.Logger) {
	cfg = config
	appLogger = log

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(authCmd)
}

// mailboxClient opens the authorized Gmail account.
func mailboxClient(ctx context.Context) (service.MailboxClient, error) {
	svc, err := gmail.NewService(ctx, cfg.GmailConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open Gmail: %w", err)
	}
	return gmail.NewGmailClient(svc, appLogger.WithComponent("gmail")), nil
}
