package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inbox-dashboard/internal/handler"
	"inbox-dashboard/internal/middleware"
	"inbox-dashboard/internal/router"
	"inbox-dashboard/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// serveCmd runs the mail API the dashboard calls for live actions
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mail API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateMailAPI(); err != nil {
			return err
		}

		client, err := mailboxClient(cmd.Context())
		if err != nil {
			return err
		}

		mailboxService := service.NewMailboxService(client, service.MailboxOptions{
			CleanupLabel:        cfg.CleanupLabel,
			DeleteInterval:      cfg.DeleteInterval,
			UnsubscribeInterval: cfg.UnsubscribeInterval,
			UnsubscribeTimeout:  cfg.UnsubscribeTimeout,
		}, appLogger.WithComponent("mailbox"))

		e := newMailAPIServer(mailboxService)
		return run(cmd.Context(), e, ":"+cfg.MailAPIPort)
	},
}

func newMailAPIServer(mailboxService service.MailboxService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLogger(appLogger)...)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	mailAPIHandler := handler.NewMailAPIHandler(mailboxService, e.Logger)
	router.SetupMailAPIRoutes(e, mailAPIHandler)
	return e
}

// run serves until SIGINT or SIGTERM and then shuts down gracefully.
func run(ctx context.Context, e *echo.Echo, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Starting mail API on", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	appLogger.Info("Shutting down mail API")
	return e.Shutdown(shutdownCtx)
}
