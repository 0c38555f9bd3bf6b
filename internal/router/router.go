package router

import (
	"inbox-dashboard/internal/handler"

	"github.com/labstack/echo/v4"
)

// SetupDashboardRoutes wires the dashboard server. Every route except the
// health check runs behind the session middleware.
func SetupDashboardRoutes(
	e *echo.Echo,
	dashboardHandler *handler.DashboardHandler,
	exportHandler *handler.ExportHandler,
	actionHandler *handler.ActionHandler,
	sessionMiddleware echo.MiddlewareFunc,
) {
	e.GET("/health", dashboardHandler.Health)

	app := e.Group("", sessionMiddleware)

	// Page and report lifecycle
	app.GET("/", dashboardHandler.Index)
	app.POST("/upload", dashboardHandler.Upload)
	app.POST("/demo", dashboardHandler.Demo)
	app.POST("/reset", dashboardHandler.Reset)
	app.POST("/unload", dashboardHandler.Unload)
	app.GET("/api/dashboard", dashboardHandler.Snapshot)
	app.GET("/api/status", dashboardHandler.Status)

	// Downloads
	app.GET("/export/report", exportHandler.Report)
	app.GET("/export/csv", exportHandler.CSV)

	// Live actions against the mail API
	app.POST("/actions/email/:id/delete", actionHandler.DeleteEmail)
	app.POST("/actions/email/:id/unsubscribe", actionHandler.UnsubscribeEmail)
	app.POST("/actions/bulk-delete", actionHandler.BulkDelete)
	app.POST("/actions/bulk-unsubscribe", actionHandler.BulkUnsubscribe)

	// Real-time dashboard updates via Server-Sent Events (SSE)
	app.GET("/events", dashboardHandler.Events)
}

// SetupMailAPIRoutes wires the mail API backend.
func SetupMailAPIRoutes(e *echo.Echo, mailAPIHandler *handler.MailAPIHandler) {
	api := e.Group("/api")

	api.GET("/health", mailAPIHandler.Health)
	api.POST("/email/:id/delete", mailAPIHandler.DeleteEmail)
	api.POST("/email/:id/unsubscribe", mailAPIHandler.UnsubscribeEmail)
	api.POST("/bulk-delete", mailAPIHandler.BulkDelete)
	api.POST("/bulk-unsubscribe", mailAPIHandler.BulkUnsubscribe)
	api.GET("/email/:id/details", mailAPIHandler.EmailDetails)
	api.POST("/newsletter-analysis", mailAPIHandler.NewsletterAnalysis)
}
