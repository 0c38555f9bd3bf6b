package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inbox-dashboard/internal/config"
	"inbox-dashboard/internal/dashboard"
	"inbox-dashboard/internal/gateway"
	"inbox-dashboard/internal/handler"
	"inbox-dashboard/internal/ingest"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/middleware"
	"inbox-dashboard/internal/render"
	"inbox-dashboard/internal/repository/memory"
	"inbox-dashboard/internal/router"
	"inbox-dashboard/internal/sse"
	"inbox-dashboard/internal/web"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.NewForEnv(cfg.Env, cfg.LogLevel, "dashboard")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Live actions are enabled only when the mail API answers at startup
	actionClient := gateway.NewClient(cfg.ActionAPIURL, cfg.ActionTimeout, appLogger.WithComponent("gateway"))
	healthCtx, cancelHealth := context.WithTimeout(ctx, 5*time.Second)
	actionGateway := gateway.Select(healthCtx, actionClient, appLogger)
	cancelHealth()

	// Initialize SSE manager for real-time dashboard updates
	sseManager := sse.NewSSEManager(appLogger)

	// One dashboard per browser session; chart handles are tracked globally
	charts := render.NewRegistry()
	actions := memory.NewInMemoryActionRepository()
	controllerLogger := appLogger.WithComponent("dashboard")
	registry := dashboard.NewRegistry(func(sessionID string) *dashboard.Controller {
		return dashboard.NewController(dashboard.Options{
			SessionID: sessionID,
			LoadDelay: cfg.LoadDelay,
			Gateway:   actionGateway,
			Charts:    charts,
			Actions:   actions,
			Events:    sseManager,
			Logger:    controllerLogger,
		})
	}, appLogger)

	// Release dashboards of sessions that went idle
	reaper := sse.NewSessionReaperJob(registry, sseManager, cfg.SessionIdleTimeout, appLogger)
	go reaper.Start()

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestLogger(appLogger)...)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse templates:", err)
	}
	e.Renderer = renderer
	e.StaticFS("/static", web.StaticFS())

	sessionStore := handler.NewSessionStore([]byte(cfg.SessionSecret), cfg.IsProduction(), cfg.SessionIdleTimeout)
	loader := ingest.NewLoader(cfg.MaxUploadBytes, appLogger.WithComponent("ingest"))

	dashboardHandler := handler.NewDashboardHandler(loader, actionGateway, sseManager, cfg.ToolVersion, e.Logger)
	exportHandler := handler.NewExportHandler(cfg.ToolVersion, time.Now, e.Logger)
	actionHandler := handler.NewActionHandler(e.Logger)

	router.SetupDashboardRoutes(e, dashboardHandler, exportHandler, actionHandler,
		middleware.SessionMiddleware(sessionStore, registry))

	// Start server
	go func() {
		appLogger.Info("Starting server on port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server:", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	reaper.Stop()
	// Close SSE streams first so open event handlers return
	sseManager.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed:", err)
	}
	registry.CloseAll()
}
