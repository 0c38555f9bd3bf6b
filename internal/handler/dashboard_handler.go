package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/dashboard"
	"inbox-dashboard/internal/gateway"
	"inbox-dashboard/internal/ingest"
	"inbox-dashboard/internal/middleware"
	"inbox-dashboard/internal/sse"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	loader      *ingest.Loader
	gateway     gateway.ActionGateway
	sseManager  *sse.SSEManager
	toolVersion string
	logger      echo.Logger
}

func NewDashboardHandler(loader *ingest.Loader, gw gateway.ActionGateway, sseManager *sse.SSEManager, toolVersion string, logger echo.Logger) *DashboardHandler {
	if gw == nil {
		gw = gateway.Disabled{}
	}
	return &DashboardHandler{
		loader:      loader,
		gateway:     gw,
		sseManager:  sseManager,
		toolVersion: toolVersion,
		logger:      logger,
	}
}

// Index renders the dashboard page
func (h *DashboardHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"LiveActions": h.gateway.Enabled(),
		"Status":      statusLabel(h.gateway),
		"ToolVersion": h.toolVersion,
	})
}

// Upload parses a JSON report and renders it. A rejected upload keeps the
// dashboard as it was.
func (h *DashboardHandler) Upload(c echo.Context) error {
	ctrl := middleware.Controller(c)

	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, apperrors.NewValidation("Bitte eine JSON-Datei auswählen!"))
	}
	if err := ingest.ValidateFileName(file.Filename); err != nil {
		return errorJSON(c, err)
	}

	src, err := file.Open()
	if err != nil {
		return errorJSON(c, apperrors.NewIO("Fehler beim Lesen der Datei", err))
	}
	defer src.Close()

	text, err := h.loader.ReadUpload(src)
	if err != nil {
		return errorJSON(c, err)
	}
	report, err := h.loader.LoadFromText(text)
	if err != nil {
		h.logger.Warn("Rejected upload:", file.Filename, err)
		return errorJSON(c, err)
	}

	if err := ctrl.Load(c.Request().Context(), report); err != nil {
		return errorJSON(c, err)
	}
	h.logger.Info("Loaded report", file.Filename, "for session", ctrl.SessionID())
	return c.JSON(http.StatusOK, ctrl.Snapshot(c.Request().Context()))
}

// Demo loads the built-in sample inbox
func (h *DashboardHandler) Demo(c echo.Context) error {
	ctrl := middleware.Controller(c)
	if err := ctrl.LoadDemo(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, ctrl.Snapshot(c.Request().Context()))
}

// Reset disposes the charts and forgets the report
func (h *DashboardHandler) Reset(c echo.Context) error {
	ctrl := middleware.Controller(c)
	ctrl.Destroy()
	return c.JSON(http.StatusOK, ctrl.Snapshot(c.Request().Context()))
}

// Unload is the page's beacon when the tab goes away
func (h *DashboardHandler) Unload(c echo.Context) error {
	middleware.Controller(c).Destroy()
	return c.NoContent(http.StatusNoContent)
}

func (h *DashboardHandler) Snapshot(c echo.Context) error {
	ctrl := middleware.Controller(c)
	return c.JSON(http.StatusOK, ctrl.Snapshot(c.Request().Context()))
}

func (h *DashboardHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"live_actions": h.gateway.Enabled(),
		"status":       statusLabel(h.gateway),
	})
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Events streams the session's dashboard events via Server-Sent Events
func (h *DashboardHandler) Events(c echo.Context) error {
	sessionID := middleware.SessionID(c)

	// Set response headers for SSE
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")

	clientChannel := h.sseManager.AddClient(sessionID)
	defer h.sseManager.RemoveClient(sessionID, clientChannel)

	// Send initial connection confirmation
	initEvent := sse.Event{
		Type: "connection",
		Data: map[string]string{"message": "Connected to dashboard updates"},
		Time: time.Now().Unix(),
	}
	initJSON, _ := json.Marshal(initEvent)
	fmt.Fprintf(c.Response(), "data: %s\n\n", initJSON)
	c.Response().Flush()

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", eventData)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			// Client disconnected
			return nil
		}
	}
}

func statusLabel(gw gateway.ActionGateway) string {
	if gw.Enabled() {
		return dashboard.StatusLive
	}
	return dashboard.StatusAnalysisOnly
}

// errorJSON writes {"error": ...} with the status the error maps to
func errorJSON(c echo.Context, err error) error {
	return c.JSON(apperrors.HTTPStatus(err), map[string]string{
		"error": apperrors.Message(err),
	})
}
