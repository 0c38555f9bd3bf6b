package handler

import (
	"fmt"
	"net/http"
	"time"

	"inbox-dashboard/internal/export"
	"inbox-dashboard/internal/middleware"

	"github.com/labstack/echo/v4"
)

type ExportHandler struct {
	toolVersion string
	now         func() time.Time
	logger      echo.Logger
}

func NewExportHandler(toolVersion string, now func() time.Time, logger echo.Logger) *ExportHandler {
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{
		toolVersion: toolVersion,
		now:         now,
		logger:      logger,
	}
}

// Report downloads the loaded report with summary and metadata
func (h *ExportHandler) Report(c echo.Context) error {
	report, err := middleware.Controller(c).Report()
	if err != nil {
		return errorJSON(c, err)
	}

	now := h.now()
	data, err := export.BuildReport(report, now, h.toolVersion).JSON()
	if err != nil {
		h.logger.Error("Failed to encode report:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to encode report",
		})
	}

	setAttachment(c, export.FileName(export.ReportPurpose, "json", now))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// CSV downloads the newsletter list
func (h *ExportHandler) CSV(c echo.Context) error {
	report, err := middleware.Controller(c).Report()
	if err != nil {
		return errorJSON(c, err)
	}

	setAttachment(c, export.FileName(export.CSVPurpose, "csv", h.now()))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(export.BuildCSV(report.Newsletters)))
}

func setAttachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}
