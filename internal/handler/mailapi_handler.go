package handler

import (
	"errors"
	"net/http"

	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/service"

	"github.com/labstack/echo/v4"
)

type MailAPIHandler struct {
	mailboxService service.MailboxService
	logger         echo.Logger
}

func NewMailAPIHandler(mailboxService service.MailboxService, logger echo.Logger) *MailAPIHandler {
	return &MailAPIHandler{
		mailboxService: mailboxService,
		logger:         logger,
	}
}

type bulkRequest struct {
	EmailIDs []string `json:"email_ids"`
}

func (h *MailAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.mailboxService.Health(c.Request().Context()))
}

// DeleteEmail moves a single email to the trash
func (h *MailAPIHandler) DeleteEmail(c echo.Context) error {
	result := h.mailboxService.DeleteEmail(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, result)
}

// UnsubscribeEmail follows the List-Unsubscribe link of an email
func (h *MailAPIHandler) UnsubscribeEmail(c echo.Context) error {
	result := h.mailboxService.UnsubscribeEmail(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, result)
}

func (h *MailAPIHandler) BulkDelete(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return invalidBulkRequest(c, "Invalid request body")
	}
	if len(req.EmailIDs) == 0 {
		return invalidBulkRequest(c, "Keine Email-IDs angegeben")
	}

	outcome, err := h.mailboxService.BulkDelete(c.Request().Context(), req.EmailIDs)
	if err != nil {
		h.logger.Error("Bulk delete failed:", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":              outcome.Success,
		"total_processed":      outcome.TotalProcessed,
		"successful_deletions": outcome.Successful,
		"results":              outcome.Results,
	})
}

func (h *MailAPIHandler) BulkUnsubscribe(c echo.Context) error {
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return invalidBulkRequest(c, "Invalid request body")
	}
	if len(req.EmailIDs) == 0 {
		return invalidBulkRequest(c, "Keine Email-IDs angegeben")
	}

	outcome, err := h.mailboxService.BulkUnsubscribe(c.Request().Context(), req.EmailIDs)
	if err != nil {
		h.logger.Error("Bulk unsubscribe failed:", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":                 outcome.Success,
		"total_processed":         outcome.TotalProcessed,
		"successful_unsubscribes": outcome.Successful,
		"results":                 outcome.Results,
	})
}

func invalidBulkRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func (h *MailAPIHandler) EmailDetails(c echo.Context) error {
	details, err := h.mailboxService.GetDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "Email nicht gefunden",
			})
		}
		h.logger.Error("Failed to get email details:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, details)
}

// NewsletterAnalysis recommends cleanup actions for the posted newsletters
func (h *MailAPIHandler) NewsletterAnalysis(c echo.Context) error {
	var req struct {
		Newsletters []model.NewsletterEntry `json:"newsletters"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	return c.JSON(http.StatusOK, h.mailboxService.AnalyzeNewsletters(req.Newsletters))
}
