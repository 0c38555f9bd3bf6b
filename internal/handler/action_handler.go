package handler

import (
	"context"
	"errors"
	"net/http"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/middleware"
	"inbox-dashboard/internal/model"

	"github.com/labstack/echo/v4"
)

type ActionHandler struct {
	logger echo.Logger
}

func NewActionHandler(logger echo.Logger) *ActionHandler {
	return &ActionHandler{logger: logger}
}

// DeleteEmail moves one newsletter to the trash
func (h *ActionHandler) DeleteEmail(c echo.Context) error {
	ctrl := middleware.Controller(c)
	record, err := ctrl.Delete(c.Request().Context(), c.Param("id"))
	return h.respond(c, record, err)
}

// UnsubscribeEmail unsubscribes from one newsletter
func (h *ActionHandler) UnsubscribeEmail(c echo.Context) error {
	ctrl := middleware.Controller(c)
	record, err := ctrl.Unsubscribe(c.Request().Context(), c.Param("id"))
	return h.respond(c, record, err)
}

func (h *ActionHandler) BulkDelete(c echo.Context) error {
	ctrl := middleware.Controller(c)
	record, err := ctrl.BulkDelete(c.Request().Context())
	return h.respond(c, record, err)
}

func (h *ActionHandler) BulkUnsubscribe(c echo.Context) error {
	ctrl := middleware.Controller(c)
	record, err := ctrl.BulkUnsubscribe(c.Request().Context())
	return h.respond(c, record, err)
}

func (h *ActionHandler) respond(c echo.Context, record *model.ActionRecord, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": record.Message,
			"action":  record,
		})
	}

	message := apperrors.Message(err)
	if record != nil && record.Message != "" {
		message = record.Message
	}
	status := apperrors.HTTPStatus(err)
	if errors.Is(err, context.Canceled) {
		// Client closed the request.
		status = 499
	}
	h.logger.Warn("Action failed:", message)
	return c.JSON(status, map[string]interface{}{
		"error":  message,
		"action": record,
	})
}
