package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/service"
)

// NotificationHandler serves the notification feed and its read-state
// mutations.
type NotificationHandler struct {
	notifier *service.Notifier
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifier *service.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List returns the most recent notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	notifications, err := h.notifier.List(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, notifications)
}

// MarkRead flips the read flag on one notification.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notifier.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead flips the read flag on every unread notification.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notifier.MarkAllRead(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
