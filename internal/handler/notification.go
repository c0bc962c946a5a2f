package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// NotificationHandler serves the admin notification feed written by
// the broker consumer.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	if repo == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: repo}
}

// List handles GET /v1/notifications?unread=true.
func (h *NotificationHandler) List(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "true"
	all, err := h.Notifications.List(c.Request().Context(), unreadOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// MarkRead handles PUT /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid notification id"})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
