package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkfinder/internal/services"
)

type NotificationHandler struct {
	notifier *services.NotificationService
}

func NewNotificationHandler(notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List handles GET /api/notifications. Entries come back newest first,
// bounded by the feed capacity.
func (h *NotificationHandler) List(c *gin.Context) {
	entries := h.notifier.Entries()
	c.JSON(http.StatusOK, gin.H{
		"notifications": entries,
		"count":         len(entries),
	})
}
