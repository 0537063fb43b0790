package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idrealestat/aqariai-core/internal/models"
	"github.com/idrealestat/aqariai-core/internal/services"
)

// RestNotificationHandler handles REST requests for the owner inbox. The UI
// collaborator polls List on a fixed interval and treats each response as a
// full re-snapshot.
type RestNotificationHandler struct {
	notificationService services.INotificationService
}

// NewRestNotificationHandler creates a new RestNotificationHandler.
func NewRestNotificationHandler(notificationService services.INotificationService) *RestNotificationHandler {
	return &RestNotificationHandler{notificationService: notificationService}
}

// List handles GET /v1/owner/:owner_id/notifications[?unread=1]
func (h *RestNotificationHandler) List(c *gin.Context) {
	ownerID := c.Param("owner_id")

	var notifications []models.OwnerNotification
	var err error
	if c.Query("unread") == "1" || c.Query("unread") == "true" {
		notifications, err = h.notificationService.ListUnread(c.Request.Context(), ownerID)
	} else {
		notifications, err = h.notificationService.ListAll(c.Request.Context(), ownerID)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	if notifications == nil {
		notifications = []models.OwnerNotification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkRead handles POST /v1/owner/:owner_id/notifications/:id/read
func (h *RestNotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("owner_id"), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/owner/:owner_id/notifications/read-all
func (h *RestNotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), c.Param("owner_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /v1/owner/:owner_id/notifications
func (h *RestNotificationHandler) DeleteAll(c *gin.Context) {
	if err := h.notificationService.DeleteAll(c.Request.Context(), c.Param("owner_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
