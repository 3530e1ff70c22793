package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/http/middleware"
	"shuttlego/internal/services"
)

// GET /api/notifications?limit=
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	svc := h.Notifications
	svc.RequestID = middleware.GetRequestID(c)
	items, err := svc.List(c.Request.Context(), middleware.Identity(c).UserID, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "unread": unread})
}

// GET /api/notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	svc := h.Notifications
	svc.RequestID = middleware.GetRequestID(c)
	n, err := svc.UnreadCount(c.Request.Context(), middleware.Identity(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// POST /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	svc := h.Notifications
	svc.RequestID = middleware.GetRequestID(c)
	if err := svc.MarkRead(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// POST /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	svc := h.Notifications
	svc.RequestID = middleware.GetRequestID(c)
	if err := svc.MarkAllRead(c.Request.Context(), middleware.Identity(c).UserID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// POST /api/notifications/broadcast (admin)
func (h *Handler) BroadcastNotification(c *gin.Context) {
	var in services.BroadcastInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := h.Notifications
	svc.RequestID = middleware.GetRequestID(c)
	n, err := svc.Broadcast(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "broadcast sent", "data": n})
}

// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	svc := h.Dashboard
	svc.RequestID = middleware.GetRequestID(c)
	svc.Bookings.RequestID = svc.RequestID
	svc.Notifications.RequestID = svc.RequestID
	d, err := svc.Build(c.Request.Context(), middleware.Identity(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": d})
}
