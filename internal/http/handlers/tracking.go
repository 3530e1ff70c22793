package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/http/middleware"
)

// GET /api/tracking/shuttles
func (h *Handler) TrackShuttles(c *gin.Context) {
	svc := h.Tracking
	svc.RequestID = middleware.GetRequestID(c)
	positions, err := svc.Shuttles(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": positions, "count": len(positions)})
}

// GET /api/tracking/map
func (h *Handler) TrackingMap(c *gin.Context) {
	svc := h.Tracking
	svc.RequestID = middleware.GetRequestID(c)
	view, err := svc.Map(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PUT /api/shuttles/:id/location (driver/admin)
func (h *Handler) UpdateShuttleLocation(c *gin.Context) {
	var req locationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "latitude and longitude are required", nil)
		return
	}
	svc := h.Tracking
	svc.RequestID = middleware.GetRequestID(c)
	sh, err := svc.UpdateLocation(c.Request.Context(), c.Param("id"), *req.Latitude, *req.Longitude)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location updated", "data": sh})
}
