package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/domain/models"
	"shuttlego/internal/http/middleware"
	"shuttlego/internal/services"
)

// POST /api/bookings
func (h *Handler) CommitBooking(c *gin.Context) {
	var in services.CommitInput
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ReturnPath = c.GetHeader("X-Return-Path")
	if in.ReturnPath == "" {
		in.ReturnPath = "/book"
	}

	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	conf, err := svc.Commit(c.Request.Context(), middleware.Identity(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "booking confirmed", "data": conf})
}

// GET /api/bookings?highlight=<id>
func (h *Handler) ListBookings(c *gin.Context) {
	svc := h.Views
	svc.RequestID = middleware.GetRequestID(c)
	list, err := svc.List(c.Request.Context(), middleware.Identity(c).UserID, c.Query("highlight"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// GET /api/bookings/active
func (h *Handler) ActiveBookings(c *gin.Context) {
	svc := h.Views
	svc.RequestID = middleware.GetRequestID(c)
	list, err := svc.Active(c.Request.Context(), middleware.Identity(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	svc := h.Views
	svc.RequestID = middleware.GetRequestID(c)
	view, err := svc.Get(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// POST /api/bookings/:id/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	svc := h.Views
	svc.RequestID = middleware.GetRequestID(c)
	view, err := svc.Cancel(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled", "data": view})
}

// GET /api/bookings/:id/boarding-pass returns the PDF inline.
func (h *Handler) BoardingPass(c *gin.Context) {
	svc := h.Docs
	svc.RequestID = middleware.GetRequestID(c)
	pdfBytes, filename, err := svc.BoardingPass(c.Request.Context(), middleware.Identity(c).UserID, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

type quoteRequest struct {
	RouteID     string             `json:"route_id"`
	Preferences models.Preferences `json:"preferences"`
}

// POST /api/bookings/quote
func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	fare, err := h.Availability.Quote(c.Request.Context(), req.RouteID, req.Preferences)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fare})
}

// GET /api/bookings/availability?route_id=&date=
func (h *Handler) GetAvailability(c *gin.Context) {
	res, err := h.Availability.ForRoute(c.Request.Context(), c.Query("route_id"), c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// GET /api/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	cat, err := h.Catalog.Current(c.Request.Context())
	if err != nil && cat.Empty() {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cat, "stale": err != nil})
}
