package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/domain/models"
	"shuttlego/internal/http/middleware"
	"shuttlego/internal/services"
)

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	res, err := svc.Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registered", "data": res})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var in services.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	res, err := svc.Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "data": res})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.Auth.Me(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

// GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// PUT /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var upd models.ProfileUpdate
	if !BindJSONOrError(c, &upd) {
		return
	}
	svc := h.Profiles
	svc.RequestID = middleware.GetRequestID(c)
	p, err := svc.Update(c.Request.Context(), middleware.Identity(c), upd)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "data": p})
}

// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.Settings.Get(c.Request.Context(), middleware.Identity(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s})
}

// PUT /api/settings
func (h *Handler) PutSettings(c *gin.Context) {
	var in services.Settings
	if !BindJSONOrError(c, &in) {
		return
	}
	s, err := h.Settings.Put(c.Request.Context(), middleware.Identity(c).UserID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings saved", "data": s})
}

// POST /api/feedback
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var in services.FeedbackInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := h.Feedback
	svc.RequestID = middleware.GetRequestID(c)
	f, err := svc.Submit(c.Request.Context(), middleware.Identity(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "thanks for the feedback", "data": f})
}

// GET /api/feedback
func (h *Handler) ListFeedback(c *gin.Context) {
	items, err := h.Feedback.List(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
