package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttlego/internal/domain"
	"shuttlego/internal/http/middleware"
	"shuttlego/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsAuthRequired(err):
		var authErr domain.AuthRequiredError
		errors.As(err, &authErr)
		returnPath := authErr.ReturnPath
		if returnPath == "" {
			returnPath = c.Request.URL.RequestURI()
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      err.Error(),
			"code":       "auth_required",
			"redirect":   middleware.SignInRedirect(returnPath),
			"request_id": middleware.GetRequestID(c),
			"message":    err.Error(),
		})
	case domain.IsValidation(err):
		var vErr domain.ValidationError
		errors.As(err, &vErr)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"field": vErr.Field})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsCapacityExceeded(err):
		var capErr domain.CapacityExceededError
		errors.As(err, &capErr)
		respondError(c, http.StatusConflict, "capacity_exceeded", err.Error(), gin.H{
			"shuttle_id": capErr.ShuttleID,
			"capacity":   capErr.Capacity,
			"occupancy":  capErr.Occupancy,
		})
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsBackendUnavailable(err):
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusServiceUnavailable, "backend_unavailable", "service temporarily unavailable, please try again", nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
