package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttlego/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
		key  string
	}{
		{"auth", domain.AuthRequiredError{ReturnPath: "/book"}, http.StatusUnauthorized, "auth_required"},
		{"validation", domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}, http.StatusBadRequest, "validation_error"},
		{"not found", domain.NotFoundError{Resource: "booking"}, http.StatusNotFound, "not_found"},
		{"capacity", domain.CapacityExceededError{ShuttleID: "s1", Capacity: 30, Occupancy: 30}, http.StatusConflict, "capacity_exceeded"},
		{"conflict", domain.ConflictError{Resource: "booking", Msg: "already cancelled"}, http.StatusConflict, "conflict"},
		{"backend", domain.BackendUnavailableError{Op: "list", Err: errors.New("down")}, http.StatusServiceUnavailable, "backend_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", nil)

			RespondDomainError(c, tc.err)
			require.Equal(t, tc.code, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.key, body["code"])
		})
	}
}

func TestRespondDomainError_RedirectFallsBackToRequestURI(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/bookings?highlight=b1", nil)

	RespondDomainError(c, domain.AuthRequiredError{})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/auth?redirect=%2Fapi%2Fbookings%3Fhighlight%3Db1", body["redirect"])
}
