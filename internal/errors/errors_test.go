package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpers_Envelope(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *gin.Context)
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{"unauthorized default", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{"user disabled", func(c *gin.Context) { UserDisabled(c, "") }, http.StatusForbidden, ErrCodeUserDisabled, "User account is disabled"},
		{"forbidden custom", func(c *gin.Context) { Forbidden(c, "not yours") }, http.StatusForbidden, ErrCodeForbidden, "not yours"},
		{"not found", func(c *gin.Context) { NotFound(c, "record not found") }, http.StatusNotFound, ErrCodeNotFound, "record not found"},
		{"no family", func(c *gin.Context) { NoFamily(c, "") }, http.StatusBadRequest, ErrCodeNoFamily, "You have not joined a family"},
		{"conflict", func(c *gin.Context) { Conflict(c, "duplicate") }, http.StatusConflict, ErrCodeConflict, "duplicate"},
		{"already in family", func(c *gin.Context) { AlreadyInFamily(c, "") }, http.StatusConflict, ErrCodeAlreadyInFamily, "User already belongs to a family"},
		{"internal", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.call(c)

			require.Equal(t, tt.wantStatus, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tt.wantStatus), body["code"])
			assert.Equal(t, tt.wantKind, body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, body, "details")
		})
	}
}

func TestBadRequestWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequestWithDetails(c, "validation failed", map[string]string{"phone": "too short"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInvalidInput, body.Kind)
	assert.Equal(t, map[string]interface{}{"phone": "too short"}, body.Details)
}
