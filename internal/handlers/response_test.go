package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/family-ledger-api/internal/errors"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized},
		{"disabled", services.ErrUserDisabled, http.StatusForbidden, apierrors.ErrCodeUserDisabled},
		{"forbidden", services.ErrFamilyAccessDenied, http.StatusForbidden, apierrors.ErrCodeForbidden},
		{"not found", services.ErrRecordNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"already in family", services.ErrAlreadyInFamily, http.StatusConflict, apierrors.ErrCodeAlreadyInFamily},
		{"conflict", services.ErrDuplicateCategory, http.StatusConflict, apierrors.ErrCodeConflict},
		{"validation", services.ErrWrongPassword, http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"no family", services.ErrNoFamily, http.StatusBadRequest, apierrors.ErrCodeNoFamily},
		{"wrapped", fmt.Errorf("loading: %w", services.ErrMemberNotFound), http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, apierrors.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			require.Equal(t, tt.wantStatus, w.Code)

			var body apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestRespondSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondSuccess(c, http.StatusCreated, gin.H{"id": 1}, "Created")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1},"message":"Created"}`, w.Body.String())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value    string
		endOfDay bool
		want     time.Time
	}{
		{"2026-03-14", false, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2026-03-14", true, time.Date(2026, 3, 14, 23, 59, 59, 999999999, time.UTC)},
		{"2026-03-14T08:30:00+08:00", false, time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC)},
		{"2026-03-14T08:30:00+08:00", true, time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC)},
		{"2026-03-14 08:30:00", false, time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseDate(tt.value, tt.endOfDay)
		require.NoError(t, err, tt.value)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.value, got)
	}

	_, err := parseDate("14/03/2026", false)
	require.Error(t, err)
}

func TestOptionalIDQuery(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?family_id=7", nil)

	id, ok := optionalIDQuery(c, "family_id")
	require.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, uint64(7), *id)

	id, ok = optionalIDQuery(c, "missing")
	require.True(t, ok)
	assert.Nil(t, id)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?family_id=abc", nil)

	_, ok = optionalIDQuery(c, "family_id")
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
