package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/family-ledger-api/internal/constants"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	base := New(Config{Level: "info", Format: "json", Output: &buf})

	var seenID string
	router := gin.New()
	router.Use(RequestLogger(base))
	router.GET("/ping", func(c *gin.Context) {
		seenID = c.GetString(constants.ContextKeyRequestID)
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusTeapot)
	})

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.NotEmpty(t, seenID)
		assert.Equal(t, seenID, w.Header().Get(constants.HeaderRequestID))

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var completed map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[1], &completed))
		assert.Equal(t, "HTTP request completed", completed["msg"])
		assert.Equal(t, "WARN", completed["level"])
		assert.Equal(t, seenID, completed["request_id"])
		assert.Equal(t, float64(http.StatusTeapot), completed["status"])
	})

	t.Run("propagates incoming request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderRequestID, "req-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", seenID)
		assert.Equal(t, "req-123", w.Header().Get(constants.HeaderRequestID))
	})
}
