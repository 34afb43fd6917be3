package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"abstractdesk/internal/logging"
	"abstractdesk/internal/middleware"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var fromCtx string
	r.GET("/test", func(c *gin.Context) {
		fromCtx = logging.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	header := w.Header().Get(middleware.HeaderRequestID)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, fromCtx)
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
}

func TestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	logging.InitWriter(&buf, "info", "json")
	defer slog.SetDefault(prev)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "req-boom")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	out := buf.String()
	assert.Contains(t, out, "panic recovered")
	assert.Contains(t, out, `"request_id":"req-boom"`)
	assert.Contains(t, out, `"status":500`)
}
