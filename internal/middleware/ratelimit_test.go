package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"abstractdesk/internal/middleware"
	"abstractdesk/mocks"
)

func rateLimitedRouter(limiter *mocks.MockRateLimiter) *gin.Engine {
	r := gin.New()
	if limiter == nil {
		r.POST("/login", middleware.RateLimit(nil, "login"), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	r.POST("/login", middleware.RateLimit(limiter, "login"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		allowed  bool
		err      error
		expected int
	}{
		{"within quota", true, nil, http.StatusOK},
		{"over quota", false, nil, http.StatusTooManyRequests},
		{"limiter down fails open", false, errors.New("redis down"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(mocks.MockRateLimiter)
			limiter.On("Allow", mock.Anything, "login:192.0.2.10").Return(tt.allowed, tt.err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", http.NoBody)
			req.RemoteAddr = "192.0.2.10:5555"
			rateLimitedRouter(limiter).ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			limiter.AssertExpectations(t)
		})
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", http.NoBody)
	rateLimitedRouter(nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
