package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/middleware"
	"abstractdesk/internal/service"
	"abstractdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func identityRouter(auth service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": middleware.GetRole(c)})
	})
	r.GET("/test", handlers...)
	return r
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{
		UserID: 42, Email: "dr@example.org", Role: domain.RoleDelegate,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	identityRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(42), resp["user_id"])
	assert.Equal(t, "delegate", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_TokenCookie(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "cookie-token").Return(&service.Claims{UserID: 1, Role: domain.RoleAdmin}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "cookie-token"})
	identityRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	identityRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertNotCalled(t, "ValidateToken")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad")
	identityRouter(mockAuth).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.UserRole
		expected int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"delegate forbidden", domain.RoleDelegate, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "tok").Return(&service.Claims{UserID: 5, Role: tt.role}, nil)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			req.Header.Set("Authorization", "Bearer tok")
			identityRouter(mockAuth, middleware.RequireRole(domain.RoleAdmin)).ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
