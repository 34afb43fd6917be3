package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/domain"
	"abstractdesk/internal/middleware"
	"abstractdesk/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie Secure, which production deployments behind TLS should set.
func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Register handles POST /api/v1/auth/register
// @Summary Register a delegate
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Registration details"
// @Success 201 {object} Response{data=service.AuthToken}
// @Failure 400 {object} ErrorResponseBody
// @Failure 409 {object} ErrorResponseBody "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	token, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	RespondCreated(c, token)
}

// Login handles POST /api/v1/auth/login
// @Summary Delegate login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} Response{data=service.AuthToken}
// @Failure 401 {object} ErrorResponseBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, domain.RoleDelegate)
}

// AdminLogin handles POST /api/v1/admin/login
// @Summary Reviewer login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} Response{data=service.AuthToken}
// @Failure 401 {object} ErrorResponseBody
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, domain.RoleAdmin)
}

func (h *AuthHandler) login(c *gin.Context, role domain.UserRole) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	token, err := h.authService.Login(c.Request.Context(), input, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	RespondOK(c, token)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	RespondOK(c, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token *service.AuthToken) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token.AccessToken, maxAge, "/", "", h.secureCookie, true)
}
