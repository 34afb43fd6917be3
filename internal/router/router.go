package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "abstractdesk/docs"
	"abstractdesk/internal/domain"
	"abstractdesk/internal/handler"
	"abstractdesk/internal/middleware"
	"abstractdesk/internal/port"
	"abstractdesk/internal/service"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Abstract    *handler.AbstractHandler
	Review      *handler.ReviewHandler
	Email       *handler.EmailHandler
	Stats       *handler.StatsHandler
	Export      *handler.ExportHandler
	FinalUpload *handler.FinalUploadHandler
	Health      *handler.HealthHandler
}

// Options holds the engine settings Setup applies.
type Options struct {
	AllowedOrigins []string
	// TrustedProxies gates X-Forwarded-For; empty means the direct peer is
	// the client IP used for rate limiting.
	TrustedProxies []string
}

// Setup configures the Gin engine with all routes and middleware. limiter may
// be nil, which disables rate limiting on the auth endpoints.
func Setup(authSvc service.AuthService, limiter port.RateLimiter, opts Options, h Handlers) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	authLimit := middleware.RateLimit(limiter, "auth")
	auth := v1.Group("/auth")
	auth.POST("/register", authLimit, h.Auth.Register)
	auth.POST("/login", authLimit, h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	v1.POST("/admin/login", authLimit, h.Auth.AdminLogin)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	abstracts := protected.Group("/abstracts")
	abstracts.POST("", h.Abstract.Submit)
	abstracts.GET("/mine", h.Abstract.ListMine)
	abstracts.POST("/bulk-update", requireAdmin, h.Review.BulkUpdate)
	abstracts.GET("/bulk-update", requireAdmin, h.Review.BulkStatus)
	abstracts.POST("/email", requireAdmin, h.Email.Send)
	abstracts.GET("/:id", h.Abstract.GetByID)
	abstracts.PUT("/:id", h.Abstract.Update)
	abstracts.DELETE("/:id", h.Abstract.Delete)
	abstracts.POST("/:id/withdraw", h.Review.Withdraw)
	abstracts.POST("/:id/final-upload", h.FinalUpload.Upload)
	abstracts.GET("/:id/final-upload", h.FinalUpload.Status)

	// Reviewer routes
	admin := protected.Group("/admin")
	admin.Use(requireAdmin)
	admin.GET("/abstracts", h.Review.ListAll)
	admin.POST("/abstracts/:id/status", h.Review.UpdateStatus)
	admin.GET("/abstracts/:id/history", h.Review.History)
	admin.GET("/stats", h.Stats.GetStats)
	admin.GET("/export", h.Export.Export)

	return r, nil
}
