package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"abstractdesk/internal/config"
	"abstractdesk/internal/email/compose"
	"abstractdesk/internal/email/noop"
	"abstractdesk/internal/email/ses"
	"abstractdesk/internal/handler"
	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
	"abstractdesk/internal/ratelimit"
	"abstractdesk/internal/repository/postgres"
	"abstractdesk/internal/router"
	"abstractdesk/internal/service"
	"abstractdesk/internal/storage"
	miniostorage "abstractdesk/internal/storage/minio"
)

// @title Abstract Review API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	abstractRepo := postgres.NewAbstractRepo(db)

	// Initialize storage
	objectStore, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if strings.EqualFold(cfg.Storage.Provider, storage.ProviderMinio) {
		if err := miniostorage.EnsureBucket(ctx, objectStore, cfg.Storage.Bucket); err != nil {
			slog.Warn("could not ensure storage bucket", "bucket", cfg.Storage.Bucket, "error", err)
		}
	}

	sender, err := newEmailSender(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	var limiter port.RateLimiter
	if cfg.Redis.Addr != "" {
		l, err := ratelimit.NewRedisFixedWindowLimiter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cfg.RateLimit.Prefix, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)
		if err != nil {
			return fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		defer func() { _ = l.Close() }()
		limiter = l
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	abstractSvc := service.NewAbstractService(abstractRepo)
	statsSvc := service.NewStatsService(abstractRepo)
	transitionSvc := service.NewTransitionService(abstractRepo)
	notificationSvc := service.NewNotificationService(abstractRepo, sender, service.NotificationConfig{
		Delay: cfg.Notify.Delay,
		Branding: compose.Branding{
			Conference:   cfg.Email.Conference,
			Committee:    cfg.Email.FromName,
			ContactEmail: firstNonEmpty(cfg.Email.ReplyTo, cfg.Email.FromAddress),
			ContactURL:   cfg.Email.ContactURL,
		},
	})
	runner := service.NewDispatchRunner(cfg.Notify.MaxDetached, cfg.Notify.MaxPending)
	notifier := service.NewPostCommitNotifier(cfg.Notify.Mode, notificationSvc, runner)
	bulkSvc := service.NewBulkService(transitionSvc, statsSvc, abstractRepo, notifier, service.BulkConfig{
		MaxBulkSize: cfg.Review.MaxBulkSize,
	})
	finalUploadSvc := service.NewFinalUploadService(abstractRepo, objectStore, service.FinalUploadConfig{
		Bucket:        cfg.Storage.Bucket,
		MaxFileSizeMB: cfg.Storage.MaxFileSizeMB,
		PresignExpiry: cfg.Storage.PresignExpiry,
	})

	// Initialize handlers and router
	r, err := router.Setup(authSvc, limiter, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, cfg.Server.Environment == "production"),
		Abstract:    handler.NewAbstractHandler(abstractSvc),
		Review:      handler.NewReviewHandler(abstractSvc, transitionSvc, bulkSvc, notifier),
		Email:       handler.NewEmailHandler(notificationSvc, cfg.Review.MaxBulkSize),
		Stats:       handler.NewStatsHandler(statsSvc),
		Export:      handler.NewExportHandler(abstractSvc, statsSvc, cfg.Email.Conference),
		FinalUpload: handler.NewFinalUploadHandler(finalUploadSvc, cfg.Storage.MaxFileSizeMB),
		Health:      handler.NewHealthHandler(abstractRepo),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Detached dispatches drain only after the HTTP server stops accepting work.
	drainCtx, drain := context.WithCancel(context.Background())
	defer drain()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Server.Port, "notify_mode", notifier.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return runner.Run(drainCtx)
	})
	g.Go(func() error {
		<-gctx.Done()
		defer drain()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newEmailSender(cfg config.EmailConfig) (port.EmailSender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.ReplyTo)
	case "noop", "":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
