package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tenantauth/internal/caching"
	"tenantauth/internal/config"
	"tenantauth/internal/handlers"
	"tenantauth/internal/jobs"
	"tenantauth/internal/middleware"
	"tenantauth/internal/models"
	"tenantauth/internal/repositories"
	"tenantauth/internal/services"
	"tenantauth/pkg/database"
	"tenantauth/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheSvc.Close()

	logoSvc, err := services.NewLogoService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		zlog.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := logoSvc.EnsureBucket(ctx); err != nil {
		zlog.Warn("Could not ensure logo bucket", zap.Error(err))
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	auditSvc := services.NewAuditLogsService(auditRepo, zlog)
	authSvc := services.NewAuthService(tokenRepo, userRepo, cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, zlog)
	userSvc := services.NewUserService(userRepo, auditSvc, zlog)
	tenantSvc := services.NewTenantService(tenantRepo, userRepo, cacheSvc, zlog)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userSvc, auditSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, logoSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	auditHandlers := handlers.NewAuditHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(version)

	// Background jobs
	cleanup, err := jobs.NewTokenCleanup(authSvc, zlog)
	if err != nil {
		zlog.Fatal("Failed to create token cleanup job", zap.Error(err))
	}
	cleanup.Start()
	defer cleanup.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.RequestLogger(zlog))
	e.Use(middleware.Metrics)

	guard := middleware.NewAuthGuard(auditSvc)
	authenticate := middleware.Authenticate(authSvc)
	rateLimit := middleware.RateLimit(cacheSvc, cfg.RateLimit.Limit, cfg.RateLimit.Window, zlog)

	// Public routes
	e.GET("/health", healthHandlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/tenants", tenantHandlers.Create)
	e.GET("/tenants/:slug", tenantHandlers.GetBySlug)

	// Tenant-scoped routes
	t := e.Group("/t/:slug", middleware.TenantContext(tenantSvc))

	auth := t.Group("/auth")
	auth.POST("/register", authHandlers.Register, rateLimit)
	auth.POST("/login", authHandlers.Login, rateLimit)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout, authenticate)
	auth.POST("/me", authHandlers.Me, authenticate, guard.RequireTenantMatch())

	adminChain := []echo.MiddlewareFunc{authenticate, guard.RequireTenantMatch(), guard.RequireRole(models.RoleAdmin)}

	users := t.Group("/users", adminChain...)
	users.GET("", userHandlers.List)
	users.PATCH("/:id/role", userHandlers.UpdateRole)

	tenantAdmin := t.Group("/tenant", adminChain...)
	tenantAdmin.PATCH("", tenantHandlers.UpdateBranding)
	tenantAdmin.POST("/logo", tenantHandlers.UploadLogo)

	t.GET("/audit-logs", auditHandlers.List, adminChain...)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			zlog.Info("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}
