package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recycle-rewards-backend/internal/shared"
	"recycle-rewards-backend/internal/shared/middleware"
	"recycle-rewards-backend/internal/shared/response"
	"recycle-rewards-backend/pkg/container"
	"recycle-rewards-backend/pkg/logger"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Without this gin trusts X-Forwarded-For from every peer.
	if err := router.SetTrustedProxies(c.Config.App.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxies", err)
	}

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1", middleware.RejectInactiveUsers(c.JWTManager, c.UserService))
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupProtectedRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	limiter := middleware.NewIPRateLimiter(c.Config.RateLimit.AuthPerMinute)
	auth := v1.Group("/auth", middleware.RateLimit(limiter))
	c.UserHandler.RegisterAuthRoutes(auth)
}

// ========================================
// CATALOG ROUTES (public reads, admin writes)
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	c.CategoryHandler.RegisterRoutes(v1, c.JWTManager)
	c.RewardHandler.RegisterRoutes(v1, c.JWTManager)
}

// ========================================
// AUTHENTICATED ROUTES
// ========================================
func setupProtectedRoutes(v1 *gin.RouterGroup, c *container.Container) {
	protected := v1.Group("", middleware.AuthMiddleware(c.JWTManager))

	c.UserHandler.RegisterRoutes(protected)
	c.AddressHandler.RegisterRoutes(protected)
	c.DonationHandler.RegisterRoutes(protected)
	c.LedgerHandler.RegisterRoutes(protected)
	c.NotificationHandler.RegisterRoutes(protected)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin",
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireRoles(shared.RoleAdmin),
	)

	c.UserHandler.RegisterAdminRoutes(admin)
	c.LedgerHandler.RegisterAdminRoutes(admin)
	c.DonationHandler.RegisterAdminRoutes(admin)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "disconnected"
		if appCtx.DB != nil && appCtx.DB.Pool != nil {
			dbStatus = probeStatus(ctx, "database", appCtx.DB.HealthCheck)
		}

		// Redis is optional: cache reads fall back to Postgres
		redisStatus := probeStatus(ctx, "redis", appCtx.Cache.Ping)
		if redisStatus != "ok" {
			health["status"] = "degraded"
		}

		services := gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if dbStatus == "ok" {
			services["pool"] = appCtx.DB.Stats()
		}
		health["services"] = services

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

// probeStatus runs ping and reports only "ok" or "error"; details go to the log.
func probeStatus(ctx context.Context, service string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		logger.ErrorWithFields("Health probe failed", err, map[string]interface{}{"service": service})
		return "error"
	}
	return "ok"
}
