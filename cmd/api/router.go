package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"iptv-manager/internal/shared/middleware"
	"iptv-manager/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// multipart overhead on top of the largest accepted spreadsheet
	bodyLimit := c.Config.Import.MaxFileBytes + 1<<20
	router.MaxMultipartMemory = bodyLimit

	v1 := router.Group("/api/v1")
	v1.Use(middleware.MaxBodySize(bodyLimit))
	{
		v1.GET("/health", healthCheckHandler(c))

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))

		c.CatalogHandler.RegisterRoutes(authed)
		c.ImportHandler.RegisterRoutes(authed)
	}

	return router
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

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
		}

		// progress sessions live in Redis, so the wizard is down without it
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		archiveStatus := "disabled"
		if appCtx.Storage != nil {
			archiveStatus = "ok"
		}

		services := gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"archive":  archiveStatus,
		}
		if appCtx.DB != nil && appCtx.DB.Pool != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["pool"] = stats
			}
		}
		health["services"] = services

		statusCode := http.StatusOK
		if dbStatus != "ok" || redisStatus != "ok" {
			health["status"] = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
