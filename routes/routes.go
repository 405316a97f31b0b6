package routes

import (
	"net/http"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Middleware must be registered before the routes it should wrap
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": utils.AppName})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limiter *utils.ClientLimiter
	if cfg != nil && cfg.Limits.RPS > 0 {
		limiter = utils.NewClientLimiter(cfg.Limits.RPS, cfg.Limits.Burst)
	}

	// API version group
	api := router.Group("/" + utils.APIVersion)
	{
		initUserRoutes(api, limiter)
		initAdminRoutes(api)
	}

	return router
}
