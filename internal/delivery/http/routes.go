package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resale/backend/config"
	"github.com/resale/backend/internal/infrastructure/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log = logger.OrNop(log)
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(logger.Recovery(log))
	router.Use(logger.GinMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		ebay := v1.Group("/ebay")
		{
			ebay.GET("/listings", handler.GetListings)
			ebay.GET("/items", handler.GetEbayItems)
			ebay.GET("/items/:id", handler.GetEbayItem)
			ebay.GET("/variations/:id", handler.GetEbayVariation)
		}

		merchant := v1.Group("/merchant")
		{
			merchant.GET("/item", handler.GetMerchantItem)
			merchant.GET("/:merchant/items/:id", handler.LookupMerchantItem)
		}
	}

	return router
}
