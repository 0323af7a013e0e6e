package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		extract := v1.Group("/extract")
		{
			extract.POST("", handler.Extract)
			extract.POST("/live", handler.ExtractLive)
		}

		v1.POST("/split", handler.Split)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handler.CreateSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.DELETE("/:id", handler.DeleteSession)
			sessions.PUT("/:id/tax", handler.SetTaxRate)

			items := sessions.Group("/:id/items/:index")
			{
				items.POST("/toggle", handler.TogglePerson)
				items.POST("/assign", handler.AssignOnly)
				items.POST("/assign-all", handler.AssignEveryone)
			}
		}
	}

	return router
}
