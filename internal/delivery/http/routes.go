package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kidmeals/backend/config"
	"github.com/kidmeals/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.L().Named("access")
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 && cfg.RateLimit.Burst > 0 {
		v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	}
	{
		foods := v1.Group("/foods")
		{
			foods.GET("", handler.ListFoods)
			foods.GET("/:id", handler.GetFood)
		}

		scores := v1.Group("/scores")
		{
			scores.POST("/nutriscore", handler.ComputeNutriScore)
			scores.POST("/yuka", handler.ComputeYukaScore)
		}

		v1.POST("/additives/extract", handler.ExtractAdditives)

		meals := v1.Group("/meals")
		{
			meals.POST("/nutrition", handler.MealNutrition)
			meals.POST("/daily", handler.DailyNutrition)
			meals.POST("/servings", handler.AdjustServings)
			meals.POST("/toggle", handler.ToggleFood)
			meals.POST("/condiments/toggle", handler.ToggleCondiment)
			meals.POST("/slots/toggle", handler.ToggleSlot)
			meals.POST("/slots/servings", handler.AdjustSlotServings)
		}
	}

	return router
}
