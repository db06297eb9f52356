package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything route registration needs
type Dependencies struct {
	JWTService       *auth.JWTService
	SystemHandler    *handler.SystemHandler
	RecurringHandler *handler.RecurringExpenseHandler
	Logger           *zap.Logger
	CORS             middleware.CORSConfig

	// MaxBodySize caps request bodies; zero disables the limit
	MaxBodySize int64
	// RateLimiter applies per-client-IP rate limiting when non-nil
	RateLimiter *middleware.RateLimiter
}

// SetupEngine builds the gin engine with the full middleware chain and all
// API routes registered.
func SetupEngine(deps Dependencies) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.CORSWithConfig(deps.CORS))
	engine.Use(middleware.Secure())
	if deps.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.MaxBodySize))
	}
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
	}

	// Health probes sit outside the versioned API group and need no auth
	engine.GET("/health", deps.SystemHandler.Health)
	engine.GET("/healthz", deps.SystemHandler.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTService))

	recurring := api.Group("/recurring-expenses")
	{
		recurring.GET("", deps.RecurringHandler.ListTemplates)
		recurring.GET("/:id", deps.RecurringHandler.GetTemplate)
		recurring.PUT("/:id", deps.RecurringHandler.UpdateTemplate)
		recurring.POST("/:id/stop", deps.RecurringHandler.StopTemplate)
		recurring.POST("/run", deps.RecurringHandler.RunGeneration)
	}

	system := api.Group("/system")
	{
		system.GET("/info", deps.SystemHandler.GetSystemInfo)
	}

	return engine
}
