package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(RequestLogger(logger))

	// Health check
	router.GET("/health-check", handler.HealthCheck)

	// Aggregation
	router.GET("/aggregate", handler.GetAggregate)

	return router
}
