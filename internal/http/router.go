// Package http exposes the loaded forecast run over a JSON API.
package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stormlab/geomag-api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(forecastUC *usecase.ForecastUseCase) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(forecastUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	// Field forecasts.
	forecast := v1.Group("/forecast")
	forecast.GET("/grid", handler.GetGridForecast)
	forecast.GET("/point", handler.GetPointForecast)

	// Served components.
	v1.GET("/components", handler.GetComponents)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
