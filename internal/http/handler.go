package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stormlab/geomag-api/internal/domain"
	"github.com/stormlab/geomag-api/internal/usecase"
)

// Default grid resolution for synthesized forecast products.
const (
	DefaultMLTSteps    = 24
	DefaultColatSteps  = 20
	DefaultMaxColatDeg = 50.0
)

// Handler handles HTTP requests for field forecasts.
type Handler struct {
	forecastUC *usecase.ForecastUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(forecastUC *usecase.ForecastUseCase) *Handler {
	return &Handler{
		forecastUC: forecastUC,
	}
}

// gridParams parses the shared grid resolution query parameters.
func gridParams(c *gin.Context) (mltSteps, colatSteps int, maxColat float64, err error) {
	mltSteps = DefaultMLTSteps
	colatSteps = DefaultColatSteps
	maxColatDeg := DefaultMaxColatDeg

	if s := c.Query("mlt_steps"); s != "" {
		mltSteps, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid mlt_steps: %v", err)
		}
	}
	if s := c.Query("colat_steps"); s != "" {
		colatSteps, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid colat_steps: %v", err)
		}
	}
	if s := c.Query("max_colat_deg"); s != "" {
		maxColatDeg, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid max_colat_deg: %v", err)
		}
	}
	return mltSteps, colatSteps, domain.Deg2Rad(maxColatDeg), nil
}

// forecastParams parses the component and time query parameters.
func (h *Handler) forecastParams(c *gin.Context) (component string, at time.Time, err error) {
	component = c.Query("component")
	if component == "" {
		return "", time.Time{}, fmt.Errorf("component parameter is required")
	}

	timeStr := c.Query("time")
	if timeStr == "" {
		return "", time.Time{}, fmt.Errorf("time parameter is required")
	}
	at, err = time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid time (expected RFC3339): %v", err)
	}
	return component, at.UTC(), nil
}

// GetGridForecast handles GET /v1/forecast/grid.
func (h *Handler) GetGridForecast(c *gin.Context) {
	component, at, err := h.forecastParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mltSteps, colatSteps, maxColat, err := gridParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	forecast, err := h.forecastUC.Grid(component, at, mltSteps, colatSteps, maxColat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// GetPointForecast handles GET /v1/forecast/point.
func (h *Handler) GetPointForecast(c *gin.Context) {
	component, at, err := h.forecastParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mltStr := c.Query("mlt_hours")
	colatStr := c.Query("colat_deg")
	if mltStr == "" || colatStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mlt_hours and colat_deg parameters are required"})
		return
	}
	mltHours, err := strconv.ParseFloat(mltStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid mlt_hours: %v", err)})
		return
	}
	colatDeg, err := strconv.ParseFloat(colatStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid colat_deg: %v", err)})
		return
	}
	mltSteps, colatSteps, maxColat, err := gridParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	forecast, err := h.forecastUC.Point(component, at,
		domain.MLTToRadians(mltHours), domain.Deg2Rad(colatDeg),
		mltSteps, colatSteps, maxColat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// GetComponents handles GET /v1/components.
func (h *Handler) GetComponents(c *gin.Context) {
	first, last := h.forecastUC.TimeRange()

	c.JSON(http.StatusOK, gin.H{
		"components": h.forecastUC.Components(),
		"scalers":    h.forecastUC.Scalers(),
		"nmax":       h.forecastUC.Nmax(),
		"start":      first.UTC().Format(time.RFC3339),
		"end":        last.UTC().Format(time.RFC3339),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
