package weather

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/lookup"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

const timeoutDuration = 10 * time.Second

type lookupService interface {
	Current(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.CurrentResult, error)
	Forecast(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.ForecastResult, error)
}

type forecastDay struct {
	models.ForecastDay
	Description string `json:"description"`
}

type forecastResponse struct {
	City       string            `json:"city"`
	Coordinate models.Coordinate `json:"coordinate"`
	Days       []forecastDay     `json:"days"`
}

type Handler struct {
	service lookupService
}

func NewHandler(svc lookupService) *Handler {
	return &Handler{service: svc}
}

// GetCurrent handles GET /api/weather/current?city={city}&match={strict|loose}.
func (h *Handler) GetCurrent(c *gin.Context) {
	req, policy, ok := bindRequest(c)
	if !ok {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.service.Current(ctxWithTimeout, req.City, policy)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetForecast handles GET /api/weather/forecast?city={city}&match={strict|loose}.
func (h *Handler) GetForecast(c *gin.Context) {
	req, policy, ok := bindRequest(c)
	if !ok {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	data, err := h.service.Forecast(ctxWithTimeout, req.City, policy)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := forecastResponse{
		City:       data.City,
		Coordinate: data.Coordinate,
		Days:       make([]forecastDay, 0, len(data.Days)),
	}
	for _, d := range data.Days {
		resp.Days = append(resp.Days, forecastDay{ForecastDay: d, Description: serviceWeather.Describe(d.WeatherCode)})
	}

	c.JSON(http.StatusOK, resp)
}

func bindRequest(c *gin.Context) (models.LookupRequest, geocoding.MatchPolicy, bool) {
	var req models.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return models.LookupRequest{}, "", false
	}

	policy, err := geocoding.ParseOverride(req.Match)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match must be either strict or loose"})
		return models.LookupRequest{}, "", false
	}
	return req, policy, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(lookup.Classify(err)), gin.H{"error": lookup.UserMessage(err)})
}

func statusFor(kind lookup.Kind) int {
	switch kind {
	case lookup.KindEmptyInput:
		return http.StatusBadRequest
	case lookup.KindLocationNotFound:
		return http.StatusNotFound
	case lookup.KindResolutionTransport,
		lookup.KindForecastTransport,
		lookup.KindNoCurrentData,
		lookup.KindIncompleteForecast:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
