package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skygate/internal/interface/middleware"
	"skygate/pkg/geo"
	"skygate/pkg/response"
	"skygate/pkg/weather"
)

// WeatherHandler serves the authenticated enrichment endpoint: it maps
// the signed-in user's stored location to a provider query and returns
// profile plus current conditions in one payload.
type WeatherHandler struct {
	Weather *weather.Client
	Logger  *logrus.Logger
}

func NewWeatherHandler(client *weather.Client, logger *logrus.Logger) *WeatherHandler {
	return &WeatherHandler{Weather: client, Logger: logger}
}

// Current implements GET /weather. The gate has already authenticated
// the request; anything missing beyond that point is a data problem,
// not an auth problem.
func (h *WeatherHandler) Current(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
		c.JSON(resp.Status, resp)
		return
	}

	code, err := geo.CountryCode(u.Country)
	if err != nil || u.City == "" {
		if err != nil && !errors.Is(err, geo.ErrUnknownCountry) {
			h.Logger.WithError(err).Error("country resolution failed")
		}
		resp := response.Error[any](c, http.StatusBadRequest, "Invalid country/location data", nil)
		c.JSON(resp.Status, resp)
		return
	}

	// US profiles render Fahrenheit; ask the provider for matching units.
	fahrenheit := code == "US"
	units := weather.UnitsMetric
	if fahrenheit {
		units = weather.UnitsImperial
	}

	report, err := h.Weather.Current(c.Request.Context(), u.City, code, units)
	if err != nil {
		h.Logger.WithError(err).Error("weather lookup failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "weather service unavailable", nil)
		c.JSON(resp.Status, resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userData": gin.H{
			"firstName":  u.FirstName,
			"lastName":   u.LastName,
			"city":       u.City,
			"country":    geo.NormalizeCountry(u.Country),
			"fahrenheit": fahrenheit,
		},
		"weatherData": report,
	})
}
