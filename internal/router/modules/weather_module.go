package modules

import (
	"github.com/gin-gonic/gin"

	handlers "skygate/internal/interface/http"
	"skygate/internal/interface/middleware"
)

// WeatherModule registers the authenticated enrichment endpoint. It is
// gated as an API route: unauthenticated callers get 401, not a redirect.
type WeatherModule struct {
	Handler *handlers.WeatherHandler
	Gate    *middleware.Gate
}

func NewWeatherModule(h *handlers.WeatherHandler, gate *middleware.Gate) *WeatherModule {
	return &WeatherModule{Handler: h, Gate: gate}
}

func (m *WeatherModule) Register(rg *gin.RouterGroup) {
	api := rg.Group("/")
	api.Use(m.Gate.Require(middleware.KindAPI))
	{
		api.GET("/weather", m.Handler.Current)
	}
}
