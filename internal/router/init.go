package router

import (
	"skygate/internal/application"
	"skygate/internal/container"
	pginfra "skygate/internal/infrastructure/postgres"
	handlers "skygate/internal/interface/http"
	"skygate/internal/interface/middleware"
	"skygate/internal/router/modules"
	"skygate/internal/session"
	"skygate/pkg/helpers"
	"skygate/pkg/weather"
)

// InitModules wires repositories, services, the session manager and the
// access gate, then registers the feature modules. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	sessions := session.NewManager(session.NewRedisStore(container.GetRedis()), cfg.SessionTTL)
	cookies := helpers.NewCookie(cfg.SessionCookieName, cfg.CookieDomain, cfg.CookieSecure)
	gate := middleware.NewGate(sessions, users, cookies, logger)

	authSvc := application.NewAuthService(users, logger, cfg.LoginEmailFallback, cfg.RegisterUniqueEmail)
	authHandler := handlers.NewAuthHandler(authSvc, sessions, cookies, logger, container.GetRabbitPub(), cfg.WebDir)

	weatherClient := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey)
	weatherHandler := handlers.NewWeatherHandler(weatherClient, logger)

	r.Add(modules.NewAuthModule(authHandler, gate, cfg.WebDir))
	r.Add(modules.NewWeatherModule(weatherHandler, gate))
}
