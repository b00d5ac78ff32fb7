package weather_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripforge/internal/config"
	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideWeatherProvider)

func provideWeatherProvider(cfg *config.Config, logger *zap.Logger) services.WeatherProvider {
	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("no OpenWeather API key configured, weather penalties disabled")
		return services.StaticWeatherProvider{}
	}
	return services.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, logger)
}
