package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripforge/internal/config"
	"tripforge/pkg/logger"
)

var Module = fx.Provide(
	provideConfig, provideLogger)

func provideConfig() *config.Config {
	return config.Load()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	return logger.New(level)
}
