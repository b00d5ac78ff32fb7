package db_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripforge/internal/config"
	"tripforge/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	return infra.InitPostgresql(cfg, logger)
}
