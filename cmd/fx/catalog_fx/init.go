package catalog_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripforge/internal/repositories"
	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideCatalogRepo, provideCatalogService)

func provideCatalogRepo(db *gorm.DB) repositories.POICatalog {
	return repositories.NewPOICatalog(db)
}

func provideCatalogService(catalog repositories.POICatalog, logger *zap.Logger) services.CatalogServiceInterface {
	return services.NewCatalogService(catalog, logger)
}
