package distance_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripforge/internal/config"
	"tripforge/internal/repositories"
	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideGraphSource, provideDistanceOracle, provideRouteSequencer)

func provideGraphSource(cfg *config.Config) repositories.GraphSource {
	return repositories.NewFileGraphSource(cfg.GraphDataDir)
}

func provideDistanceOracle(source repositories.GraphSource, logger *zap.Logger) services.DistanceOracleInterface {
	return services.NewDistanceOracle(source, logger)
}

func provideRouteSequencer(oracle services.DistanceOracleInterface, logger *zap.Logger) services.RouteSequencerInterface {
	return services.NewRouteSequencer(oracle, logger)
}
