package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideScorer, provideAllocator, provideItineraryService)

func provideScorer(logger *zap.Logger) services.POIScorerInterface {
	return services.NewPOIScorer(logger)
}

func provideAllocator(logger *zap.Logger) services.DailyAllocatorInterface {
	return services.NewDailyAllocator(logger)
}

func provideItineraryService(
	catalog services.CatalogServiceInterface,
	scorer services.POIScorerInterface,
	allocator services.DailyAllocatorInterface,
	sequencer services.RouteSequencerInterface,
	weather services.WeatherProvider,
	logger *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(catalog, scorer, allocator, sequencer, weather, logger)
}
