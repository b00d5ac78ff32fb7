package controllers_fx

import (
	"go.uber.org/fx"

	"tripforge/internal/api/controllers"
	"tripforge/internal/services"
)

var Module = fx.Provide(
	provideItineraryController, providePOIController)

func provideItineraryController(itineraryService services.ItineraryServiceInterface) *controllers.ItineraryController {
	return controllers.NewItineraryController(itineraryService)
}

func providePOIController(itineraryService services.ItineraryServiceInterface) *controllers.POIController {
	return controllers.NewPOIController(itineraryService)
}
