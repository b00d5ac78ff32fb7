package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripforge/cmd/fx/catalog_fx"
	"tripforge/cmd/fx/config_fx"
	"tripforge/cmd/fx/controllers_fx"
	"tripforge/cmd/fx/db_fx"
	"tripforge/cmd/fx/distance_fx"
	"tripforge/cmd/fx/itinerary_fx"
	"tripforge/cmd/fx/weather_fx"
	"tripforge/internal/api/controllers"
	"tripforge/internal/config"
	"tripforge/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		catalog_fx.Module,
		distance_fx.Module,
		weather_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("port", cfg.Port))
				if err := engine.Run(":" + cfg.Port); err != nil {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	itineraryController *controllers.ItineraryController,
	poiController *controllers.POIController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, itineraryController, poiController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	poiController *controllers.POIController) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/itineraries", itineraryController.BuildItinerary)

	poiGroup := v1.Group("/pois")
	poiGroup.POST("/recommend", poiController.RecommendPOIs)
}
