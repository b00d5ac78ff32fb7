package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripforge/internal/models/request_models"
	"tripforge/internal/services"
	"tripforge/pkg/utils"
)

type POIController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewPOIController(itineraryService services.ItineraryServiceInterface) *POIController {
	return &POIController{
		itineraryService: itineraryService,
	}
}

func (pc *POIController) RecommendPOIs(c *gin.Context) {
	var req request_models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pois, err := pc.itineraryService.Recommend(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, pois, "POIs ranked successfully")
}
