package response_models

import "tripforge/internal/models/db_models"

type ItineraryPOI struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
	Description    string   `json:"description,omitempty"`
	Address        string   `json:"address,omitempty"`
	City           string   `json:"city,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
	AvgCost        *float64 `json:"avg_cost,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ImageURL1      string   `json:"image_url1,omitempty"`
	ImageURL2      string   `json:"image_url2,omitempty"`
	ApproxLocation bool     `json:"approx_location,omitempty"`
	FinalScore     float64  `json:"final_score"`

	// NextDistanceKm is the distance to the next POI in visiting order,
	// omitted on the last POI of a day.
	NextDistanceKm *float64 `json:"next_distance_km,omitempty"`
}

type ItineraryDay struct {
	Day             int            `json:"day"`
	POIs            []ItineraryPOI `json:"pois"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	WeatherContext  string         `json:"weather_context,omitempty"`
}

type Itinerary struct {
	City string         `json:"city"`
	Days []ItineraryDay `json:"days"`
}

// FromPOI converts a scored domain POI to its transport form.
func FromPOI(p db_models.POI) ItineraryPOI {
	return ItineraryPOI{
		Name:           p.Name,
		Category:       string(p.Category),
		Tags:           p.Tags,
		Description:    p.Description,
		Address:        p.Address,
		City:           p.City,
		Lat:            p.Lat,
		Lon:            p.Lon,
		AvgCost:        p.AvgCost,
		Rating:         p.Rating,
		ImageURL1:      p.ImageURL1,
		ImageURL2:      p.ImageURL2,
		ApproxLocation: p.ApproxLocation,
		FinalScore:     p.FinalScore,
	}
}
