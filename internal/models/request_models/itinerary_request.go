package request_models

// TripParams is the configuration for one itinerary build.
type TripParams struct {
	City         string  `json:"city" binding:"required"`
	Days         int     `json:"days"`
	BudgetPerDay float64 `json:"budget_per_day"`
	MaxPOIPerDay int     `json:"max_poi_per_day"`

	TasteTags    []string `json:"taste_tags"`
	ActivityTags []string `json:"activity_tags"`

	DoShopping      bool `json:"do_shopping"`
	DoEntertainment bool `json:"do_entertainment"`
	DoAttraction    bool `json:"do_attraction"`

	ShoppingTags      []string `json:"shopping_tags"`
	EntertainmentTags []string `json:"entertainment_tags"`
	AttractionTags    []string `json:"attraction_tags"`

	// WalkToleranceKm is advisory for now, reserved for route-length capping.
	WalkToleranceKm float64 `json:"walk_tolerance_km"`

	// Strategy selects the sequencing heuristic: "mst_preorder" (default)
	// or "nearest_neighbor".
	Strategy string `json:"strategy"`

	// Seed fixes the random source for reproducible selection; 0 means
	// seed from the clock.
	Seed int64 `json:"seed"`
}

// RecommendRequest asks for a scored ranking of one category pool.
type RecommendRequest struct {
	City         string   `json:"city" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Query        string   `json:"query"`
	TasteTags    []string `json:"taste_tags"`
	ActivityTags []string `json:"activity_tags"`
	TagFilter    []string `json:"tag_filter"`
	BudgetPerDay float64  `json:"budget_per_day"`
	TopK         int      `json:"top_k"`
	Seed         int64    `json:"seed"`
}
