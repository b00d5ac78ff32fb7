package db_models

import (
	"fmt"
	"strings"

	"tripforge/pkg/utils"
)

// Category is the canonical POI category set. Free-form source strings are
// folded into it by CanonicalCategory.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryCafe          Category = "cafe"
	CategoryEntertainment Category = "entertainment"
	CategoryAttraction    Category = "attraction"
	CategoryShopping      Category = "shopping"
	CategoryUnknown       Category = "unknown"
)

// AllCategories lists the selectable categories in allocation order.
var AllCategories = []Category{
	CategoryFood,
	CategoryCafe,
	CategoryAttraction,
	CategoryEntertainment,
	CategoryShopping,
}

var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFood, []string{"restaurant", "eatery", "food"}},
	{CategoryCafe, []string{"cafe", "coffee"}},
	{CategoryEntertainment, []string{"entertainment", "theater", "cinema", "amusement", "game", "arcade"}},
	{CategoryAttraction, []string{"attraction", "museum", "landmark", "park", "sightseeing", "temple", "church", "beach"}},
	{CategoryShopping, []string{"shopping", "mall", "market", "boutique", "store"}},
}

// CanonicalCategory maps a free-form category string onto the canonical set
// by keyword matching, defaulting to unknown.
func CanonicalCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))
	switch Category(c) {
	case CategoryFood, CategoryCafe, CategoryEntertainment, CategoryAttraction, CategoryShopping, CategoryUnknown:
		return Category(c)
	}
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(c, kw) {
				return entry.category
			}
		}
	}
	return CategoryUnknown
}

// POI is the canonical, sanitized point of interest the planning core works
// on. It is a read-only input for one itinerary build: the scorer hands back
// scored copies and never mutates the catalog's slice.
type POI struct {
	Name        string
	Category    Category
	Tags        []string
	RawTag      string
	Description string
	Address     string
	City        string
	PlaceID     string
	ImageURL1   string
	ImageURL2   string

	Lat     *float64
	Lon     *float64
	AvgCost *float64
	Rating  *float64

	// ApproxLocation marks coordinates synthesized around a day centroid
	// when the dataset was too sparse to meet the geotag floor. Never
	// ground truth.
	ApproxLocation bool

	// Score-time fields, recomputed per query and never persisted.
	Similarity   float64
	BudgetScore  float64
	WeatherScore float64
	FinalScore   float64
}

func (p *POI) HasCoords() bool {
	return p.Lat != nil && p.Lon != nil && utils.ValidCoordinates(*p.Lat, *p.Lon)
}

func (p *POI) HasImage() bool {
	return strings.HasPrefix(p.ImageURL1, "http://") || strings.HasPrefix(p.ImageURL1, "https://") ||
		strings.HasPrefix(p.ImageURL2, "http://") || strings.HasPrefix(p.ImageURL2, "https://")
}

// UniqueKey fingerprints the real-world place: normalized name slug plus
// coordinates quantized to a 0.001 degree grid plus the external id. Two POIs
// with the same key are the same place and must never both appear in one
// itinerary.
func (p *POI) UniqueKey() string {
	lat, lon := "?", "?"
	if p.HasCoords() {
		lat = fmt.Sprintf("%.3f", *p.Lat)
		lon = fmt.Sprintf("%.3f", *p.Lon)
	}
	return utils.Slugify(p.Name) + "@" + lat + "," + lon + "#" + p.PlaceID
}
