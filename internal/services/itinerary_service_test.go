package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

// saigonRecords builds a synthetic but realistic catalog: plenty of food,
// cafes, attractions, entertainment and shopping, all geotagged around the
// city center.
func saigonRecords() []db_models.POIRecord {
	var records []db_models.POIRecord
	add := func(category string, n int, baseLat float64) {
		for i := 0; i < n; i++ {
			records = append(records, db_models.POIRecord{
				City:     "Saigon",
				Name:     fmt.Sprintf("%s place %d", category, i),
				Category: category,
				Tag:      "local, popular",
				Lat:      fmt.Sprintf("%.4f", baseLat+float64(i)*0.002),
				Lon:      fmt.Sprintf("%.4f", 106.70+float64(i)*0.002),
				AvgCost:  "100000",
				Rating:   "4.2",
				PlaceID:  fmt.Sprintf("%s-%d", category, i),
			})
		}
	}
	add("restaurant", 15, 10.76)
	add("cafe", 8, 10.78)
	add("museum", 12, 10.80)
	add("cinema", 8, 10.82)
	add("market", 6, 10.84)
	return records
}

func testItineraryService(records []db_models.POIRecord) ItineraryServiceInterface {
	log := zap.NewNop()
	catalog := NewCatalogService(repositories.NewMemoryCatalog(records), log)
	oracle := NewDistanceOracle(repositories.NewStaticGraphSource(nil), log)
	return NewItineraryService(
		catalog,
		NewPOIScorer(log),
		NewDailyAllocator(log),
		NewRouteSequencer(oracle, log),
		StaticWeatherProvider{},
		log,
	)
}

func baseParams() request_models.TripParams {
	return request_models.TripParams{
		City:            "Saigon",
		Days:            3,
		BudgetPerDay:    300000,
		MaxPOIPerDay:    6,
		DoAttraction:    true,
		DoEntertainment: true,
		DoShopping:      true,
		Seed:            42,
	}
}

func TestBuildValidation(t *testing.T) {
	svc := testItineraryService(saigonRecords())
	ctx := context.Background()

	params := baseParams()
	params.Days = 0
	_, err := svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrInvalidDays)

	params = baseParams()
	params.Days = 11
	_, err = svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrInvalidDays)

	params = baseParams()
	params.BudgetPerDay = -5
	_, err = svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrInvalidBudget)

	params = baseParams()
	params.MaxPOIPerDay = 0
	_, err = svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrInvalidMaxPerDay)

	params = baseParams()
	params.City = "  "
	_, err = svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	params = baseParams()
	params.Strategy = "quantum"
	_, err = svc.Build(ctx, params)
	assert.ErrorIs(t, err, utils.ErrUnknownStrategy)
}

func TestBuildNoDuplicatesAcrossDays(t *testing.T) {
	svc := testItineraryService(saigonRecords())

	itinerary, err := svc.Build(context.Background(), baseParams())
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 3)

	seen := make(map[string]bool)
	for _, day := range itinerary.Days {
		for _, p := range day.POIs {
			poi := db_models.POI{Name: p.Name, Lat: p.Lat, Lon: p.Lon, PlaceID: "", Category: db_models.Category(p.Category)}
			key := poi.UniqueKey()
			assert.False(t, seen[key], "POI %q appears twice", p.Name)
			seen[key] = true
		}
	}
}

func TestBuildDayShape(t *testing.T) {
	svc := testItineraryService(saigonRecords())

	itinerary, err := svc.Build(context.Background(), baseParams())
	require.NoError(t, err)
	assert.Equal(t, "Saigon", itinerary.City)

	for _, day := range itinerary.Days {
		require.NotEmpty(t, day.POIs)
		assert.LessOrEqual(t, len(day.POIs), 6)
		assert.GreaterOrEqual(t, day.TotalDistanceKm, 0.0)

		foodish := 0
		for i, p := range day.POIs {
			if p.Category == string(db_models.CategoryFood) || p.Category == string(db_models.CategoryCafe) {
				foodish++
			}
			if i < len(day.POIs)-1 {
				require.NotNil(t, p.NextDistanceKm, "every POI but the last carries a leg distance")
				assert.GreaterOrEqual(t, *p.NextDistanceKm, 0.0)
			} else {
				assert.Nil(t, p.NextDistanceKm)
			}
		}
		assert.GreaterOrEqual(t, foodish, 2, "food floor holds")
	}
}

func TestBuildSeededRunsAreReproducible(t *testing.T) {
	svc := testItineraryService(saigonRecords())

	first, err := svc.Build(context.Background(), baseParams())
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), baseParams())
	require.NoError(t, err)

	require.Equal(t, len(first.Days), len(second.Days))
	for i := range first.Days {
		require.Equal(t, len(first.Days[i].POIs), len(second.Days[i].POIs))
		for j := range first.Days[i].POIs {
			assert.Equal(t, first.Days[i].POIs[j].Name, second.Days[i].POIs[j].Name)
		}
	}
}

func TestBuildSparseCatalogDegradesGracefully(t *testing.T) {
	records := []db_models.POIRecord{
		{City: "Saigon", Name: "Only Restaurant", Category: "restaurant", Lat: "10.77", Lon: "106.70", PlaceID: "r1"},
		{City: "Saigon", Name: "Only Cafe", Category: "cafe", Lat: "10.78", Lon: "106.71", PlaceID: "c1"},
		{City: "Saigon", Name: "Only Museum", Category: "museum", PlaceID: "m1"},
	}
	svc := testItineraryService(records)

	params := baseParams()
	params.Days = 2
	itinerary, err := svc.Build(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 2)

	assert.NotEmpty(t, itinerary.Days[0].POIs, "short day over a failed build")
	assert.LessOrEqual(t, len(itinerary.Days[1].POIs), 1, "the pool is exhausted after day one")
}

func TestBuildRespectsCategoryToggles(t *testing.T) {
	svc := testItineraryService(saigonRecords())

	params := baseParams()
	params.Days = 1
	params.DoAttraction = false
	params.DoEntertainment = false
	params.DoShopping = false

	itinerary, err := svc.Build(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, itinerary.Days, 1)
	require.NotEmpty(t, itinerary.Days[0].POIs)

	for _, p := range itinerary.Days[0].POIs {
		assert.Contains(t,
			[]string{string(db_models.CategoryFood), string(db_models.CategoryCafe)},
			p.Category,
			"disabled categories stay out of the day")
	}
}

func TestBuildWeatherContextAttached(t *testing.T) {
	log := zap.NewNop()
	catalog := NewCatalogService(repositories.NewMemoryCatalog(saigonRecords()), log)
	oracle := NewDistanceOracle(repositories.NewStaticGraphSource(nil), log)
	svc := NewItineraryService(
		catalog,
		NewPOIScorer(log),
		NewDailyAllocator(log),
		NewRouteSequencer(oracle, log),
		StaticWeatherProvider{Desc: "light rain, 27°C"},
		log,
	)

	itinerary, err := svc.Build(context.Background(), baseParams())
	require.NoError(t, err)
	for _, day := range itinerary.Days {
		assert.Equal(t, "light rain, 27°C", day.WeatherContext)
	}
}

func TestRecommend(t *testing.T) {
	svc := testItineraryService(saigonRecords())

	req := request_models.RecommendRequest{
		City:         "Saigon",
		Category:     "restaurant",
		Query:        "local food",
		BudgetPerDay: 300000,
		TopK:         5,
		Seed:         7,
	}
	pois, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, pois, 5)
	for i := 1; i < len(pois); i++ {
		assert.GreaterOrEqual(t, pois[i-1].FinalScore, pois[i].FinalScore)
	}
	for _, p := range pois {
		assert.Equal(t, string(db_models.CategoryFood), p.Category)
	}

	req.City = ""
	_, err = svc.Recommend(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
