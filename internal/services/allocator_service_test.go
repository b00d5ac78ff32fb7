package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
)

func testAllocator() DailyAllocatorInterface {
	return NewDailyAllocator(zap.NewNop())
}

// makePool builds n geotagged POIs of one category with descending scores.
func makePool(cat db_models.Category, n int, baseLat float64) []db_models.POI {
	pois := make([]db_models.POI, 0, n)
	for i := 0; i < n; i++ {
		lat := baseLat + float64(i)*0.01
		lon := 106.70 + float64(i)*0.01
		pois = append(pois, db_models.POI{
			Name:       fmt.Sprintf("%s-%d", cat, i),
			Category:   cat,
			PlaceID:    fmt.Sprintf("%s-%d", cat, i),
			Lat:        &lat,
			Lon:        &lon,
			FinalScore: 1.0 - float64(i)*0.01,
		})
	}
	return pois
}

func TestAllocateExactQuota(t *testing.T) {
	pool := append(makePool(db_models.CategoryFood, 10, 10.70),
		append(makePool(db_models.CategoryCafe, 5, 10.80),
			makePool(db_models.CategoryAttraction, 8, 10.90)...)...)

	quota := DayQuota{
		Targets: map[db_models.Category]int{
			db_models.CategoryFood:       2,
			db_models.CategoryCafe:       1,
			db_models.CategoryAttraction: 3,
		},
		MaxPerDay: 6,
	}
	used := make(map[string]bool)
	selected := testAllocator().Allocate(pool, used, quota)

	require.Len(t, selected, 6)
	counts := map[db_models.Category]int{}
	seen := map[string]bool{}
	for _, p := range selected {
		counts[p.Category]++
		key := p.UniqueKey()
		assert.False(t, seen[key], "no repeats within a day")
		seen[key] = true
	}
	assert.Equal(t, 2, counts[db_models.CategoryFood])
	assert.Equal(t, 1, counts[db_models.CategoryCafe])
	assert.Equal(t, 3, counts[db_models.CategoryAttraction])
}

func TestAllocateUsedKeysMonotonic(t *testing.T) {
	pool := makePool(db_models.CategoryFood, 6, 10.70)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryFood: 3},
		MaxPerDay: 3,
	}

	used := make(map[string]bool)
	first := testAllocator().Allocate(pool, used, quota)
	require.Len(t, first, 3)
	burned := len(used)

	second := testAllocator().Allocate(pool, used, quota)
	require.Len(t, second, 3)
	assert.GreaterOrEqual(t, len(used), burned, "used keys only grow")

	seen := map[string]bool{}
	for _, p := range append(first, second...) {
		key := p.UniqueKey()
		assert.False(t, seen[key], "no POI booked twice across days")
		seen[key] = true
	}
}

func TestAllocateFoodFloor(t *testing.T) {
	// Attraction-heavy quota but the day must still end with 2 food/cafe.
	pool := append(makePool(db_models.CategoryFood, 4, 10.70),
		makePool(db_models.CategoryAttraction, 8, 10.90)...)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryAttraction: 4},
		MaxPerDay: 4,
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)

	foodish := 0
	for _, p := range selected {
		if p.Category == db_models.CategoryFood || p.Category == db_models.CategoryCafe {
			foodish++
		}
	}
	assert.GreaterOrEqual(t, foodish, 2)
	assert.LessOrEqual(t, len(selected), 4)
}

func TestAllocateFoodCeilingFullMix(t *testing.T) {
	pool := append(makePool(db_models.CategoryFood, 10, 10.70),
		append(makePool(db_models.CategoryCafe, 5, 10.80),
			append(makePool(db_models.CategoryAttraction, 8, 10.90),
				makePool(db_models.CategoryShopping, 4, 11.00)...)...)...)

	quota := DayQuota{
		Targets: map[db_models.Category]int{
			db_models.CategoryFood: 5,
			db_models.CategoryCafe: 2,
		},
		MaxPerDay: 8,
		FullMix:   true,
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)

	foodish := 0
	for _, p := range selected {
		if p.Category == db_models.CategoryFood || p.Category == db_models.CategoryCafe {
			foodish++
		}
	}
	ceiling := quota.FoodCeiling() // 40% of 8 = 3
	assert.LessOrEqual(t, foodish, ceiling)
	assert.GreaterOrEqual(t, foodish, 2)
}

func TestAllocateShortPoolReturnsFewer(t *testing.T) {
	pool := makePool(db_models.CategoryFood, 2, 10.70)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryFood: 2},
		MaxPerDay: 6,
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)
	assert.Len(t, selected, 2, "short days over fabricated entries")
}

func TestAllocatePrefersGeotagged(t *testing.T) {
	geo := makePool(db_models.CategoryFood, 2, 10.70)
	noGeo := []db_models.POI{
		{Name: "no-geo-1", Category: db_models.CategoryFood, PlaceID: "ng1", FinalScore: 2.0},
	}
	pool := append(noGeo, geo...)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryFood: 2},
		MaxPerDay: 2,
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)
	require.Len(t, selected, 2)
	for _, p := range selected {
		assert.True(t, p.HasCoords(), "geotagged candidates win even against higher scores")
	}
}

func TestAllocateJitterSynthesizesCoordinates(t *testing.T) {
	geo := makePool(db_models.CategoryFood, 2, 10.70)
	noGeo := []db_models.POI{
		{Name: "no-geo-1", Category: db_models.CategoryAttraction, PlaceID: "ng1", FinalScore: 0.9},
	}
	pool := append(geo, noGeo...)
	quota := DayQuota{
		Targets: map[db_models.Category]int{
			db_models.CategoryFood:       2,
			db_models.CategoryAttraction: 1,
		},
		MaxPerDay:    3,
		MinGeotagged: 3,
		Rand:         rand.New(rand.NewSource(99)),
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)
	require.Len(t, selected, 3)

	for _, p := range selected {
		require.True(t, p.HasCoords(), "every POI ends up with coordinates")
		if p.Name == "no-geo-1" {
			assert.True(t, p.ApproxLocation)
			assert.InDelta(t, 10.705, *p.Lat, 0.02, "jittered near the day centroid")
		}
	}
}

func TestDeriveDayQuota(t *testing.T) {
	params := request_models.TripParams{
		MaxPOIPerDay:    6,
		DoShopping:      true,
		DoAttraction:    true,
		DoEntertainment: true,
	}
	q := DeriveDayQuota(params)
	assert.Equal(t, 2, q.Targets[db_models.CategoryFood])
	assert.Zero(t, q.Targets[db_models.CategoryCafe], "full-mix ceiling leaves no cafe slot at six per day")
	assert.Equal(t, 1, q.Targets[db_models.CategoryShopping])
	assert.Equal(t, 2, q.Targets[db_models.CategoryAttraction])
	assert.Equal(t, 1, q.Targets[db_models.CategoryEntertainment])
	assert.True(t, q.FullMix)

	params = request_models.TripParams{MaxPOIPerDay: 6, DoAttraction: true}
	q = DeriveDayQuota(params)
	assert.Equal(t, 1, q.Targets[db_models.CategoryCafe])
	assert.Equal(t, 3, q.Targets[db_models.CategoryAttraction])
	assert.Zero(t, q.Targets[db_models.CategoryShopping])
	assert.False(t, q.FullMix)

	params = request_models.TripParams{MaxPOIPerDay: 3}
	q = DeriveDayQuota(params)
	assert.Equal(t, 2, q.Targets[db_models.CategoryFood])
	assert.Zero(t, q.Targets[db_models.CategoryCafe], "small days skip the cafe slot")
}

func TestDeriveDayQuotaTargetsRespectFoodCeiling(t *testing.T) {
	for max := 1; max <= 10; max++ {
		for _, shopping := range []bool{false, true} {
			params := request_models.TripParams{
				MaxPOIPerDay:    max,
				DoShopping:      shopping,
				DoAttraction:    true,
				DoEntertainment: true,
			}
			q := DeriveDayQuota(params)
			foodish := q.Targets[db_models.CategoryFood] + q.Targets[db_models.CategoryCafe]
			assert.LessOrEqual(t, foodish, q.FoodCeiling(),
				"max=%d shopping=%v", max, shopping)
		}
	}

	// A ten-POI full-mix day has ceiling 4, so the cafe slot survives.
	q := DeriveDayQuota(request_models.TripParams{
		MaxPOIPerDay: 10, DoShopping: true, DoAttraction: true,
	})
	assert.Equal(t, 1, q.Targets[db_models.CategoryCafe])
}

func TestAllocateCeilingTrimReleasesKeys(t *testing.T) {
	pool := makePool(db_models.CategoryFood, 3, 10.70)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryFood: 3},
		MaxPerDay: 3,
		FullMix:   true, // ceiling clamps to 2
	}
	used := make(map[string]bool)

	first := testAllocator().Allocate(pool, used, quota)
	require.Len(t, first, 2)
	assert.Len(t, used, 2, "the trimmed draw gives its key back")

	second := testAllocator().Allocate(pool, used, quota)
	require.Len(t, second, 1, "a trimmed POI is still available to later days")

	seen := map[string]bool{}
	for _, p := range append(first, second...) {
		key := p.UniqueKey()
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestAllocateTruncationReleasesKeys(t *testing.T) {
	pool := makePool(db_models.CategoryFood, 3, 10.70)
	quota := DayQuota{
		Targets:   map[db_models.Category]int{db_models.CategoryFood: 3},
		MaxPerDay: 2,
	}
	used := make(map[string]bool)

	first := testAllocator().Allocate(pool, used, quota)
	require.Len(t, first, 2)
	assert.Len(t, used, 2)

	second := testAllocator().Allocate(pool, used, quota)
	require.Len(t, second, 1, "the truncated draw is free for the next day")
	assert.NotContains(t, []string{first[0].PlaceID, first[1].PlaceID}, second[0].PlaceID)
}

func TestEnsureGeotaggedKeepsFoodFloor(t *testing.T) {
	geoFood := makePool(db_models.CategoryFood, 1, 10.70)
	noGeoFood := db_models.POI{
		Name: "hidden-kitchen", Category: db_models.CategoryFood, PlaceID: "hk", FinalScore: 0.95,
	}
	geoAtt := makePool(db_models.CategoryAttraction, 2, 10.90)

	pool := append(append(geoFood, noGeoFood), geoAtt...)
	quota := DayQuota{
		Targets: map[db_models.Category]int{
			db_models.CategoryFood:       2,
			db_models.CategoryAttraction: 1,
		},
		MaxPerDay:    3,
		MinGeotagged: 3,
	}
	selected := testAllocator().Allocate(pool, make(map[string]bool), quota)
	require.Len(t, selected, 3)

	foodish := 0
	for _, p := range selected {
		require.True(t, p.HasCoords())
		if p.Category == db_models.CategoryFood || p.Category == db_models.CategoryCafe {
			foodish++
		}
	}
	assert.GreaterOrEqual(t, foodish, 2,
		"the geotag swap must not trade away the last food entries")
	for _, p := range selected {
		if p.Name == "hidden-kitchen" {
			assert.True(t, p.ApproxLocation, "no geotagged food remains, so coordinates are synthesized")
		}
	}
}
