package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/pkg/utils"
)

const (
	minDays      = 1
	maxDays      = 10
	minPerDay    = 1
	maxPerDayCap = 10

	// underfillRatio triggers the corrective refill pass.
	underfillRatio = 0.6

	// scorePoolSize caps how many scored POIs per category feed the
	// allocator each day.
	scorePoolSize = 30
)

type ItineraryServiceInterface interface {
	Build(ctx context.Context, params request_models.TripParams) (*response_models.Itinerary, error)
	Recommend(ctx context.Context, req request_models.RecommendRequest) ([]response_models.ItineraryPOI, error)
}

type itineraryService struct {
	catalog   CatalogServiceInterface
	scorer    POIScorerInterface
	allocator DailyAllocatorInterface
	sequencer RouteSequencerInterface
	weather   WeatherProvider
	logger    *zap.Logger
}

func NewItineraryService(
	catalog CatalogServiceInterface,
	scorer POIScorerInterface,
	allocator DailyAllocatorInterface,
	sequencer RouteSequencerInterface,
	weather WeatherProvider,
	logger *zap.Logger,
) ItineraryServiceInterface {
	return &itineraryService{
		catalog:   catalog,
		scorer:    scorer,
		allocator: allocator,
		sequencer: sequencer,
		weather:   weather,
		logger:    logger,
	}
}

func validateTripParams(params request_models.TripParams) error {
	if strings.TrimSpace(params.City) == "" {
		return utils.ErrInvalidInput
	}
	if params.Days < minDays || params.Days > maxDays {
		return utils.ErrInvalidDays
	}
	if params.BudgetPerDay <= 0 {
		return utils.ErrInvalidBudget
	}
	if params.MaxPOIPerDay < minPerDay || params.MaxPOIPerDay > maxPerDayCap {
		return utils.ErrInvalidMaxPerDay
	}
	switch params.Strategy {
	case "", StrategyMSTPreorder, StrategyNearestNeighbor:
	default:
		return utils.ErrUnknownStrategy
	}
	return nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (s *itineraryService) Build(ctx context.Context, params request_models.TripParams) (*response_models.Itinerary, error) {
	if err := validateTripParams(params); err != nil {
		return nil, err
	}

	pois, err := s.catalog.LoadCity(ctx, params.City)
	if err != nil {
		return nil, err
	}

	rng := newRand(params.Seed)
	weatherDesc := s.weather.Describe(ctx, params.City)
	quota := DeriveDayQuota(params)
	quota.Rand = rng

	used := make(map[string]bool)
	itinerary := &response_models.Itinerary{
		City: params.City,
		Days: make([]response_models.ItineraryDay, 0, params.Days),
	}

	for day := 1; day <= params.Days; day++ {
		pool := s.buildDayPool(pois, params, weatherDesc, rng)

		selected := s.allocator.Allocate(pool, used, quota)
		if len(selected) < int(underfillRatio*float64(params.MaxPOIPerDay)) {
			selected = RefillIgnoringQuota(selected, pool, used, quota)
		}

		dayResult, err := s.sequenceDay(params, selected, weatherDesc, day)
		if err != nil {
			return nil, err
		}
		itinerary.Days = append(itinerary.Days, dayResult)
	}

	s.logger.Info("itinerary built",
		zap.String("city", params.City),
		zap.Int("days", params.Days),
		zap.Int("pois", countPOIs(itinerary)))
	return itinerary, nil
}

// buildDayPool scores each enabled category's candidates and concatenates
// the per-category toplists into one allocator pool.
func (s *itineraryService) buildDayPool(pois []db_models.POI, params request_models.TripParams, weatherDesc string, rng *rand.Rand) []db_models.POI {
	byCat := make(map[db_models.Category][]db_models.POI)
	for _, p := range pois {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	var pool []db_models.POI
	for _, cat := range db_models.AllCategories {
		candidates := byCat[cat]
		if cat == db_models.CategoryShopping && !params.DoShopping {
			continue
		}
		if cat == db_models.CategoryEntertainment && !params.DoEntertainment {
			continue
		}
		if cat == db_models.CategoryAttraction && !params.DoAttraction {
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		qc := QueryContext{
			City:         params.City,
			Query:        strings.Join(params.TasteTags, " ") + " " + strings.Join(params.ActivityTags, " "),
			TasteTags:    params.TasteTags,
			ActivityTags: params.ActivityTags,
			TagFilter:    categoryTagFilter(cat, params),
			BudgetPerDay: params.BudgetPerDay,
			WeatherDesc:  weatherDesc,
			Rand:         rng,
		}
		scored := s.scorer.Score(candidates, qc)
		if len(scored) > scorePoolSize {
			scored = scored[:scorePoolSize]
		}
		pool = append(pool, scored...)
	}
	return pool
}

func categoryTagFilter(cat db_models.Category, params request_models.TripParams) []string {
	switch cat {
	case db_models.CategoryShopping:
		return params.ShoppingTags
	case db_models.CategoryEntertainment:
		return params.EntertainmentTags
	case db_models.CategoryAttraction:
		return params.AttractionTags
	case db_models.CategoryFood, db_models.CategoryCafe:
		return params.TasteTags
	}
	return nil
}

func (s *itineraryService) sequenceDay(params request_models.TripParams, selected []db_models.POI, weatherDesc string, day int) (response_models.ItineraryDay, error) {
	result := response_models.ItineraryDay{
		Day:            day,
		POIs:           make([]response_models.ItineraryPOI, 0, len(selected)),
		WeatherContext: weatherDesc,
	}

	if len(selected) < 2 {
		for _, p := range selected {
			result.POIs = append(result.POIs, response_models.FromPOI(p))
		}
		return result, nil
	}

	order, legs, total, err := s.sequencer.Sequence(params.City, selected, params.Strategy)
	if err != nil {
		return response_models.ItineraryDay{}, err
	}

	for i, idx := range order {
		poi := response_models.FromPOI(selected[idx])
		if i < len(legs) {
			leg := legs[i]
			poi.NextDistanceKm = &leg
		}
		result.POIs = append(result.POIs, poi)
	}
	result.TotalDistanceKm = total
	return result, nil
}

func countPOIs(it *response_models.Itinerary) int {
	n := 0
	for _, d := range it.Days {
		n += len(d.POIs)
	}
	return n
}

func (s *itineraryService) Recommend(ctx context.Context, req request_models.RecommendRequest) ([]response_models.ItineraryPOI, error) {
	if strings.TrimSpace(req.City) == "" {
		return nil, utils.ErrInvalidInput
	}
	cat := db_models.CanonicalCategory(req.Category)

	pois, err := s.catalog.LoadCategory(ctx, req.City, cat)
	if err != nil {
		return nil, err
	}

	qc := QueryContext{
		City:         req.City,
		Query:        req.Query,
		TasteTags:    req.TasteTags,
		ActivityTags: req.ActivityTags,
		TagFilter:    req.TagFilter,
		BudgetPerDay: req.BudgetPerDay,
		Rand:         newRand(req.Seed),
	}
	scored := s.scorer.Score(pois, qc)

	topK := req.TopK
	if topK <= 0 || topK > len(scored) {
		topK = len(scored)
	}
	out := make([]response_models.ItineraryPOI, 0, topK)
	for _, p := range scored[:topK] {
		out = append(out, response_models.FromPOI(p))
	}
	return out, nil
}
