package services

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
)

const (
	defaultMinGeotagged = 3
	jitterDegrees       = 0.005
)

// DayQuota is the per-day selection budget derived from trip preferences.
type DayQuota struct {
	Targets   map[db_models.Category]int
	MaxPerDay int

	// FullMix marks days with shopping plus attraction or entertainment
	// enabled, which tightens the food ceiling.
	FullMix bool

	// MinGeotagged is the minimum number of coordinate-bearing POIs the
	// day must end up with. Zero means the default of 3.
	MinGeotagged int

	// Rand drives centroid jitter for synthesized coordinates. Nil falls
	// back to the process-wide source.
	Rand *rand.Rand
}

// DeriveDayQuota turns trip parameters into category targets. Food always
// gets two slots, cafe one when the day is large enough, shopping one when
// toggled on, and attraction/entertainment split whatever remains. The
// food+cafe targets are capped by the food ceiling up front so the
// allocator never has to trim what derivation promised.
func DeriveDayQuota(params request_models.TripParams) DayQuota {
	max := params.MaxPOIPerDay
	fullMix := params.DoShopping && (params.DoAttraction || params.DoEntertainment)
	targets := make(map[db_models.Category]int, 5)

	targets[db_models.CategoryFood] = 2
	if max >= 4 {
		targets[db_models.CategoryCafe] = 1
	}
	if over := targets[db_models.CategoryFood] + targets[db_models.CategoryCafe] - foodCeilingFor(max, fullMix); over > 0 {
		targets[db_models.CategoryCafe] -= over
		if targets[db_models.CategoryCafe] < 0 {
			targets[db_models.CategoryCafe] = 0
		}
	}
	if params.DoShopping && max > targets[db_models.CategoryFood]+targets[db_models.CategoryCafe] {
		targets[db_models.CategoryShopping] = 1
	}

	remaining := max
	for _, n := range targets {
		remaining -= n
	}
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case params.DoAttraction && params.DoEntertainment:
		targets[db_models.CategoryAttraction] = (remaining + 1) / 2
		targets[db_models.CategoryEntertainment] = remaining / 2
	case params.DoAttraction:
		targets[db_models.CategoryAttraction] = remaining
	case params.DoEntertainment:
		targets[db_models.CategoryEntertainment] = remaining
	}

	return DayQuota{
		Targets:      targets,
		MaxPerDay:    max,
		FullMix:      fullMix,
		MinGeotagged: defaultMinGeotagged,
	}
}

// FoodCeiling is the maximum combined food+cafe count for a day. A full-mix
// day is capped at 40% of max_per_day (absolute cap 4, never below 2); other
// days get a softer 50% cap applied only while filling.
func (q DayQuota) FoodCeiling() int {
	return foodCeilingFor(q.MaxPerDay, q.FullMix)
}

func foodCeilingFor(maxPerDay int, fullMix bool) int {
	if fullMix {
		ceil := (maxPerDay * 2) / 5
		if ceil > 4 {
			ceil = 4
		}
		if ceil < 2 {
			ceil = 2
		}
		return ceil
	}
	ceil := maxPerDay / 2
	if ceil < 2 {
		ceil = 2
	}
	return ceil
}

func (q DayQuota) minGeotagged() int {
	if q.MinGeotagged > 0 {
		return q.MinGeotagged
	}
	return defaultMinGeotagged
}

// DailyAllocatorInterface selects one day's POIs from a scored pool. The
// used map carries the unique key of every POI booked so far, so no POI can
// appear twice across the itinerary. Keys of draws trimmed before the day is
// final are given back; only POIs that actually land in a day stay burned.
type DailyAllocatorInterface interface {
	Allocate(pool []db_models.POI, used map[string]bool, quota DayQuota) []db_models.POI
}

type dailyAllocator struct {
	logger *zap.Logger
}

func NewDailyAllocator(logger *zap.Logger) DailyAllocatorInterface {
	return &dailyAllocator{logger: logger}
}

// categoryPool splits one category's candidates by coordinate availability.
// Order within each slice follows the scored pool, so draws are highest
// score first.
type categoryPool struct {
	geo   []db_models.POI
	noGeo []db_models.POI
}

func (a *dailyAllocator) Allocate(pool []db_models.POI, used map[string]bool, quota DayQuota) []db_models.POI {
	if len(pool) == 0 || quota.MaxPerDay <= 0 {
		return nil
	}

	byCat := partition(pool)
	var selected []db_models.POI

	// Category draws, coordinate-bearing candidates first.
	for _, cat := range db_models.AllCategories {
		target := quota.Targets[cat]
		if target == 0 {
			continue
		}
		cp := byCat[cat]
		selected = append(selected, drawFrom(cp.geo, cp.noGeo, target, used)...)
		if len(selected) >= quota.MaxPerDay {
			for _, p := range selected[quota.MaxPerDay:] {
				release(used, p)
			}
			selected = selected[:quota.MaxPerDay]
			break
		}
	}

	selected = a.enforceFoodFloor(selected, byCat, used, quota)
	selected = a.enforceFoodCeiling(selected, used, quota)
	selected = a.fillRemainder(selected, byCat, used, quota)
	selected = a.ensureGeotagged(selected, pool, used, quota)

	return selected
}

func partition(pool []db_models.POI) map[db_models.Category]*categoryPool {
	byCat := make(map[db_models.Category]*categoryPool)
	for _, p := range pool {
		cp := byCat[p.Category]
		if cp == nil {
			cp = &categoryPool{}
			byCat[p.Category] = cp
		}
		if p.HasCoords() {
			cp.geo = append(cp.geo, p)
		} else {
			cp.noGeo = append(cp.noGeo, p)
		}
	}
	return byCat
}

// drawFrom samples up to n unused POIs, exhausting the coordinate-bearing
// slice before touching the coordinate-less one. Every draw burns its key.
func drawFrom(geo, noGeo []db_models.POI, n int, used map[string]bool) []db_models.POI {
	var out []db_models.POI
	for _, src := range [][]db_models.POI{geo, noGeo} {
		for _, p := range src {
			if len(out) >= n {
				return out
			}
			key := p.UniqueKey()
			if used[key] {
				continue
			}
			used[key] = true
			out = append(out, p)
		}
	}
	return out
}

// release hands a drawn key back. Trimmed POIs were never shown, so later
// days may still pick them.
func release(used map[string]bool, p db_models.POI) {
	delete(used, p.UniqueKey())
}

func isFoodish(cat db_models.Category) bool {
	return cat == db_models.CategoryFood || cat == db_models.CategoryCafe
}

func countFoodish(pois []db_models.POI) int {
	n := 0
	for _, p := range pois {
		if isFoodish(p.Category) {
			n++
		}
	}
	return n
}

// enforceFoodFloor tops the day up to two food/cafe entries, substituting
// the lowest scored non-food entry when the day is already full.
func (a *dailyAllocator) enforceFoodFloor(selected []db_models.POI, byCat map[db_models.Category]*categoryPool, used map[string]bool, quota DayQuota) []db_models.POI {
	for countFoodish(selected) < 2 {
		var candidates []db_models.POI
		for _, cat := range []db_models.Category{db_models.CategoryFood, db_models.CategoryCafe} {
			if cp := byCat[cat]; cp != nil {
				candidates = drawFrom(cp.geo, cp.noGeo, 1, used)
				if len(candidates) > 0 {
					break
				}
			}
		}
		if len(candidates) == 0 {
			break
		}
		if len(selected) >= quota.MaxPerDay {
			idx := lowestScoredNonFood(selected)
			if idx < 0 {
				break
			}
			release(used, selected[idx])
			selected = append(selected[:idx], selected[idx+1:]...)
		}
		selected = append(selected, candidates[0])
	}
	return selected
}

func lowestScoredNonFood(selected []db_models.POI) int {
	idx := -1
	for i, p := range selected {
		if isFoodish(p.Category) {
			continue
		}
		if idx < 0 || p.FinalScore < selected[idx].FinalScore {
			idx = i
		}
	}
	return idx
}

// enforceFoodCeiling trims food/cafe entries above the full-mix ceiling,
// dropping the lowest scored ones first but never below the floor of two.
// Non-full-mix days carry a soft cap applied only at fill time.
func (a *dailyAllocator) enforceFoodCeiling(selected []db_models.POI, used map[string]bool, quota DayQuota) []db_models.POI {
	if !quota.FullMix {
		return selected
	}
	ceiling := quota.FoodCeiling()
	for countFoodish(selected) > ceiling && countFoodish(selected) > 2 {
		idx := -1
		for i, p := range selected {
			if !isFoodish(p.Category) {
				continue
			}
			if idx < 0 || p.FinalScore < selected[idx].FinalScore {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		release(used, selected[idx])
		selected = append(selected[:idx], selected[idx+1:]...)
	}
	return selected
}

// fillRemainder pads the day to max_per_day from the non-food pools first,
// then from food while the ceiling allows.
func (a *dailyAllocator) fillRemainder(selected []db_models.POI, byCat map[db_models.Category]*categoryPool, used map[string]bool, quota DayQuota) []db_models.POI {
	for _, cat := range db_models.AllCategories {
		if isFoodish(cat) {
			continue
		}
		if len(selected) >= quota.MaxPerDay {
			return selected
		}
		cp := byCat[cat]
		if cp == nil {
			continue
		}
		selected = append(selected, drawFrom(cp.geo, cp.noGeo, quota.MaxPerDay-len(selected), used)...)
	}

	ceiling := quota.FoodCeiling()
	for _, cat := range []db_models.Category{db_models.CategoryFood, db_models.CategoryCafe} {
		if len(selected) >= quota.MaxPerDay || countFoodish(selected) >= ceiling {
			break
		}
		cp := byCat[cat]
		if cp == nil {
			continue
		}
		room := quota.MaxPerDay - len(selected)
		if headroom := ceiling - countFoodish(selected); headroom < room {
			room = headroom
		}
		selected = append(selected, drawFrom(cp.geo, cp.noGeo, room, used)...)
	}
	return selected
}

// ensureGeotagged swaps coordinate-less entries for unused geotagged POIs
// from the pool, then jitters the leftovers around the centroid of the day's
// geotagged POIs when the dataset is too sparse to swap. Swaps prefer a
// same-category replacement; a cross-category swap never takes the day
// below the food floor.
func (a *dailyAllocator) ensureGeotagged(selected []db_models.POI, pool []db_models.POI, used map[string]bool, quota DayQuota) []db_models.POI {
	floor := quota.minGeotagged()
	if floor > len(selected) {
		floor = len(selected)
	}

	geoCount := 0
	for _, p := range selected {
		if p.HasCoords() {
			geoCount++
		}
	}

	for geoCount < floor {
		swapped := false
		for i := range selected {
			if selected[i].HasCoords() {
				continue
			}
			candidate := findUnusedGeo(pool, used, selected[i].Category)
			if candidate == nil {
				continue
			}
			used[candidate.UniqueKey()] = true
			release(used, selected[i])
			selected[i] = *candidate
			geoCount++
			swapped = true
			break
		}
		if swapped {
			continue
		}

		idx := -1
		for i := range selected {
			if selected[i].HasCoords() {
				continue
			}
			if isFoodish(selected[i].Category) && countFoodish(selected) <= 2 {
				continue
			}
			idx = i
			break
		}
		if idx < 0 {
			break
		}
		candidate := findUnusedGeo(pool, used, "")
		if candidate == nil {
			break
		}
		used[candidate.UniqueKey()] = true
		release(used, selected[idx])
		selected[idx] = *candidate
		geoCount++
	}

	if geoCount < floor {
		selected = a.jitterAroundCentroid(selected, quota.Rand)
	}
	return selected
}

// findUnusedGeo returns the best remaining geotagged pool POI, optionally
// restricted to one category. Empty category matches anything.
func findUnusedGeo(pool []db_models.POI, used map[string]bool, cat db_models.Category) *db_models.POI {
	for i := range pool {
		p := &pool[i]
		if !p.HasCoords() || used[p.UniqueKey()] {
			continue
		}
		if cat != "" && p.Category != cat {
			continue
		}
		return p
	}
	return nil
}

// jitterAroundCentroid assigns approximate coordinates to the remaining
// coordinate-less entries, offset from the centroid of the day's geotagged
// POIs. The result is flagged as approximate, never ground truth.
func (a *dailyAllocator) jitterAroundCentroid(selected []db_models.POI, rng *rand.Rand) []db_models.POI {
	var sumLat, sumLon float64
	n := 0
	for _, p := range selected {
		if p.HasCoords() {
			sumLat += *p.Lat
			sumLon += *p.Lon
			n++
		}
	}
	if n == 0 {
		return selected
	}
	centLat, centLon := sumLat/float64(n), sumLon/float64(n)

	for i := range selected {
		if selected[i].HasCoords() {
			continue
		}
		lat := centLat + jitter(rng)
		lon := centLon + jitter(rng)
		selected[i].Lat = &lat
		selected[i].Lon = &lon
		selected[i].ApproxLocation = true
		if a.logger != nil {
			a.logger.Debug("synthesized approximate coordinates",
				zap.String("poi", selected[i].Name),
				zap.Float64("lat", lat),
				zap.Float64("lon", lon))
		}
	}
	return selected
}

func jitter(rng *rand.Rand) float64 {
	if rng != nil {
		return (rng.Float64()*2 - 1) * jitterDegrees
	}
	return (rand.Float64()*2 - 1) * jitterDegrees
}

// RefillIgnoringQuota is the corrective pass for severely under-filled days.
// It draws the best remaining POIs regardless of category targets, still
// honoring the used set and the full-mix food ceiling.
func RefillIgnoringQuota(selected []db_models.POI, pool []db_models.POI, used map[string]bool, quota DayQuota) []db_models.POI {
	ceiling := quota.FoodCeiling()
	for _, p := range pool {
		if len(selected) >= quota.MaxPerDay {
			break
		}
		key := p.UniqueKey()
		if used[key] {
			continue
		}
		if isFoodish(p.Category) && countFoodish(selected) >= ceiling {
			continue
		}
		used[key] = true
		selected = append(selected, p)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].FinalScore > selected[j].FinalScore
	})
	return selected
}
