package services

import (
	"sync"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type GeoPoint struct {
	Lat float64
	Lng float64
}

// DistanceOracleInterface resolves road-network distance between two
// coordinates, falling back to great-circle distance when no road graph is
// available or no path exists.
//
// Convention: a query involving an invalid coordinate returns 0 km, meaning
// "cannot be assessed". This keeps pairwise matrices finite so a spanning
// structure always exists.
type DistanceOracleInterface interface {
	DistanceKm(city string, a, b GeoPoint) float64
	PairwiseMatrixKm(city string, points []GeoPoint) [][]float64
}

// graphEntry builds at most once per city; concurrent first requests for the
// same city share the build instead of racing it.
type graphEntry struct {
	once  sync.Once
	graph *db_models.RoadGraph
}

type roadGraphCache struct {
	mu      sync.RWMutex
	entries map[string]*graphEntry
}

func (c *roadGraphCache) entry(key string) *graphEntry {
	c.mu.RLock()
	e := c.entries[key]
	c.mu.RUnlock()
	if e != nil {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e = c.entries[key]; e == nil {
		e = &graphEntry{}
		c.entries[key] = e
	}
	return e
}

type distanceOracle struct {
	source repositories.GraphSource
	cache  roadGraphCache
	logger *zap.Logger
}

func NewDistanceOracle(source repositories.GraphSource, logger *zap.Logger) DistanceOracleInterface {
	return &distanceOracle{
		source: source,
		cache:  roadGraphCache{entries: make(map[string]*graphEntry)},
		logger: logger,
	}
}

func (o *distanceOracle) graphFor(city string) *db_models.RoadGraph {
	e := o.cache.entry(utils.Slugify(city))
	e.once.Do(func() {
		g, err := o.source.Load(city)
		if err != nil {
			o.logger.Warn("road graph load failed, using great-circle distances",
				zap.String("city", city), zap.Error(err))
			return
		}
		if g == nil || g.NodeCount() == 0 {
			o.logger.Info("no road graph for city, using great-circle distances",
				zap.String("city", city))
			return
		}
		e.graph = g
	})
	return e.graph
}

func (o *distanceOracle) DistanceKm(city string, a, b GeoPoint) float64 {
	if !utils.ValidCoordinates(a.Lat, a.Lng) || !utils.ValidCoordinates(b.Lat, b.Lng) {
		return 0
	}

	fallback := utils.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
	g := o.graphFor(city)
	if g == nil {
		return fallback
	}

	u, okU := g.NearestNode(a.Lat, a.Lng)
	v, okV := g.NearestNode(b.Lat, b.Lng)
	if !okU || !okV {
		return fallback
	}
	if lengthM, ok := g.ShortestPathM(u, v); ok {
		return lengthM / 1000.0
	}
	return fallback
}

// PairwiseMatrixKm fills the symmetric distance matrix for one day's points.
// With n capped around 10 the O(n²) oracle calls stay cheap and synchronous.
func (o *distanceOracle) PairwiseMatrixKm(city string, points []GeoPoint) [][]float64 {
	n := len(points)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := o.DistanceKm(city, points[i], points[j])
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}
	return matrix
}
