package services

import (
	"math"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/pkg/utils"
)

// Sequencing strategies. MST-preorder is the default; nearest-neighbor
// sometimes wins on tightly clustered points.
const (
	StrategyMSTPreorder     = "mst_preorder"
	StrategyNearestNeighbor = "nearest_neighbor"
)

// unreachablePenaltyKm replaces non-finite matrix entries so a spanning
// structure always exists.
const unreachablePenaltyKm = 1e6

// RouteSequencerInterface orders one day's POIs into a short visiting route.
// It returns the index permutation, the distance of each leg between
// consecutive stops, and the total.
type RouteSequencerInterface interface {
	Sequence(city string, pois []db_models.POI, strategy string) (order []int, legsKm []float64, totalKm float64, err error)
}

type routeSequencer struct {
	oracle DistanceOracleInterface
	logger *zap.Logger
}

func NewRouteSequencer(oracle DistanceOracleInterface, logger *zap.Logger) RouteSequencerInterface {
	return &routeSequencer{oracle: oracle, logger: logger}
}

func (s *routeSequencer) Sequence(city string, pois []db_models.POI, strategy string) ([]int, []float64, float64, error) {
	n := len(pois)
	if n == 0 {
		return nil, nil, 0, nil
	}
	if n == 1 {
		return []int{0}, nil, 0, nil
	}

	points := make([]GeoPoint, n)
	for i, p := range pois {
		if p.HasCoords() {
			points[i] = GeoPoint{Lat: *p.Lat, Lng: *p.Lon}
		} else {
			points[i] = GeoPoint{Lat: math.NaN(), Lng: math.NaN()}
		}
	}

	matrix := s.oracle.PairwiseMatrixKm(city, points)
	sanitizeMatrix(matrix)

	var order []int
	switch strategy {
	case StrategyNearestNeighbor:
		order = nearestNeighborOrder(matrix)
	case StrategyMSTPreorder, "":
		order = mstPreorderOrder(matrix)
	default:
		return nil, nil, 0, utils.ErrUnknownStrategy
	}

	legs := make([]float64, 0, n-1)
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		d := matrix[order[i]][order[i+1]]
		legs = append(legs, d)
		total += d
	}
	return order, legs, total, nil
}

func sanitizeMatrix(matrix [][]float64) {
	for i := range matrix {
		for j := range matrix[i] {
			v := matrix[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				matrix[i][j] = unreachablePenaltyKm
			}
		}
	}
}

// mstPreorderOrder runs Prim's algorithm over the complete weighted graph
// and walks the resulting tree depth-first from index 0. Ties in edge weight
// fall to the lower index, so the traversal is deterministic for a fixed
// matrix.
func mstPreorderOrder(matrix [][]float64) []int {
	n := len(matrix)
	inTree := make([]bool, n)
	bestCost := make([]float64, n)
	parent := make([]int, n)
	for i := range bestCost {
		bestCost[i] = math.Inf(1)
		parent[i] = -1
	}
	bestCost[0] = 0

	children := make([][]int, n)
	for range matrix {
		next := -1
		for v := 0; v < n; v++ {
			if inTree[v] {
				continue
			}
			if next == -1 || bestCost[v] < bestCost[next] {
				next = v
			}
		}
		inTree[next] = true
		if parent[next] >= 0 {
			children[parent[next]] = append(children[parent[next]], next)
		}
		for v := 0; v < n; v++ {
			if !inTree[v] && matrix[next][v] < bestCost[v] {
				bestCost[v] = matrix[next][v]
				parent[v] = next
			}
		}
	}

	order := make([]int, 0, n)
	stack := []int{0}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, node)
		// Push in reverse so lower-index children are visited first.
		for i := len(children[node]) - 1; i >= 0; i-- {
			stack = append(stack, children[node][i])
		}
	}
	return order
}

// nearestNeighborOrder greedily steps to the closest unvisited index,
// starting from 0.
func nearestNeighborOrder(matrix [][]float64) []int {
	n := len(matrix)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	current := 0
	visited[0] = true
	order = append(order, 0)
	for len(order) < n {
		next := -1
		for v := 0; v < n; v++ {
			if visited[v] {
				continue
			}
			if next == -1 || matrix[current][v] < matrix[current][next] {
				next = v
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}
