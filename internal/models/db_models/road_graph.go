package db_models

import (
	"container/heap"
	"math"

	"tripforge/pkg/utils"
)

// RoadGraph is one city's road network: nodes with WGS84 coordinates and
// directed edges weighted by length in meters. Edge lengths are fixed at
// build time; queries never derive geometry.
type RoadGraph struct {
	nodes []graphNode
	index map[int64]int32
	adj   [][]graphEdge
}

type graphNode struct {
	id  int64
	lat float64
	lon float64
}

type graphEdge struct {
	to      int32
	lengthM float64
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{index: make(map[int64]int32)}
}

func (g *RoadGraph) NodeCount() int { return len(g.nodes) }

func (g *RoadGraph) AddNode(id int64, lat, lon float64) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = int32(len(g.nodes))
	g.nodes = append(g.nodes, graphNode{id: id, lat: lat, lon: lon})
	g.adj = append(g.adj, nil)
}

// AddEdge inserts a directed edge. Unknown endpoints are ignored rather than
// reported: road extracts routinely reference trimmed nodes.
func (g *RoadGraph) AddEdge(from, to int64, lengthM float64) {
	u, ok := g.index[from]
	if !ok {
		return
	}
	v, ok := g.index[to]
	if !ok {
		return
	}
	if lengthM < 0 || math.IsNaN(lengthM) || math.IsInf(lengthM, 0) {
		return
	}
	g.adj[u] = append(g.adj[u], graphEdge{to: v, lengthM: lengthM})
}

// NearestNode scans for the node closest to the coordinate. The graphs in
// play are city-sized; a linear scan is fine and keeps the structure flat.
func (g *RoadGraph) NearestNode(lat, lon float64) (int32, bool) {
	if len(g.nodes) == 0 {
		return 0, false
	}
	best := int32(0)
	bestDist := math.Inf(1)
	cosLat := math.Cos(lat * math.Pi / 180)
	for i, n := range g.nodes {
		dLat := n.lat - lat
		dLon := (n.lon - lon) * cosLat
		d := dLat*dLat + dLon*dLon
		if d < bestDist {
			bestDist = d
			best = int32(i)
		}
	}
	return best, true
}

// ShortestPathM runs Dijkstra from src to dst, returning the path length in
// meters. ok is false when dst is unreachable.
func (g *RoadGraph) ShortestPathM(src, dst int32) (float64, bool) {
	if int(src) >= len(g.nodes) || int(dst) >= len(g.nodes) {
		return 0, false
	}
	if src == dst {
		return 0, true
	}

	dist := make([]float64, len(g.nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	pq := &nodeQueue{{node: src, dist: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if cur.node == dst {
			return cur.dist, true
		}
		if cur.dist > dist[cur.node] {
			continue
		}
		for _, e := range g.adj[cur.node] {
			if next := cur.dist + e.lengthM; next < dist[e.to] {
				dist[e.to] = next
				heap.Push(pq, queueItem{node: e.to, dist: next})
			}
		}
	}
	return 0, false
}

// EdgeLengthM derives a length for an edge that arrived without one: sum of
// haversine segment lengths when geometry is present, endpoint haversine
// otherwise. Called at graph-build time only.
func EdgeLengthM(geometry [][2]float64, fromLat, fromLon, toLat, toLon float64) float64 {
	if len(geometry) >= 2 {
		var total float64
		for i := 1; i < len(geometry); i++ {
			total += utils.HaversineKm(geometry[i-1][0], geometry[i-1][1], geometry[i][0], geometry[i][1]) * 1000
		}
		return total
	}
	return utils.HaversineKm(fromLat, fromLon, toLat, toLon) * 1000
}

type queueItem struct {
	node int32
	dist float64
}

type nodeQueue []queueItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
