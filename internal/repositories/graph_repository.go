package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tripforge/internal/models/db_models"
	"tripforge/pkg/utils"
)

// GraphSource loads a city's road graph. A (nil, nil) return means no graph
// exists for the city, which is not an error: the distance oracle falls back
// to great-circle distances.
type GraphSource interface {
	Load(city string) (*db_models.RoadGraph, error)
}

type graphFile struct {
	Nodes []struct {
		ID  int64   `json:"id"`
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"nodes"`
	Edges []struct {
		From     int64        `json:"from"`
		To       int64        `json:"to"`
		LengthM  *float64     `json:"length_m"`
		Oneway   bool         `json:"oneway"`
		Geometry [][2]float64 `json:"geometry,omitempty"`
	} `json:"edges"`
}

// fileGraphSource reads per-city road extracts from <dir>/<city-slug>.graph.json.
type fileGraphSource struct {
	dir string
}

func NewFileGraphSource(dir string) GraphSource {
	return &fileGraphSource{dir: dir}
}

func (s *fileGraphSource) Load(city string) (*db_models.RoadGraph, error) {
	path := filepath.Join(s.dir, utils.Slugify(city)+".graph.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read road graph %s: %w", path, err)
	}

	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse road graph %s: %w", path, err)
	}

	graph := db_models.NewRoadGraph()
	coords := make(map[int64][2]float64, len(file.Nodes))
	for _, n := range file.Nodes {
		graph.AddNode(n.ID, n.Lat, n.Lon)
		coords[n.ID] = [2]float64{n.Lat, n.Lon}
	}
	for _, e := range file.Edges {
		from, okF := coords[e.From]
		to, okT := coords[e.To]
		if !okF || !okT {
			continue
		}
		lengthM := 0.0
		if e.LengthM != nil && *e.LengthM >= 0 {
			lengthM = *e.LengthM
		} else {
			lengthM = db_models.EdgeLengthM(e.Geometry, from[0], from[1], to[0], to[1])
		}
		graph.AddEdge(e.From, e.To, lengthM)
		if !e.Oneway {
			graph.AddEdge(e.To, e.From, lengthM)
		}
	}
	return graph, nil
}

// staticGraphSource hands out pre-built graphs; test double for the oracle.
type staticGraphSource struct {
	graphs map[string]*db_models.RoadGraph
}

func NewStaticGraphSource(graphs map[string]*db_models.RoadGraph) GraphSource {
	return &staticGraphSource{graphs: graphs}
}

func (s *staticGraphSource) Load(city string) (*db_models.RoadGraph, error) {
	return s.graphs[utils.Slugify(city)], nil
}
