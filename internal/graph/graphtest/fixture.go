// Package graphtest provides a small campus network for tests.
package graphtest

import (
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/model"
)

// Node ids of the fixture. Nodes 100 and 101 form an isolated fragment.
const (
	Gate1    int64 = 1
	A1       int64 = 2
	SH       int64 = 3
	Gate2    int64 = 4
	HDFC     int64 = 5
	B1       int64 = 6
	CCB2     int64 = 7
	Gate4    int64 = 100
	C3       int64 = 101
	Isolated int64 = 200
)

// Nodes sit exactly on the named campus points they are called after.
func Nodes() []model.Node {
	return []model.Node{
		{ID: Gate1, Lat: 30.771879, Lon: 76.579789},
		{ID: A1, Lat: 30.771617, Lon: 76.578250},
		{ID: SH, Lat: 30.770747, Lon: 76.577946},
		{ID: Gate2, Lat: 30.771148, Lon: 76.576295},
		{ID: HDFC, Lat: 30.7705250780109, Lon: 76.57717662325923},
		{ID: B1, Lat: 30.769617, Lon: 76.575606},
		{ID: CCB2, Lat: 30.769084, Lon: 76.576279},
		{ID: Gate4, Lat: 30.766129233861406, Lon: 76.57488115897749},
		{ID: C3, Lat: 30.767174255704376, Lon: 76.57485203246935},
		{ID: Isolated, Lat: 30.7680, Lon: 76.5790},
	}
}

// Edges are weighted with the haversine length between their endpoints.
func Edges() []model.Edge {
	pairs := [][2]int64{
		{Gate1, A1},
		{A1, SH},
		{A1, Gate2},
		{SH, HDFC},
		{Gate2, B1},
		{B1, CCB2},
		{SH, CCB2},
		{Gate4, C3},
	}
	coords := map[int64]model.Coord{}
	for _, n := range Nodes() {
		coords[n.ID] = n.Coord()
	}
	edges := make([]model.Edge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, model.Edge{
			Src:   p[0],
			Dst:   p[1],
			DistM: graph.Haversine(coords[p[0]], coords[p[1]]),
		})
	}
	return edges
}

// Locations is a named table over the fixture. "HDFC Bank" and
// "Transport Department" both snap to the HDFC node.
func Locations() []model.Location {
	return []model.Location{
		{Name: "Gate 1", Coord: model.Coord{Lat: 30.771879, Lon: 76.579789}},
		{Name: "Gate 2", Coord: model.Coord{Lat: 30.771148, Lon: 76.576295}},
		{Name: "A1", Coord: model.Coord{Lat: 30.771617, Lon: 76.578250}},
		{Name: "SH", Coord: model.Coord{Lat: 30.770747, Lon: 76.577946}},
		{Name: "B1", Coord: model.Coord{Lat: 30.769617, Lon: 76.575606}},
		{Name: "CC/B2", Coord: model.Coord{Lat: 30.769084, Lon: 76.576279}},
		{Name: "HDFC Bank", Coord: model.Coord{Lat: 30.7705250780109, Lon: 76.57717662325923}},
		{Name: "Transport Department", Coord: model.Coord{Lat: 30.770508945696456, Lon: 76.57692516617526}},
		{Name: "C3", Coord: model.Coord{Lat: 30.767174255704376, Lon: 76.57485203246935}},
		{Name: "Gate 4", Coord: model.Coord{Lat: 30.766129233861406, Lon: 76.57488115897749}},
	}
}

// Campus builds the fixture graph. It panics on error.
func Campus() *graph.Graph {
	g, err := graph.Build(Nodes(), Edges())
	if err != nil {
		panic(err)
	}
	return g
}
