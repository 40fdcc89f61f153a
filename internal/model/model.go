package model

import "math"

// Coord is a WGS84 point.
type Coord struct {
	Lat float64 `json:"latitude" toml:"latitude"`
	Lon float64 `json:"longitude" toml:"longitude"`
}

// Valid reports whether c lies inside the WGS84 latitude/longitude ranges.
func (c Coord) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Pair renders c the way path responses carry coordinates: [lat, lon].
func (c Coord) Pair() [2]float64 {
	return [2]float64{c.Lat, c.Lon}
}

type Node struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (n Node) Coord() Coord {
	return Coord{Lat: n.Lat, Lon: n.Lon}
}

// Edge is an undirected walkable segment. DistM is its length in meters.
type Edge struct {
	Src   int64
	Dst   int64
	DistM float64
}

// Location is a named campus point.
type Location struct {
	Name string `json:"name" toml:"name"`
	Coord
}

// Region is a bounding box. The zero value matches everything.
type Region struct {
	North float64 `toml:"north"`
	South float64 `toml:"south"`
	East  float64 `toml:"east"`
	West  float64 `toml:"west"`
}

func (r Region) IsZero() bool {
	return r == Region{}
}

func (r Region) Contains(c Coord) bool {
	if r.IsZero() {
		return true
	}
	return c.Lat <= r.North && c.Lat >= r.South && c.Lon <= r.East && c.Lon >= r.West
}

// PathResult is one shortest-path answer. Coords is parallel to Nodes.
type PathResult struct {
	Nodes    []int64
	Coords   []Coord
	Distance float64
	Explored int
}

type RouteRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RouteResponse struct {
	Path          []int64      `json:"path"`
	Coords        [][2]float64 `json:"coords"`
	Distance      float64      `json:"distance"`
	ExploredNodes int          `json:"explored_nodes"`
}

func NewRouteResponse(p PathResult) RouteResponse {
	coords := make([][2]float64, len(p.Coords))
	for i, c := range p.Coords {
		coords[i] = c.Pair()
	}
	return RouteResponse{
		Path:          p.Nodes,
		Coords:        coords,
		Distance:      p.Distance,
		ExploredNodes: p.Explored,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LocationsResponse struct {
	Locations []Location `json:"locations"`
}

// LocationUpdate is the payload a moving client shares.
type LocationUpdate struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Coord returns the update as a coordinate; ok is false if a field is missing
// or out of range.
func (u LocationUpdate) Coord() (Coord, bool) {
	if u.Latitude == nil || u.Longitude == nil {
		return Coord{}, false
	}
	c := Coord{Lat: *u.Latitude, Lon: *u.Longitude}
	return c, c.Valid()
}

// Event is the envelope pushed to WebSocket clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	EventConnected   = "connected"
	EventNewLocation = "new_location"
	EventError       = "error"
)

type GraphStats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Components int `json:"components"`
}
