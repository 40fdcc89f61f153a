// Package router answers "how do I walk from A to B" for named campus points.
//
// A request resolves both labels to their fixed coordinates, snaps each
// coordinate to the nearest graph node and runs Dijkstra between the two
// nodes. The graph and the location table are read-only, so a Router may be
// shared by any number of request goroutines.
package router

import (
	"errors"
	"fmt"

	"github.com/atharv3903/campusnav/internal/algo"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/locations"
	"github.com/atharv3903/campusnav/internal/model"
)

var (
	ErrIdenticalEndpoints = errors.New("start and destination cannot be the same")
	ErrUnknownLocation    = errors.New("unknown location")
	ErrNoPathFound        = errors.New("no path found")
)

type Router struct {
	g    *graph.Graph
	locs *locations.Table
}

func New(g *graph.Graph, locs *locations.Table) *Router {
	return &Router{g: g, locs: locs}
}

func (r *Router) Locations() *locations.Table { return r.locs }

func (r *Router) Graph() *graph.Graph { return r.g }

// Route computes the shortest walk between two named locations.
//
// Identical labels are rejected before anything else. Distinct labels that
// snap to the same node yield a single-node path of length 0.
func (r *Router) Route(start, end string) (model.PathResult, error) {
	if start == end {
		return model.PathResult{}, ErrIdenticalEndpoints
	}

	from, ok := r.locs.Lookup(start)
	if !ok {
		return model.PathResult{}, fmt.Errorf("%w: %q", ErrUnknownLocation, start)
	}
	to, ok := r.locs.Lookup(end)
	if !ok {
		return model.PathResult{}, fmt.Errorf("%w: %q", ErrUnknownLocation, end)
	}

	src, err := r.g.Nearest(from)
	if err != nil {
		return model.PathResult{}, err
	}
	dst, err := r.g.Nearest(to)
	if err != nil {
		return model.PathResult{}, err
	}

	nodes, total, explored, err := algo.Dijkstra(r.g, src, dst, algo.Distance)
	if err != nil {
		return model.PathResult{}, err
	}
	if nodes == nil {
		return model.PathResult{}, fmt.Errorf("%w between %q and %q", ErrNoPathFound, start, end)
	}

	coords := make([]model.Coord, len(nodes))
	for i, n := range nodes {
		coords[i], _ = r.g.Coord(n)
	}

	return model.PathResult{
		Nodes:    nodes,
		Coords:   coords,
		Distance: total,
		Explored: explored,
	}, nil
}
