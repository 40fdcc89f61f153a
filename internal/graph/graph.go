// Package graph holds the walkable street network: an undirected graph with
// meter-weighted edges whose nodes carry WGS84 coordinates.
//
// A Graph is built once and never mutated afterwards, so any number of
// goroutines may query it without locking. Nearest-node lookups go through a
// kd-tree over the nodes projected around the graph centroid.
package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/atharv3903/campusnav/internal/model"
)

var (
	ErrEmptyGraph     = errors.New("graph: no nodes")
	ErrNegativeWeight = errors.New("graph: negative edge weight")
	ErrInvalidWeight  = errors.New("graph: edge weight is not a finite number")
	ErrUnknownNode    = errors.New("graph: edge references unknown node")
	ErrDuplicateNode  = errors.New("graph: duplicate node id")
	ErrNotAdjacent    = errors.New("graph: nodes are not adjacent")
)

type Graph struct {
	g      *simple.WeightedUndirectedGraph
	coords map[int64]model.Coord
	adj    map[int64][]model.Edge
	edges  int
	proj   projection
	index  *kdtree.Tree
}

// Build validates nodes and edges and returns an immutable Graph.
// Self loops are dropped and parallel edges collapse to the shortest one.
func Build(nodes []model.Node, edges []model.Edge) (*Graph, error) {
	g := &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, 0),
		coords: make(map[int64]model.Coord, len(nodes)),
		adj:    make(map[int64][]model.Edge, len(nodes)),
	}

	var sumLat, sumLon float64
	for _, n := range nodes {
		if _, ok := g.coords[n.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
		}
		g.coords[n.ID] = n.Coord()
		g.g.AddNode(simple.Node(n.ID))
		sumLat += n.Lat
		sumLon += n.Lon
	}

	for _, e := range edges {
		if math.IsNaN(e.DistM) || math.IsInf(e.DistM, 0) {
			return nil, fmt.Errorf("%w: %d-%d (%v)", ErrInvalidWeight, e.Src, e.Dst, e.DistM)
		}
		if e.DistM < 0 {
			return nil, fmt.Errorf("%w: %d-%d (%v)", ErrNegativeWeight, e.Src, e.Dst, e.DistM)
		}
		if _, ok := g.coords[e.Src]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownNode, e.Src)
		}
		if _, ok := g.coords[e.Dst]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownNode, e.Dst)
		}
		if e.Src == e.Dst {
			continue
		}
		if w, ok := g.g.Weight(e.Src, e.Dst); ok && w <= e.DistM {
			continue
		}
		g.g.SetWeightedEdge(g.g.NewWeightedEdge(simple.Node(e.Src), simple.Node(e.Dst), e.DistM))
	}

	if len(nodes) > 0 {
		n := float64(len(nodes))
		g.proj = newProjection(model.Coord{Lat: sumLat / n, Lon: sumLon / n})
	}

	points := make(nodePoints, 0, len(nodes))
	for _, n := range nodes {
		points = append(points, nodePoint{id: n.ID, xy: g.proj.xy(n.Coord())})
		g.adj[n.ID] = g.neighbors(n.ID)
		g.edges += len(g.adj[n.ID])
	}
	g.edges /= 2
	g.index = buildIndex(points)

	return g, nil
}

// neighbors materialises the adjacency of id sorted by neighbour id, so that
// searches over the graph visit ties in a stable order.
func (g *Graph) neighbors(id int64) []model.Edge {
	var out []model.Edge
	for it := g.g.From(id); it.Next(); {
		v := it.Node().ID()
		w, _ := g.g.Weight(id, v)
		out = append(out, model.Edge{Src: id, Dst: v, DistM: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dst < out[j].Dst })
	return out
}

// Neighbors returns the edges leaving n. The slice is shared; callers must not
// modify it.
func (g *Graph) Neighbors(n int64) ([]model.Edge, error) {
	edges, ok := g.adj[n]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, n)
	}
	return edges, nil
}

func (g *Graph) Coord(n int64) (model.Coord, bool) {
	c, ok := g.coords[n]
	return c, ok
}

func (g *Graph) NodeCount() int { return len(g.coords) }

func (g *Graph) EdgeCount() int { return g.edges }

// Nearest returns the node closest to c.
func (g *Graph) Nearest(c model.Coord) (int64, error) {
	if g.index == nil {
		return 0, ErrEmptyGraph
	}
	got, _ := g.index.Nearest(nodePoint{id: -1, xy: g.proj.xy(c)})
	return got.(nodePoint).id, nil
}

// Weight returns the weight of the edge between u and v.
func (g *Graph) Weight(u, v int64) (float64, bool) {
	if u == v {
		return 0, false
	}
	return g.g.Weight(u, v)
}

// PathLength sums the edge weights along nodes.
func (g *Graph) PathLength(nodes []int64) (float64, error) {
	var total float64
	for i := 1; i < len(nodes); i++ {
		w, ok := g.Weight(nodes[i-1], nodes[i])
		if !ok {
			return 0, fmt.Errorf("%w: %d-%d", ErrNotAdjacent, nodes[i-1], nodes[i])
		}
		total += w
	}
	return total, nil
}

func (g *Graph) Stats() model.GraphStats {
	return model.GraphStats{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Components: len(topo.ConnectedComponents(g.g)),
	}
}
