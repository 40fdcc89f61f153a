package algo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/atharv3903/campusnav/internal/algo"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/graph/graphtest"
	"github.com/atharv3903/campusnav/internal/model"
)

// adjMap is a hand-built GraphCtx for small cases.
type adjMap map[int64][]model.Edge

func (a adjMap) Neighbors(n int64) ([]model.Edge, error) {
	return a[n], nil
}

func undirected(edges ...model.Edge) adjMap {
	a := adjMap{}
	for _, e := range edges {
		a[e.Src] = append(a[e.Src], e)
		a[e.Dst] = append(a[e.Dst], model.Edge{Src: e.Dst, Dst: e.Src, DistM: e.DistM})
	}
	return a
}

func TestDijkstra_Triangle(t *testing.T) {
	// 1-2 (1), 2-3 (2), 1-3 (5): the detour through 2 is cheaper
	g := undirected(
		model.Edge{Src: 1, Dst: 2, DistM: 1},
		model.Edge{Src: 2, Dst: 3, DistM: 2},
		model.Edge{Src: 1, Dst: 3, DistM: 5},
	)

	p, total, explored, err := algo.Dijkstra(g, 1, 3, algo.Distance)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, p)
	assert.Equal(t, 3.0, total)
	assert.Equal(t, 2, explored)
}

func TestDijkstra_SameNode(t *testing.T) {
	g := undirected(model.Edge{Src: 1, Dst: 2, DistM: 4})

	p, total, _, err := algo.Dijkstra(g, 1, 1, algo.Distance)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, p)
	assert.Zero(t, total)
}

func TestDijkstra_Unreachable(t *testing.T) {
	g := undirected(
		model.Edge{Src: 1, Dst: 2, DistM: 1},
		model.Edge{Src: 3, Dst: 4, DistM: 1},
	)

	p, total, _, err := algo.Dijkstra(g, 1, 4, algo.Distance)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Zero(t, total)
}

func TestDijkstra_ZeroWeightEdges(t *testing.T) {
	g := undirected(
		model.Edge{Src: 1, Dst: 2, DistM: 0},
		model.Edge{Src: 2, Dst: 3, DistM: 0},
	)

	p, total, _, err := algo.Dijkstra(g, 1, 3, algo.Distance)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, p)
	assert.Zero(t, total)
}

type failing struct{}

var errBoom = errors.New("boom")

func (failing) Neighbors(int64) ([]model.Edge, error) { return nil, errBoom }

func TestDijkstra_NeighborError(t *testing.T) {
	_, _, _, err := algo.Dijkstra(failing{}, 1, 2, algo.Distance)
	assert.ErrorIs(t, err, errBoom)
}

func TestDijkstra_CustomCost(t *testing.T) {
	g := undirected(
		model.Edge{Src: 1, Dst: 2, DistM: 1},
		model.Edge{Src: 2, Dst: 3, DistM: 1},
		model.Edge{Src: 1, Dst: 3, DistM: 5},
	)
	// every hop costs the same: the direct edge wins
	hops := func(model.Edge) float64 { return 1 }

	p, total, _, err := algo.Dijkstra(g, 1, 3, hops)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, p)
	assert.Equal(t, 1.0, total)
}

// The campus fixture answers must agree with gonum's reference search.
func TestDijkstra_AgreesWithGonum(t *testing.T) {
	g := graphtest.Campus()

	ref := simple.NewWeightedUndirectedGraph(0, 0)
	for _, n := range graphtest.Nodes() {
		ref.AddNode(simple.Node(n.ID))
	}
	for _, e := range graphtest.Edges() {
		ref.SetWeightedEdge(ref.NewWeightedEdge(simple.Node(e.Src), simple.Node(e.Dst), e.DistM))
	}

	for _, src := range graphtest.Nodes() {
		tree := path.DijkstraFrom(simple.Node(src.ID), ref)
		for _, dst := range graphtest.Nodes() {
			p, total, _, err := algo.Dijkstra(g, src.ID, dst.ID, algo.Distance)
			require.NoError(t, err)

			want, wantTotal := tree.To(dst.ID)
			if len(want) == 0 {
				assert.Nil(t, p, "%d -> %d", src.ID, dst.ID)
				continue
			}
			require.NotNil(t, p, "%d -> %d", src.ID, dst.ID)
			assert.InDelta(t, wantTotal, total, 1e-9)

			length, err := g.PathLength(p)
			require.NoError(t, err)
			assert.Equal(t, total, length)
		}
	}
}

func TestDijkstra_UnknownSource(t *testing.T) {
	g := graphtest.Campus()
	_, _, _, err := algo.Dijkstra(g, 999, graphtest.Gate1, algo.Distance)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}
