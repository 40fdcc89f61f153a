package algo

import "github.com/atharv3903/campusnav/internal/model"

// GraphCtx is the view of the street network a search runs against.
// *graph.Graph satisfies it.
type GraphCtx interface {
	Neighbors(n int64) ([]model.Edge, error)
}

// CostFunc turns an edge into a non-negative search cost.
type CostFunc func(e model.Edge) float64

// Distance costs an edge by its length in meters.
func Distance(e model.Edge) float64 { return e.DistM }
