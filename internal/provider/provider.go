// Package provider loads the walkable street network for a region.
//
// The network comes either from MySQL (nodes/edges tables) or from a graph
// file on disk. Either way the result is an immutable *graph.Graph built once
// at startup.
package provider

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/db"
	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/model"
)

var ErrUnknownFormat = errors.New("provider: unknown graph file format")

type Provider interface {
	Load(ctx context.Context, region model.Region) (*graph.Graph, error)
}

// MySQL reads the graph from the nodes/edges tables.
type MySQL struct {
	Store db.Store
	Log   *zap.Logger
}

func (p MySQL) Load(ctx context.Context, region model.Region) (*graph.Graph, error) {
	start := time.Now()

	nodes, err := p.Store.Nodes(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	edges, err := p.Store.Edges(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}

	g, err := graph.Build(nodes, edges)
	if err != nil {
		return nil, err
	}
	logLoaded(p.Log, "mysql", g, time.Since(start))
	return g, nil
}

// File reads a JSON or FMI graph file, chosen by extension.
type File struct {
	Path string
	Log  *zap.Logger
}

func (p File) Load(ctx context.Context, region model.Region) (*graph.Graph, error) {
	start := time.Now()

	nodes, edges, err := ReadFile(p.Path)
	if err != nil {
		return nil, err
	}
	nodes, edges = Clip(nodes, edges, region)

	g, err := graph.Build(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	logLoaded(p.Log, "file", g, time.Since(start))
	return g, nil
}

// ReadFile parses a graph file without building it.
func ReadFile(path string) ([]model.Node, []model.Edge, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSON(path)
	case ".fmi", ".txt":
		return readFMI(path)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Clip keeps the nodes inside region and the edges between them.
func Clip(nodes []model.Node, edges []model.Edge, region model.Region) ([]model.Node, []model.Edge) {
	if region.IsZero() {
		return nodes, edges
	}

	keep := make(map[int64]bool, len(nodes))
	outN := make([]model.Node, 0, len(nodes))
	for _, n := range nodes {
		if region.Contains(n.Coord()) {
			keep[n.ID] = true
			outN = append(outN, n)
		}
	}

	outE := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if keep[e.Src] && keep[e.Dst] {
			outE = append(outE, e)
		}
	}
	return outN, outE
}

func logLoaded(log *zap.Logger, source string, g *graph.Graph, took time.Duration) {
	if log == nil {
		return
	}
	st := g.Stats()
	log.Info("graph loaded",
		zap.String("source", source),
		zap.Int("nodes", st.Nodes),
		zap.Int("edges", st.Edges),
		zap.Int("components", st.Components),
		zap.Duration("took", took),
	)
}
