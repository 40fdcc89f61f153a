package provider

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atharv3903/campusnav/internal/graph"
	"github.com/atharv3903/campusnav/internal/model"
)

type jsonGraph struct {
	Nodes []model.Node `json:"nodes"`
	Edges []jsonEdge   `json:"edges"`
}

// jsonEdge.Length is optional; a missing length is the haversine distance
// between the endpoints.
type jsonEdge struct {
	Src    int64    `json:"src"`
	Dst    int64    `json:"dst"`
	Length *float64 `json:"length,omitempty"`
}

func readJSON(path string) ([]model.Node, []model.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var raw jsonGraph
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	coords := make(map[int64]model.Coord, len(raw.Nodes))
	for _, n := range raw.Nodes {
		coords[n.ID] = n.Coord()
	}

	edges := make([]model.Edge, 0, len(raw.Edges))
	for _, e := range raw.Edges {
		edge := model.Edge{Src: e.Src, Dst: e.Dst}
		if e.Length != nil {
			edge.DistM = *e.Length
		} else {
			a, okA := coords[e.Src]
			b, okB := coords[e.Dst]
			if !okA || !okB {
				return nil, nil, fmt.Errorf("%s: %w: %d-%d", path, graph.ErrUnknownNode, e.Src, e.Dst)
			}
			edge.DistM = graph.Haversine(a, b)
		}
		edges = append(edges, edge)
	}

	return raw.Nodes, edges, nil
}

// fmi parse states
const (
	parseNodeCount = iota
	parseEdgeCount
	parseNodes
	parseEdges
)

func threeFields(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("want 3 fields, got %d", len(fields))
	}
	return fields, nil
}

// readFMI parses the line format
//
//	<node count>
//	<edge count>
//	<id> <lat> <lon>       (node count lines)
//	<src> <dst> <meters>   (edge count lines)
//
// Blank lines and lines starting with '#' are skipped.
func readFMI(path string) ([]model.Node, []model.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var (
		nodes    []model.Node
		edges    []model.Edge
		numNodes int
		numEdges int
		state    = parseNodeCount
		lineNo   int
	)
	errLine := func(err error) error { return fmt.Errorf("%s:%d: %w", path, lineNo, err) }

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		switch state {
		case parseNodeCount:
			if numNodes, err = strconv.Atoi(line); err != nil {
				return nil, nil, errLine(err)
			}
			nodes = make([]model.Node, 0, numNodes)
			state = parseEdgeCount
		case parseEdgeCount:
			if numEdges, err = strconv.Atoi(line); err != nil {
				return nil, nil, errLine(err)
			}
			edges = make([]model.Edge, 0, numEdges)
			state = parseNodes
			if numNodes == 0 {
				state = parseEdges
			}
		case parseNodes:
			fields, err := threeFields(line)
			if err != nil {
				return nil, nil, errLine(err)
			}
			var n model.Node
			if n.ID, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
				return nil, nil, errLine(err)
			}
			if n.Lat, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, nil, errLine(err)
			}
			if n.Lon, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, nil, errLine(err)
			}
			nodes = append(nodes, n)
			if len(nodes) == numNodes {
				state = parseEdges
			}
		case parseEdges:
			if len(edges) == numEdges {
				return nil, nil, errLine(fmt.Errorf("more than %d edges", numEdges))
			}
			fields, err := threeFields(line)
			if err != nil {
				return nil, nil, errLine(err)
			}
			var e model.Edge
			if e.Src, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
				return nil, nil, errLine(err)
			}
			if e.Dst, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
				return nil, nil, errLine(err)
			}
			if e.DistM, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, nil, errLine(err)
			}
			edges = append(edges, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	if len(nodes) != numNodes || len(edges) != numEdges {
		return nil, nil, fmt.Errorf("%s: want %d nodes and %d edges, got %d and %d",
			path, numNodes, numEdges, len(nodes), len(edges))
	}
	return nodes, edges, nil
}
