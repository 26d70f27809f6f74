package mrtopo

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// RawNode is a node of raw (not simplified yet) road graph
type RawNode struct {
	ID   NodeID
	Geom GeoPoint
}

// RawEdge is a directed edge of raw road graph. Raw graph may contain
// parallel edges and self-loops
type RawEdge struct {
	From         NodeID
	To           NodeID
	LengthMeters float64
}

// NewSimplifiedGraph collapses raw multigraph into a simple directed graph:
// self-loop edges are discarded, for every ordered pair of nodes with
// multiple parallel edges only the edge of minimum length is retained.
//
// An edge with unusable length (NaN or negative) is a validation error.
func NewSimplifiedGraph(nodes []RawNode, edges []RawEdge, verbose bool) (*RoadGraph, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("Empty set of nodes")
	}
	if verbose {
		fmt.Printf("Simplifying road graph...")
	}
	st := time.Now()

	graph := NewRoadGraph()
	for _, node := range nodes {
		_, err := graph.AddNode(node.ID, node.Geom)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't add node %d", node.ID)
		}
	}

	selfLoops := 0
	parallel := 0
	for _, edge := range edges {
		if math.IsNaN(edge.LengthMeters) || edge.LengthMeters < 0 {
			return nil, fmt.Errorf("Edge %d -> %d has no usable length", edge.From, edge.To)
		}
		if edge.From == edge.To {
			selfLoops++
			continue
		}
		if known, ok := graph.EdgeLength(edge.From, edge.To); ok {
			parallel++
			if edge.LengthMeters >= known {
				continue
			}
		}
		err := graph.AddEdge(edge.From, edge.To, edge.LengthMeters)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't add edge %d -> %d", edge.From, edge.To)
		}
	}

	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("\tNodes: %d Edges: %d Dropped self-loops: %d Collapsed parallel edges: %d\n", graph.NumNodes(), graph.NumEdges(), selfLoops, parallel)
	}
	return graph, nil
}
