package mrtopo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// NodeID is an identifier of single node in road graph
type NodeID int64

// RoadNode is a single vertex of road graph
type RoadNode struct {
	ID   NodeID
	geom orb.Point
}

// Point returns orb representation of node's coordinates. Implements orb.Pointer
func (node *RoadNode) Point() orb.Point {
	return node.geom
}

// GeoPoint returns node's coordinates
func (node *RoadNode) GeoPoint() GeoPoint {
	return geoPointFromOrb(node.geom)
}

// RoadGraph is a simple weighted directed graph: at most one edge per ordered
// pair of nodes, weight is length in meters.
//
// The graph is mutable until Freeze() is called. After that any mutation
// returns an error; shortest path queries expect a frozen graph.
type RoadGraph struct {
	nodes     map[NodeID]*RoadNode
	edges     map[NodeID]map[NodeID]float64
	maxNodeID NodeID
	edgesNum  int
	frozen    bool
}

// NewRoadGraph returns empty road graph
func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes:     make(map[NodeID]*RoadNode),
		edges:     make(map[NodeID]map[NodeID]float64),
		maxNodeID: -1,
	}
}

// AddNode adds new node to the graph. Node ID collision is a fatal error
// since it corrupts every table built on top of the node-id space
func (graph *RoadGraph) AddNode(id NodeID, pt GeoPoint) (*RoadNode, error) {
	if graph.frozen {
		return nil, fmt.Errorf("Graph is frozen")
	}
	if id < 0 {
		return nil, fmt.Errorf("Node ID should not be negative, but got '%d'", id)
	}
	if _, ok := graph.nodes[id]; ok {
		return nil, fmt.Errorf("Node with ID '%d' already exists", id)
	}
	node := &RoadNode{
		ID:   id,
		geom: pt.Point(),
	}
	graph.nodes[id] = node
	if id > graph.maxNodeID {
		graph.maxNodeID = id
	}
	return node, nil
}

// allocateNode adds new node with next free ID. IDs are monotonic and never
// reused, so every allocated ID is strictly greater than any pre-existing one
func (graph *RoadGraph) allocateNode(pt GeoPoint) (*RoadNode, error) {
	return graph.AddNode(graph.maxNodeID+1, pt)
}

// AddEdge adds directed edge between two existing nodes. If edge already
// exists its length is overwritten
func (graph *RoadGraph) AddEdge(from, to NodeID, lengthMeters float64) error {
	if graph.frozen {
		return fmt.Errorf("Graph is frozen")
	}
	if math.IsNaN(lengthMeters) || lengthMeters < 0 {
		return fmt.Errorf("Bad length '%f' for edge %d -> %d", lengthMeters, from, to)
	}
	if _, ok := graph.nodes[from]; !ok {
		return fmt.Errorf("No such source node: %d", from)
	}
	if _, ok := graph.nodes[to]; !ok {
		return fmt.Errorf("No such target node: %d", to)
	}
	if _, ok := graph.edges[from]; !ok {
		graph.edges[from] = make(map[NodeID]float64)
	}
	if _, ok := graph.edges[from][to]; !ok {
		graph.edgesNum++
	}
	graph.edges[from][to] = lengthMeters
	return nil
}

// Node returns node by given ID
func (graph *RoadGraph) Node(id NodeID) (*RoadNode, bool) {
	node, ok := graph.nodes[id]
	return node, ok
}

// EdgeLength returns length (meters) of edge between two nodes
func (graph *RoadGraph) EdgeLength(from, to NodeID) (float64, bool) {
	if adjacent, ok := graph.edges[from]; ok {
		length, ok := adjacent[to]
		return length, ok
	}
	return 0, false
}

// forAdjacent calls given function for every outcoming edge of the node
func (graph *RoadGraph) forAdjacent(from NodeID, fn func(to NodeID, lengthMeters float64)) {
	for to, length := range graph.edges[from] {
		fn(to, length)
	}
}

// NumNodes returns number of nodes in the graph
func (graph *RoadGraph) NumNodes() int {
	return len(graph.nodes)
}

// NumEdges returns number of directed edges in the graph
func (graph *RoadGraph) NumEdges() int {
	return graph.edgesNum
}

// Freeze forbids any further mutation of the graph. Called once snapping
// phase is done and before any shortest path query
func (graph *RoadGraph) Freeze() {
	graph.frozen = true
}

// Frozen reports whether the graph is in read-only phase
func (graph *RoadGraph) Frozen() bool {
	return graph.frozen
}

// bound returns bounding box over all graph nodes padded by given margin (degrees)
func (graph *RoadGraph) bound(margin float64) orb.Bound {
	first := true
	var b orb.Bound
	for _, node := range graph.nodes {
		if first {
			b = orb.Bound{Min: node.geom, Max: node.geom}
			first = false
			continue
		}
		b = b.Extend(node.geom)
	}
	b.Min[0] -= margin
	b.Min[1] -= margin
	b.Max[0] += margin
	b.Max[1] += margin
	return b
}
