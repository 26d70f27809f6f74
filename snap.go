package mrtopo

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

const (
	// DefaultSnapDistanceMeters is maximum allowed geodesic distance between
	// queried point and its nearest graph node. If exceeded a new node is
	// inserted into the graph
	DefaultSnapDistanceMeters = 100.0
	// quadtreeMargin pads quadtree bound so points slightly outside of road
	// graph extent can still be indexed (degrees)
	quadtreeMargin = 1.0
)

// Snapper maps arbitrary geographic points onto road graph nodes.
//
// Lookups are memoized by exact coordinate pair. Node insertion is guarded by
// a mutex: single-writer discipline, mutation must never race with another
// snap call
type Snapper struct {
	mu                sync.Mutex
	graph             *RoadGraph
	tree              *quadtree.Quadtree
	cache             map[GeoPoint]NodeID
	maxDistanceMeters float64
}

// NewSnapper creates Snapper over given graph and indexes all existing graph
// nodes for nearest-neighbor search
func NewSnapper(graph *RoadGraph, options ...func(*Snapper)) (*Snapper, error) {
	if graph.NumNodes() == 0 {
		return nil, fmt.Errorf("Graph has no nodes")
	}
	snapper := &Snapper{
		graph:             graph,
		tree:              quadtree.New(graph.bound(quadtreeMargin)),
		cache:             make(map[GeoPoint]NodeID),
		maxDistanceMeters: DefaultSnapDistanceMeters,
	}
	for _, option := range options {
		option(snapper)
	}
	for _, node := range graph.nodes {
		err := snapper.tree.Add(node)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't index node %d", node.ID)
		}
	}
	return snapper, nil
}

// WithSnapDistance sets maximum snap distance (meters)
func WithSnapDistance(meters float64) func(*Snapper) {
	return func(snapper *Snapper) {
		snapper.maxDistanceMeters = meters
	}
}

// Nearest returns ID of nearest existing graph node without any graph
// augmentation. The depot maps through this call: it must land on a
// pre-existing node
func (snapper *Snapper) Nearest(pt GeoPoint) (NodeID, error) {
	snapper.mu.Lock()
	defer snapper.mu.Unlock()
	found := snapper.tree.Find(pt.Point())
	if found == nil {
		return -1, fmt.Errorf("No nearest node for point %s", pt)
	}
	return found.(*RoadNode).ID, nil
}

// Snap returns ID of graph node representing given point.
//
// If geodesic distance between the point and its nearest graph node exceeds
// maximum snap distance, a new node is allocated at the point's coordinates
// and connected to the nearest node with a pair of directed edges weighted by
// that distance. Repeated calls with identical coordinates return the same ID
// and never create a duplicate node
func (snapper *Snapper) Snap(pt GeoPoint) (NodeID, error) {
	snapper.mu.Lock()
	defer snapper.mu.Unlock()

	if id, ok := snapper.cache[pt]; ok {
		return id, nil
	}

	found := snapper.tree.Find(pt.Point())
	if found == nil {
		return -1, fmt.Errorf("No nearest node for point %s", pt)
	}
	nearest := found.(*RoadNode)
	distance := greatCircleDistanceMeters(pt, nearest.GeoPoint())
	if distance <= snapper.maxDistanceMeters {
		snapper.cache[pt] = nearest.ID
		return nearest.ID, nil
	}

	node, err := snapper.graph.allocateNode(pt)
	if err != nil {
		return -1, errors.Wrapf(err, "Can't insert node for point %s", pt)
	}
	err = snapper.graph.AddEdge(node.ID, nearest.ID, distance)
	if err != nil {
		return -1, errors.Wrapf(err, "Can't connect node %d to %d", node.ID, nearest.ID)
	}
	err = snapper.graph.AddEdge(nearest.ID, node.ID, distance)
	if err != nil {
		return -1, errors.Wrapf(err, "Can't connect node %d to %d", nearest.ID, node.ID)
	}
	err = snapper.tree.Add(node)
	if err != nil {
		return -1, errors.Wrapf(err, "Can't index inserted node %d", node.ID)
	}
	snapper.cache[pt] = node.ID
	return node.ID, nil
}
