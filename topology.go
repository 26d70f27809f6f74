package mrtopo

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultWorkersNum is default width of worker pool computing shortest paths
const DefaultWorkersNum = 8

// PointPair is ordered pair of point indices
type PointPair struct {
	From int
	To   int
}

// PointTopology maps ordered point-index pair to raw shortest path length in
// meters. Directed, not assumed symmetric
type PointTopology map[PointPair]float64

// PathSet maps ordered point-index pair to the computed path record
type PathSet map[PointPair]PathRecord

// Topology is the produced travel topology: frozen graph (including nodes
// inserted during snapping), point-to-point table, per-pair path records and
// point coordinates. Handed to downstream consumers as immutable artifact
type Topology struct {
	Graph  *RoadGraph
	Points PointTopology
	Paths  PathSet
	Coords map[int]GeoPoint
	Tasks  []*TaskPoint

	nodeByIndex map[int]NodeID
}

// NodeByIndex returns graph node the point index was snapped to
func (topology *Topology) NodeByIndex(index int) (NodeID, bool) {
	id, ok := topology.nodeByIndex[index]
	return id, ok
}

// TopologyBuilder computes travel topology between depot and task points
// over a simplified road graph.
//
// Execution is strictly two-phase. Phase 1: every point is snapped onto the
// graph sequentially, possibly inserting new nodes. Phase 2: the graph is
// frozen and all point-pair shortest paths are dispatched to a bounded pool
// of workers which only read the graph
type TopologyBuilder struct {
	graph        *RoadGraph
	depot        GeoPoint
	tasks        []*TaskPoint
	workersNum   int
	snapDistance float64
	verbose      bool
}

// NewTopologyBuilder prepares builder for given graph, depot coordinates and
// discovered task points. Tasks are numbered in given order, depot is always
// index 0
func NewTopologyBuilder(graph *RoadGraph, depot GeoPoint, tasks []*TaskPoint, options ...func(*TopologyBuilder)) (*TopologyBuilder, error) {
	if graph == nil || graph.NumNodes() == 0 {
		return nil, fmt.Errorf("Graph is empty")
	}
	if graph.Frozen() {
		return nil, fmt.Errorf("Graph is frozen already")
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("Empty set of tasks")
	}
	builder := &TopologyBuilder{
		graph:        graph,
		depot:        depot,
		tasks:        tasks,
		workersNum:   DefaultWorkersNum,
		snapDistance: DefaultSnapDistanceMeters,
	}
	for _, option := range options {
		option(builder)
	}
	if builder.workersNum < 1 {
		return nil, fmt.Errorf("Bad number of workers: %d", builder.workersNum)
	}
	return builder, nil
}

// WithWorkersNum sets width of shortest path worker pool
func WithWorkersNum(workersNum int) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.workersNum = workersNum
	}
}

// WithBuilderSnapDistance sets maximum snap distance (meters) for task points
func WithBuilderSnapDistance(meters float64) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.snapDistance = meters
	}
}

// WithVerbose enables progress output
func WithVerbose(verbose bool) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.verbose = verbose
	}
}

type pointQuery struct {
	fromIndex int
	toIndex   int
	fromNode  NodeID
	toNode    NodeID
}

// Build runs both phases and returns produced topology
func (builder *TopologyBuilder) Build() (*Topology, error) {
	enumerateTasks(builder.tasks)

	/* Phase 1: snap all points, mutating the graph under single writer */
	if builder.verbose {
		fmt.Printf("Snapping %d task points...", len(builder.tasks))
	}
	st := time.Now()

	snapper, err := NewSnapper(builder.graph, WithSnapDistance(builder.snapDistance))
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare snapper")
	}

	nodeByIndex := make(map[int]NodeID)
	coords := make(map[int]GeoPoint)

	// Depot is never augmented: it maps to its nearest node as is
	depotNode, err := snapper.Nearest(builder.depot)
	if err != nil {
		return nil, errors.Wrap(err, "Can't snap depot")
	}
	nodeByIndex[DepotIndex] = depotNode
	coords[DepotIndex] = builder.nodeCoords(depotNode)

	for _, task := range builder.tasks {
		originNode, err := snapper.Snap(task.Origin)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't snap origin of task %d", task.ID)
		}
		destinationNode, err := snapper.Snap(task.Destination)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't snap destination of task %d", task.ID)
		}
		nodeByIndex[task.OriginIndex] = originNode
		nodeByIndex[task.DestinationIndex] = destinationNode
		coords[task.OriginIndex] = builder.nodeCoords(originNode)
		coords[task.DestinationIndex] = builder.nodeCoords(destinationNode)
	}

	builder.graph.Freeze()
	if builder.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	/* Phase 2: read-only parallel shortest path computation */
	queries := builder.pointQueries(nodeByIndex)
	if builder.verbose {
		fmt.Printf("Computing %d shortest paths with %d workers...", len(queries), builder.workersNum)
	}
	st = time.Now()

	engine, err := NewPathEngine(builder.graph, NewPathCache())
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare path engine")
	}

	points := make(PointTopology, len(queries))
	paths := make(PathSet, len(queries))

	jobs := make(chan pointQuery, len(queries))
	for _, query := range queries {
		jobs <- query
	}
	close(jobs)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < builder.workersNum; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for query := range jobs {
				record := engine.Path(query.fromNode, query.toNode)
				mu.Lock()
				points[PointPair{query.fromIndex, query.toIndex}] = record.LengthMeters
				paths[PointPair{query.fromIndex, query.toIndex}] = record
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if builder.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	return &Topology{
		Graph:       builder.graph,
		Points:      points,
		Paths:       paths,
		Coords:      coords,
		Tasks:       builder.tasks,
		nodeByIndex: nodeByIndex,
	}, nil
}

func (builder *TopologyBuilder) nodeCoords(id NodeID) GeoPoint {
	node, _ := builder.graph.Node(id)
	return node.GeoPoint()
}

// pointQueries enumerates every ordered point pair the topology covers:
// depot <-> every task origin/destination, and all four origin/destination
// cross combinations for every ordered pair of distinct tasks. Self-pairs
// never appear
func (builder *TopologyBuilder) pointQueries(nodeByIndex map[int]NodeID) []pointQuery {
	queries := make([]pointQuery, 0)
	seen := make(map[PointPair]struct{})

	add := func(fromIndex, toIndex int) {
		if fromIndex == toIndex {
			return
		}
		pair := PointPair{fromIndex, toIndex}
		if _, ok := seen[pair]; ok {
			return
		}
		seen[pair] = struct{}{}
		queries = append(queries, pointQuery{
			fromIndex: fromIndex,
			toIndex:   toIndex,
			fromNode:  nodeByIndex[fromIndex],
			toNode:    nodeByIndex[toIndex],
		})
	}

	for _, task := range builder.tasks {
		add(DepotIndex, task.OriginIndex)
		add(task.OriginIndex, DepotIndex)
		add(DepotIndex, task.DestinationIndex)
		add(task.DestinationIndex, DepotIndex)
	}
	for _, first := range builder.tasks {
		for _, second := range builder.tasks {
			if first.ID == second.ID {
				continue
			}
			add(first.OriginIndex, second.OriginIndex)
			add(first.OriginIndex, second.DestinationIndex)
			add(first.DestinationIndex, second.OriginIndex)
			add(first.DestinationIndex, second.DestinationIndex)
		}
	}
	return queries
}
