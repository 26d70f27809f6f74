package mrtopo

import (
	"math"
	"testing"
)

// Chain 1 --10--> 2 --5--> 3 (both directions), plus a spur node 4 no task
// ever touches
func testTopologyGraph(t *testing.T) *RoadGraph {
	nodes := []RawNode{
		{ID: 1, Geom: GeoPoint{Lon: 0.0, Lat: 0.0}},
		{ID: 2, Geom: GeoPoint{Lon: 0.001, Lat: 0.0}},
		{ID: 3, Geom: GeoPoint{Lon: 0.002, Lat: 0.0}},
		{ID: 4, Geom: GeoPoint{Lon: 0.004, Lat: 0.0}},
	}
	edges := []RawEdge{
		{From: 1, To: 2, LengthMeters: 10.0},
		{From: 2, To: 1, LengthMeters: 10.0},
		{From: 2, To: 3, LengthMeters: 5.0},
		{From: 3, To: 2, LengthMeters: 5.0},
		{From: 3, To: 4, LengthMeters: 100.0},
		{From: 4, To: 3, LengthMeters: 100.0},
	}
	graph, err := NewSimplifiedGraph(nodes, edges, false)
	if err != nil {
		t.Fatal(err)
	}
	return graph
}

func testTopologyTasks() []*TaskPoint {
	return []*TaskPoint{
		{
			Origin:         GeoPoint{Lon: 0.0001, Lat: 0.0}, // ~11 meters from node 1
			Destination:    GeoPoint{Lon: 0.001, Lat: 0.0},  // node 2
			Side:           SIDE_RIGHT,
			ProcessingTime: 2.0,
		},
		{
			Origin:         GeoPoint{Lon: 0.002, Lat: 0.0}, // node 3
			Destination:    GeoPoint{Lon: 0.001, Lat: 0.0}, // node 2
			Side:           SIDE_RIGHT,
			ProcessingTime: 3.0,
		},
	}
}

func buildTestTopology(t *testing.T) *Topology {
	builder, err := NewTopologyBuilder(testTopologyGraph(t), GeoPoint{Lon: 0.0, Lat: 0.0}, testTopologyTasks(), WithWorkersNum(2))
	if err != nil {
		t.Fatal(err)
	}
	topology, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}
	return topology
}

func TestTopologyPointPairs(t *testing.T) {
	topology := buildTestTopology(t)

	// All points sit within the snap threshold: no node must be inserted
	if topology.Graph.NumNodes() != 4 {
		t.Errorf("No node must be inserted, but got %d nodes", topology.Graph.NumNodes())
	}
	if !topology.Graph.Frozen() {
		t.Errorf("Graph must be frozen after build")
	}

	// 2 tasks: 4 depot pairs each plus 4 cross pairs per ordered task pair
	if len(topology.Points) != 16 {
		t.Errorf("Expected 16 point pairs, but got %d", len(topology.Points))
	}
	for pair := range topology.Points {
		if pair.From == pair.To {
			t.Errorf("Self-pair %v must not be enumerated", pair)
		}
	}

	// Depot to first task's destination: node 1 -> node 2
	if meters := topology.Points[PointPair{DepotIndex, 2}]; meters != 10.0 {
		t.Errorf("Depot to point 2 must weight 10 meters, but got %f", meters)
	}
	// First task's destination to second task's origin: node 2 -> node 3
	if meters := topology.Points[PointPair{2, 3}]; meters != 5.0 {
		t.Errorf("Point 2 to point 3 must weight 5 meters, but got %f", meters)
	}
	// Second task's destination back to first task's origin: node 2 -> node 1
	if meters := topology.Points[PointPair{4, 1}]; meters != 10.0 {
		t.Errorf("Point 4 to point 1 must weight 10 meters, but got %f", meters)
	}

	if node, ok := topology.NodeByIndex(DepotIndex); !ok || node != 1 {
		t.Errorf("Depot must map to node 1, but got %d", node)
	}
	if node, ok := topology.NodeByIndex(4); !ok || node != 2 {
		t.Errorf("Point 4 must map to node 2, but got %d", node)
	}
}

func TestTaskTravelTimesExcluded(t *testing.T) {
	topology := buildTestTopology(t)
	taskTopology := topology.TaskTravelTimes(PROCESSING_TIME_EXCLUDED)

	eps := 0.0000001
	cases := []struct {
		from     TaskID
		to       TaskID
		expected float64
	}{
		{DepotIndex, 1, 10.0 / 60.0 / 1000.0},
		{1, DepotIndex, 10.0 / 60.0 / 1000.0},
		{DepotIndex, 2, 10.0 / 60.0 / 1000.0},
		{2, DepotIndex, 10.0 / 60.0 / 1000.0},
		{1, 2, 5.0 / 60.0 / 1000.0},
		{2, 1, 10.0 / 60.0 / 1000.0},
	}
	if len(taskTopology) != len(cases) {
		t.Errorf("Expected %d task pairs, but got %d", len(cases), len(taskTopology))
	}
	for _, testCase := range cases {
		minutes, ok := taskTopology[TaskPair{testCase.from, testCase.to}]
		if !ok {
			t.Errorf("Pair %d->%d must be present", testCase.from, testCase.to)
			continue
		}
		if math.Abs(minutes-testCase.expected) > eps {
			t.Errorf("Pair %d->%d must weight %f minutes, but got %f", testCase.from, testCase.to, testCase.expected, minutes)
		}
	}
}

func TestTaskTravelTimesIncluded(t *testing.T) {
	topology := buildTestTopology(t)
	taskTopology := topology.TaskTravelTimes(PROCESSING_TIME_INCLUDED)

	eps := 0.0000001
	// Depot to task 1 gains task 1's own processing time
	expected := 10.0/60.0/1000.0 + 2.0
	if minutes := taskTopology[TaskPair{DepotIndex, 1}]; math.Abs(minutes-expected) > eps {
		t.Errorf("Depot to task 1 must weight %f minutes, but got %f", expected, minutes)
	}
	// Task 1 to task 2 (side right) gains task 2's processing time
	expected = 5.0/60.0/1000.0 + 3.0
	if minutes := taskTopology[TaskPair{1, 2}]; math.Abs(minutes-expected) > eps {
		t.Errorf("Task 1 to task 2 must weight %f minutes, but got %f", expected, minutes)
	}
	// Return to depot never gains processing time
	expected = 10.0 / 60.0 / 1000.0
	if minutes := taskTopology[TaskPair{1, DepotIndex}]; math.Abs(minutes-expected) > eps {
		t.Errorf("Task 1 back to depot must weight %f minutes, but got %f", expected, minutes)
	}
}

func TestTaskTravelTimesUndefinedSideOmitted(t *testing.T) {
	tasks := testTopologyTasks()
	tasks[0].Side = SIDE_UNDEFINED
	builder, err := NewTopologyBuilder(testTopologyGraph(t), GeoPoint{Lon: 0.0, Lat: 0.0}, tasks, WithWorkersNum(2))
	if err != nil {
		t.Fatal(err)
	}
	topology, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}
	taskTopology := topology.TaskTravelTimes(PROCESSING_TIME_EXCLUDED)
	if _, ok := taskTopology[TaskPair{1, 2}]; ok {
		t.Errorf("Pair from task with undefined side must be omitted")
	}
	if _, ok := taskTopology[TaskPair{2, 1}]; !ok {
		t.Errorf("Pair into task with undefined side must stay")
	}
	if _, ok := taskTopology[TaskPair{DepotIndex, 1}]; !ok {
		t.Errorf("Depot pairs must not depend on side")
	}
}

func TestTaskTravelTimesLeftSide(t *testing.T) {
	tasks := testTopologyTasks()
	tasks[0].Side = SIDE_LEFT
	builder, err := NewTopologyBuilder(testTopologyGraph(t), GeoPoint{Lon: 0.0, Lat: 0.0}, tasks, WithWorkersNum(2))
	if err != nil {
		t.Fatal(err)
	}
	topology, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}
	taskTopology := topology.TaskTravelTimes(PROCESSING_TIME_INCLUDED)

	// Side left: path from task 2's origin (node 3) to task 1's destination
	// (node 2) plus task 1's processing time
	eps := 0.0000001
	expected := 5.0/60.0/1000.0 + 2.0
	if minutes := taskTopology[TaskPair{1, 2}]; math.Abs(minutes-expected) > eps {
		t.Errorf("Task 1 to task 2 on left side must weight %f minutes, but got %f", expected, minutes)
	}
}

func TestTaskTravelTimesUnreachablePair(t *testing.T) {
	// Two components: nodes 1-2 connected, node 3 on its own far away
	nodes := []RawNode{
		{ID: 1, Geom: GeoPoint{Lon: 0.0, Lat: 0.0}},
		{ID: 2, Geom: GeoPoint{Lon: 0.001, Lat: 0.0}},
		{ID: 3, Geom: GeoPoint{Lon: 0.01, Lat: 0.0}},
	}
	edges := []RawEdge{
		{From: 1, To: 2, LengthMeters: 10.0},
		{From: 2, To: 1, LengthMeters: 10.0},
	}
	graph, err := NewSimplifiedGraph(nodes, edges, false)
	if err != nil {
		t.Fatal(err)
	}
	tasks := []*TaskPoint{
		{
			Origin:         GeoPoint{Lon: 0.0, Lat: 0.0},
			Destination:    GeoPoint{Lon: 0.001, Lat: 0.0},
			Side:           SIDE_RIGHT,
			ProcessingTime: 2.0,
		},
		{
			Origin:         GeoPoint{Lon: 0.01, Lat: 0.0},
			Destination:    GeoPoint{Lon: 0.01, Lat: 0.0},
			Side:           SIDE_RIGHT,
			ProcessingTime: 3.0,
		},
	}
	builder, err := NewTopologyBuilder(graph, GeoPoint{Lon: 0.0, Lat: 0.0}, tasks, WithWorkersNum(2))
	if err != nil {
		t.Fatal(err)
	}
	topology, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}
	taskTopology := topology.TaskTravelTimes(PROCESSING_TIME_EXCLUDED)

	// Task 2 sits on the detached component: transitions to and from it must
	// be forbidden (+Inf), never free
	for _, pair := range []TaskPair{{1, 2}, {2, 1}, {DepotIndex, 2}, {2, DepotIndex}} {
		minutes, ok := taskTopology[pair]
		if !ok {
			t.Errorf("Pair %d->%d must be present", pair.From, pair.To)
			continue
		}
		if !math.IsInf(minutes, 1) {
			t.Errorf("Pair %d->%d must weight +Inf minutes, but got %f", pair.From, pair.To, minutes)
		}
	}
	// The connected pair stays finite
	if minutes := taskTopology[TaskPair{DepotIndex, 1}]; math.IsInf(minutes, 1) {
		t.Errorf("Depot to task 1 must stay reachable, but got +Inf")
	}
}

func TestInducedSubgraph(t *testing.T) {
	topology := buildTestTopology(t)
	subgraph, err := topology.InducedSubgraph()
	if err != nil {
		t.Error(err)
		return
	}
	// Spur node 4 is never traversed and must stay out
	if subgraph.NumNodes() != 3 {
		t.Errorf("Subgraph must contain 3 nodes, but got %d", subgraph.NumNodes())
	}
	if _, ok := subgraph.Node(4); ok {
		t.Errorf("Untraversed node 4 must not appear in subgraph")
	}
	if subgraph.NumEdges() != 4 {
		t.Errorf("Subgraph must contain 4 edges, but got %d", subgraph.NumEdges())
	}
	if meters, ok := subgraph.EdgeLength(2, 3); !ok || meters != 5.0 {
		t.Errorf("Subgraph edge 2->3 must keep weight 5, but got %f", meters)
	}
	if !subgraph.Frozen() {
		t.Errorf("Subgraph must be frozen")
	}
}
