package mrtopo

import (
	"testing"
)

func testSnapGraph(t *testing.T) *RoadGraph {
	nodes := []RawNode{
		{ID: 1, Geom: GeoPoint{Lon: 0.0, Lat: 0.0}},
		{ID: 2, Geom: GeoPoint{Lon: 0.01, Lat: 0.0}},
	}
	edges := []RawEdge{
		{From: 1, To: 2, LengthMeters: 1100.0},
		{From: 2, To: 1, LengthMeters: 1100.0},
	}
	graph, err := NewSimplifiedGraph(nodes, edges, false)
	if err != nil {
		t.Fatal(err)
	}
	return graph
}

func TestSnapToExistingNode(t *testing.T) {
	graph := testSnapGraph(t)
	snapper, err := NewSnapper(graph)
	if err != nil {
		t.Fatal(err)
	}
	// Roughly 11 meters away from node 1, well within the 100 meters threshold
	id, err := snapper.Snap(GeoPoint{Lon: 0.0001, Lat: 0.0})
	if err != nil {
		t.Error(err)
		return
	}
	if id != 1 {
		t.Errorf("Point must snap to node 1, but got %d", id)
	}
	if graph.NumNodes() != 2 {
		t.Errorf("No node must be inserted, but got %d nodes", graph.NumNodes())
	}
}

func TestSnapInsertsFarNode(t *testing.T) {
	graph := testSnapGraph(t)
	snapper, err := NewSnapper(graph)
	if err != nil {
		t.Fatal(err)
	}
	pt := GeoPoint{Lon: 0.004, Lat: 0.005}
	id, err := snapper.Snap(pt)
	if err != nil {
		t.Error(err)
		return
	}
	if id != 3 {
		t.Errorf("Inserted node must take ID max+1 = 3, but got %d", id)
	}
	if graph.NumNodes() != 3 {
		t.Errorf("Exactly one node must be inserted, but got %d nodes", graph.NumNodes())
	}
	if graph.NumEdges() != 4 {
		t.Errorf("Exactly two edges must be inserted, but got %d edges total", graph.NumEdges())
	}
	node, _ := graph.Node(1)
	expected := greatCircleDistanceMeters(pt, node.GeoPoint())
	forward, ok := graph.EdgeLength(3, 1)
	if !ok {
		t.Errorf("Edge from inserted node to reference node must exist")
	}
	backward, ok := graph.EdgeLength(1, 3)
	if !ok {
		t.Errorf("Edge from reference node to inserted node must exist")
	}
	if Round(forward, 0.001) != Round(expected, 0.001) || Round(backward, 0.001) != Round(expected, 0.001) {
		t.Errorf("Inserted edges must be weighted by geodesic distance %f, but got %f / %f", expected, forward, backward)
	}
}

func TestSnapIdempotent(t *testing.T) {
	graph := testSnapGraph(t)
	snapper, err := NewSnapper(graph)
	if err != nil {
		t.Fatal(err)
	}
	pt := GeoPoint{Lon: 0.004, Lat: 0.005}
	first, err := snapper.Snap(pt)
	if err != nil {
		t.Error(err)
		return
	}
	second, err := snapper.Snap(pt)
	if err != nil {
		t.Error(err)
		return
	}
	if first != second {
		t.Errorf("Repeated snap must return same node ID: %d != %d", first, second)
	}
	if graph.NumNodes() != 3 {
		t.Errorf("Repeated snap must not insert duplicate node, got %d nodes", graph.NumNodes())
	}
}

func TestNearestNeverAugments(t *testing.T) {
	graph := testSnapGraph(t)
	snapper, err := NewSnapper(graph)
	if err != nil {
		t.Fatal(err)
	}
	// Far away from both nodes
	id, err := snapper.Nearest(GeoPoint{Lon: 0.05, Lat: 0.05})
	if err != nil {
		t.Error(err)
		return
	}
	if id != 2 {
		t.Errorf("Nearest node must be 2, but got %d", id)
	}
	if graph.NumNodes() != 2 {
		t.Errorf("Nearest lookup must not mutate the graph, got %d nodes", graph.NumNodes())
	}
}
