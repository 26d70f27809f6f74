package mrtopo

import (
	"github.com/pkg/errors"
)

// InducedSubgraph collects every directed edge traversed by computed paths
// and returns the subgraph induced over those edges, for downstream reuse or
// visualization. Single-node paths contribute nothing
func (topology *Topology) InducedSubgraph() (*RoadGraph, error) {
	subgraph := NewRoadGraph()
	for _, record := range topology.Paths {
		if len(record.Path) < 2 {
			continue
		}
		for i := 0; i+1 < len(record.Path); i++ {
			from := record.Path[i]
			to := record.Path[i+1]
			err := copyNode(topology.Graph, subgraph, from)
			if err != nil {
				return nil, err
			}
			err = copyNode(topology.Graph, subgraph, to)
			if err != nil {
				return nil, err
			}
			if _, ok := subgraph.EdgeLength(from, to); ok {
				continue
			}
			length, ok := topology.Graph.EdgeLength(from, to)
			if !ok {
				return nil, errors.Errorf("Path traverses unknown edge %d -> %d", from, to)
			}
			err = subgraph.AddEdge(from, to, length)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't add edge %d -> %d", from, to)
			}
		}
	}
	subgraph.Freeze()
	return subgraph, nil
}

func copyNode(source, target *RoadGraph, id NodeID) error {
	if _, ok := target.Node(id); ok {
		return nil
	}
	node, ok := source.Node(id)
	if !ok {
		return errors.Errorf("Path traverses unknown node %d", id)
	}
	_, err := target.AddNode(id, node.GeoPoint())
	if err != nil {
		return errors.Wrapf(err, "Can't add node %d", id)
	}
	return nil
}
