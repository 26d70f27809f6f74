package mrtopo

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// ExportContracted prepares contraction hierarchies over the frozen graph
// and saves them for the downstream route optimizer. E.g.: if file name is
// 'graph.csv' then 2 files will be produced: 'graph_vertices.csv' (vertices
// with hierarchy positions) and 'graph_shortcuts.csv' (evaluated shortcuts)
func (graph *RoadGraph) ExportContracted(fname string, geomFormat GeometryFormat, verbose bool) error {
	if !graph.Frozen() {
		return fmt.Errorf("Graph is not frozen yet")
	}

	fnameParts := strings.Split(fname, ".csv")
	fnameVertices := fmt.Sprintf(fnameParts[0] + "_vertices.csv")
	fnameShortcuts := fmt.Sprintf(fnameParts[0] + "_shortcuts.csv")

	chGraph := ch.Graph{}
	nodeIDs := make([]NodeID, 0, graph.NumNodes())
	for id := range graph.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })
	for _, id := range nodeIDs {
		err := chGraph.CreateVertex(int64(id))
		if err != nil {
			return errors.Wrapf(err, "Can't create vertex %d", id)
		}
	}
	for _, from := range nodeIDs {
		for to, lengthMeters := range graph.edges[from] {
			err := chGraph.AddEdge(int64(from), int64(to), lengthMeters)
			if err != nil {
				return errors.Wrapf(err, "Can't add edge %d -> %d", from, to)
			}
		}
	}

	if verbose {
		fmt.Printf("Starting contraction process....")
	}
	st := time.Now()
	chGraph.PrepareContractionHierarchies()
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	fileVertices, err := os.Create(fnameVertices)
	if err != nil {
		return errors.Wrap(err, "Can't create vertices file")
	}
	defer fileVertices.Close()

	writerVertices := csv.NewWriter(fileVertices)
	defer writerVertices.Flush()
	writerVertices.Comma = ';'

	err = writerVertices.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	vertices := chGraph.Vertices
	for i := 0; i < len(vertices); i++ {
		label := vertices[i].Label
		geomStr := ""
		if node, ok := graph.Node(NodeID(label)); ok {
			geomStr = geomFormat.PreparePoint(node.GeoPoint())
		}
		err = writerVertices.Write([]string{
			fmt.Sprintf("%d", label),
			fmt.Sprintf("%d", vertices[i].OrderPos()),
			fmt.Sprintf("%d", vertices[i].Importance()),
			geomStr,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write vertex")
		}
	}

	err = chGraph.ExportShortcutsToFile(fnameShortcuts)
	if err != nil {
		return errors.Wrap(err, "Can't export shortcuts")
	}
	return nil
}
