package mrtopo

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ExportToCSV saves topology artifacts into CSV files. E.g.: if file name is
// 'topology.csv' then 3 files will be produced: 'topology_points.csv' (point
// topology), 'topology_coords.csv' (point coordinates), 'topology_paths.csv'
// (path records with geometry in given format)
func (topology *Topology) ExportToCSV(fname string, geomFormat GeometryFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnamePoints := fmt.Sprintf(fnameParts[0] + "_points.csv")
	fnameCoords := fmt.Sprintf(fnameParts[0] + "_coords.csv")
	fnamePaths := fmt.Sprintf(fnameParts[0] + "_paths.csv")

	err := topology.exportPointsToCSV(fnamePoints)
	if err != nil {
		return errors.Wrap(err, "Can't export point topology")
	}
	err = topology.exportCoordsToCSV(fnameCoords, geomFormat)
	if err != nil {
		return errors.Wrap(err, "Can't export coordinates")
	}
	err = topology.exportPathsToCSV(fnamePaths, geomFormat)
	if err != nil {
		return errors.Wrap(err, "Can't export paths")
	}
	return nil
}

func sortedPairs(pairs map[PointPair]float64) []PointPair {
	out := make([]PointPair, 0, len(pairs))
	for pair := range pairs {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func (topology *Topology) exportPointsToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"from_index", "to_index", "length_meters"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, pair := range sortedPairs(topology.Points) {
		err = writer.Write([]string{
			fmt.Sprintf("%d", pair.From),
			fmt.Sprintf("%d", pair.To),
			fmt.Sprintf("%f", topology.Points[pair]),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write point pair")
		}
	}
	return nil
}

func (topology *Topology) exportCoordsToCSV(fname string, geomFormat GeometryFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"index", "longitude", "latitude", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	indices := make([]int, 0, len(topology.Coords))
	for index := range topology.Coords {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	for _, index := range indices {
		pt := topology.Coords[index]
		err = writer.Write([]string{
			fmt.Sprintf("%d", index),
			fmt.Sprintf("%f", pt.Lon),
			fmt.Sprintf("%f", pt.Lat),
			geomFormat.PreparePoint(pt),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write coordinates")
		}
	}
	return nil
}

func (topology *Topology) exportPathsToCSV(fname string, geomFormat GeometryFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"from_index", "to_index", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	pairs := make([]PointPair, 0, len(topology.Paths))
	for pair := range topology.Paths {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	for _, pair := range pairs {
		record := topology.Paths[pair]
		geomStr := ""
		if len(record.Path) > 1 {
			geomStr = geomFormat.PrepareLinestring(topology.PathGeometry(record))
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", pair.From),
			fmt.Sprintf("%d", pair.To),
			fmt.Sprintf("%f", record.LengthMeters),
			geomStr,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write path")
		}
	}
	return nil
}

// ExportToCSV saves task topology into single CSV file
func (taskTopology TaskTopology) ExportToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"from_task", "to_task", "minutes"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	pairs := make([]TaskPair, 0, len(taskTopology))
	for pair := range taskTopology {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	for _, pair := range pairs {
		err = writer.Write([]string{
			fmt.Sprintf("%d", pair.From),
			fmt.Sprintf("%d", pair.To),
			fmt.Sprintf("%f", taskTopology[pair]),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write task pair")
		}
	}
	return nil
}

// ExportToCSV saves graph into CSV files: '<name>_nodes.csv' and
// '<name>_edges.csv'. Used both for the simplified graph and for the induced
// subgraph handoff
func (graph *RoadGraph) ExportToCSV(fname string, geomFormat GeometryFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fmt.Sprintf(fnameParts[0] + "_nodes.csv")
	fnameEdges := fmt.Sprintf(fnameParts[0] + "_edges.csv")

	fileNodes, err := os.Create(fnameNodes)
	if err != nil {
		return errors.Wrap(err, "Can't create nodes file")
	}
	defer fileNodes.Close()

	writerNodes := csv.NewWriter(fileNodes)
	defer writerNodes.Flush()
	writerNodes.Comma = ';'

	err = writerNodes.Write([]string{"id", "longitude", "latitude", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	nodeIDs := make([]NodeID, 0, graph.NumNodes())
	for id := range graph.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })
	for _, id := range nodeIDs {
		node := graph.nodes[id]
		pt := node.GeoPoint()
		err = writerNodes.Write([]string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%f", pt.Lon),
			fmt.Sprintf("%f", pt.Lat),
			geomFormat.PreparePoint(pt),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}

	fileEdges, err := os.Create(fnameEdges)
	if err != nil {
		return errors.Wrap(err, "Can't create edges file")
	}
	defer fileEdges.Close()

	writerEdges := csv.NewWriter(fileEdges)
	defer writerEdges.Flush()
	writerEdges.Comma = ';'

	err = writerEdges.Write([]string{"from", "to", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, from := range nodeIDs {
		targets := make([]NodeID, 0, len(graph.edges[from]))
		for to := range graph.edges[from] {
			targets = append(targets, to)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, to := range targets {
			line := []GeoPoint{graph.nodes[from].GeoPoint(), graph.nodes[to].GeoPoint()}
			err = writerEdges.Write([]string{
				fmt.Sprintf("%d", from),
				fmt.Sprintf("%d", to),
				fmt.Sprintf("%f", graph.edges[from][to]),
				geomFormat.PrepareLinestring(line),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write edge")
			}
		}
	}
	return nil
}
