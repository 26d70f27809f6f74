package mrtopo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is a common interface for XML and PBF flavored scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// drivableHighways is set of `highway` tag values forming the drivable road
// network
var drivableHighways = map[string]struct{}{
	"motorway": {}, "motorway_link": {},
	"trunk": {}, "trunk_link": {},
	"primary": {}, "primary_link": {},
	"secondary": {}, "secondary_link": {},
	"tertiary": {}, "tertiary_link": {},
	"residential": {}, "unclassified": {}, "road": {},
}

type osmWay struct {
	nodes  []osm.NodeID
	oneway bool
}

// LoadRawGraphOSM reads drivable road network from OSM file (*.osm / *.xml /
// *.osm.pbf) and returns raw nodes and directed edges: one edge per
// consecutive node pair of a way, reversed pair included for two-way roads.
// Edge length is great circle distance in meters
func LoadRawGraphOSM(filename string, verbose bool) ([]RawNode, []RawEdge, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	newScanner := func() (OSMScanner, error) {
		ext := filepath.Ext(filename)
		switch ext {
		case ".osm", ".xml":
			return osmxml.New(context.Background(), file), nil
		case ".pbf", ".osm.pbf":
			return osmpbf.New(context.Background(), file, 4), nil
		default:
			return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
		}
	}

	/* Process ways */
	if verbose {
		fmt.Printf("\tProcessing ways... ")
	}
	st := time.Now()
	ways := []osmWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	{
		scannerWays, err := newScanner()
		if err != nil {
			return nil, nil, err
		}
		defer scannerWays.Close()

		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != "way" {
				continue
			}
			way := obj.(*osm.Way)
			highwayText := way.Tags.Find("highway")
			if _, ok := drivableHighways[highwayText]; !ok {
				continue
			}
			if len(way.Nodes) < 2 {
				if verbose {
					fmt.Printf("\n\t[WARNING]: Way with %d nodes met. Way ID: '%d'\n", len(way.Nodes), way.ID)
				}
				continue
			}
			oneway := false
			isReversed := false
			onewayText := way.Tags.Find("oneway")
			switch onewayText {
			case "yes", "1":
				oneway = true
			case "-1":
				oneway = true
				isReversed = true
			}
			preparedWay := osmWay{
				nodes:  make([]osm.NodeID, 0, len(way.Nodes)),
				oneway: oneway,
			}
			for _, node := range way.Nodes {
				nodesSeen[node.ID] = struct{}{}
				preparedWay.nodes = append(preparedWay.nodes, node.ID)
			}
			if isReversed {
				for i, j := 0, len(preparedWay.nodes)-1; i < j; i, j = i+1, j-1 {
					preparedWay.nodes[i], preparedWay.nodes[j] = preparedWay.nodes[j], preparedWay.nodes[i]
				}
			}
			ways = append(ways, preparedWay)
		}
		err = scannerWays.Err()
		if err != nil {
			return nil, nil, err
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	if verbose {
		fmt.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	coords := make(map[osm.NodeID]GeoPoint)
	nodes := make([]RawNode, 0, len(nodesSeen))
	{
		scannerNodes, err := newScanner()
		if err != nil {
			return nil, nil, err
		}
		defer scannerNodes.Close()

		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != "node" {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; !ok {
				continue
			}
			delete(nodesSeen, node.ID)
			pt := GeoPoint{Lon: node.Lon, Lat: node.Lat}
			coords[node.ID] = pt
			nodes = append(nodes, RawNode{ID: NodeID(node.ID), Geom: pt})
		}
		err = scannerNodes.Err()
		if err != nil {
			return nil, nil, err
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	/* Build directed edges */
	edges := make([]RawEdge, 0, len(ways)*2)
	for _, way := range ways {
		for i := 1; i < len(way.nodes); i++ {
			source := way.nodes[i-1]
			target := way.nodes[i]
			sourcePt, ok := coords[source]
			if !ok {
				return nil, nil, fmt.Errorf("No such node %d", source)
			}
			targetPt, ok := coords[target]
			if !ok {
				return nil, nil, fmt.Errorf("No such node %d", target)
			}
			lengthMeters := greatCircleDistanceMeters(sourcePt, targetPt)
			edges = append(edges, RawEdge{From: NodeID(source), To: NodeID(target), LengthMeters: lengthMeters})
			if !way.oneway {
				edges = append(edges, RawEdge{From: NodeID(target), To: NodeID(source), LengthMeters: lengthMeters})
			}
		}
	}
	return nodes, edges, nil
}
