package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/roadwork/mrtopo"
)

var (
	osmFileName   = flag.String("osm", "", "Filename of *.osm / *.osm.pbf file with road network (mutually exclusive with -nodes/-edges)")
	nodesFileName = flag.String("nodes", "", "Filename of CSV file with road graph nodes: id;longitude;latitude")
	edgesFileName = flag.String("edges", "", "Filename of CSV file with road graph edges: from;to;length_meters")
	tasksFileName = flag.String("tasks", "tasks.csv", "Filename of CSV file with maintenance work-zones")
	depotLon      = flag.Float64("depotlon", 116.3416259999999, "Longitude of the depot")
	depotLat      = flag.Float64("depotlat", 27.95609, "Latitude of the depot")
	out           = flag.String("out", "topology.csv", "Filename prefix of produced CSV files. E.g.: if file name is 'topology.csv' then files 'topology_points.csv', 'topology_coords.csv', 'topology_paths.csv', 'topology_tasks.csv' and 'topology_subgraph_*.csv' will be produced")
	snapDistance  = flag.Float64("snap", mrtopo.DefaultSnapDistanceMeters, "Maximum snap distance in meters. Points farther from the graph cause node insertion")
	workersNum    = flag.Int("workers", mrtopo.DefaultWorkersNum, "Number of shortest path workers")
	geomFormat    = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	addProcessing = flag.Bool("processing", false, "Add processing (service) time of target work-zone to travel times?")
	doContraction = flag.Bool("contract", false, "Prepare contraction hierarchies for the downstream optimizer?")
	verbose       = flag.Bool("verbose", true, "Print progress information?")
)

func main() {

	flag.Parse()

	var (
		nodes []mrtopo.RawNode
		edges []mrtopo.RawEdge
		err   error
	)
	if *osmFileName != "" {
		nodes, edges, err = mrtopo.LoadRawGraphOSM(*osmFileName, *verbose)
	} else {
		nodes, edges, err = mrtopo.LoadRawGraphCSV(*nodesFileName, *edgesFileName)
	}
	if err != nil {
		fmt.Println(err)
		return
	}

	graph, err := mrtopo.NewSimplifiedGraph(nodes, edges, *verbose)
	if err != nil {
		fmt.Println(err)
		return
	}

	tasks, err := mrtopo.LoadTasksCSV(*tasksFileName)
	if err != nil {
		fmt.Println(err)
		return
	}

	depot := mrtopo.GeoPoint{Lon: *depotLon, Lat: *depotLat}
	builder, err := mrtopo.NewTopologyBuilder(
		graph,
		depot,
		tasks,
		mrtopo.WithWorkersNum(*workersNum),
		mrtopo.WithBuilderSnapDistance(*snapDistance),
		mrtopo.WithVerbose(*verbose),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	topology, err := builder.Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	geomf := mrtopo.GeometryFormatFromString(*geomFormat)
	err = topology.ExportToCSV(*out, geomf)
	if err != nil {
		fmt.Println(err)
		return
	}

	policy := mrtopo.PROCESSING_TIME_EXCLUDED
	if *addProcessing {
		policy = mrtopo.PROCESSING_TIME_INCLUDED
	}
	taskTopology := topology.TaskTravelTimes(policy)

	fnamePart := strings.Split(*out, ".csv") // to guarantee proper filename and its extension
	err = taskTopology.ExportToCSV(fmt.Sprintf(fnamePart[0] + "_tasks.csv"))
	if err != nil {
		fmt.Println(err)
		return
	}

	subgraph, err := topology.InducedSubgraph()
	if err != nil {
		fmt.Println(err)
		return
	}
	err = subgraph.ExportToCSV(fmt.Sprintf(fnamePart[0]+"_subgraph.csv"), geomf)
	if err != nil {
		fmt.Println(err)
		return
	}

	if *doContraction {
		err = topology.Graph.ExportContracted(fmt.Sprintf(fnamePart[0]+"_contracted.csv"), geomf, *verbose)
		if err != nil {
			fmt.Println(err)
			return
		}
	}
}
