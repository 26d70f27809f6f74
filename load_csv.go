package mrtopo

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

func readCSV(fname string, fieldsNum int) ([][]string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = fieldsNum

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read file")
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("File '%s' has no header", fname)
	}
	// Drop header
	return records[1:], nil
}

// LoadRawGraphCSV reads raw road graph from a pair of CSV files.
// Nodes file: id;longitude;latitude. Edges file: from;to;length_meters.
// Any malformed value is fatal: no partial graph is returned
func LoadRawGraphCSV(fnameNodes, fnameEdges string) ([]RawNode, []RawEdge, error) {
	nodeRecords, err := readCSV(fnameNodes, 3)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Can't read nodes from '%s'", fnameNodes)
	}
	nodes := make([]RawNode, 0, len(nodeRecords))
	for i, record := range nodeRecords {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't parse node ID at line %d", i+2)
		}
		lon, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't parse longitude at line %d", i+2)
		}
		lat, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't parse latitude at line %d", i+2)
		}
		nodes = append(nodes, RawNode{ID: NodeID(id), Geom: GeoPoint{Lon: lon, Lat: lat}})
	}

	edgeRecords, err := readCSV(fnameEdges, 3)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Can't read edges from '%s'", fnameEdges)
	}
	edges := make([]RawEdge, 0, len(edgeRecords))
	for i, record := range edgeRecords {
		from, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't parse source node at line %d", i+2)
		}
		to, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't parse target node at line %d", i+2)
		}
		length, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Edge at line %d has no usable length", i+2)
		}
		edges = append(edges, RawEdge{From: NodeID(from), To: NodeID(to), LengthMeters: length})
	}
	return nodes, edges, nil
}

// LoadTasksCSV reads maintenance work-zones from CSV file:
// origin_lon;origin_lat;destination_lon;destination_lat;side;processing_time.
// Tasks are numbered in file order
func LoadTasksCSV(fname string) ([]*TaskPoint, error) {
	records, err := readCSV(fname, 6)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read tasks from '%s'", fname)
	}
	tasks := make([]*TaskPoint, 0, len(records))
	for i, record := range records {
		originLon, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse origin longitude at line %d", i+2)
		}
		originLat, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse origin latitude at line %d", i+2)
		}
		destinationLon, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse destination longitude at line %d", i+2)
		}
		destinationLat, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse destination latitude at line %d", i+2)
		}
		processingTime, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse processing time at line %d", i+2)
		}
		tasks = append(tasks, &TaskPoint{
			Origin:         GeoPoint{Lon: originLon, Lat: originLat},
			Destination:    GeoPoint{Lon: destinationLon, Lat: destinationLat},
			Side:           SideFromString(record[4]),
			ProcessingTime: processingTime,
		})
	}
	enumerateTasks(tasks)
	return tasks, nil
}

// LoadPreprocessingTableCSV reads maintenance preprocessing reference table:
// distress_type;severity;technique;mark. Mark is one of the historical
// spreadsheet symbols: '✓' no preprocessing, '△' optional, anything else
// means preprocessing is needed
func LoadPreprocessingTableCSV(fname string) (PreprocessingTable, error) {
	records, err := readCSV(fname, 4)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read preprocessing table from '%s'", fname)
	}
	table := make(PreprocessingTable, len(records))
	for _, record := range records {
		need := PREPROCESSING_REQUIRED
		switch record[3] {
		case "✓":
			need = PREPROCESSING_NOT_REQUIRED
		case "△":
			need = PREPROCESSING_OPTIONAL
		}
		table[PreprocessingKey{
			DistressType: record[0],
			Severity:     record[1],
			Technique:    record[2],
		}] = need
	}
	return table, nil
}
