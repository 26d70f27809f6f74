package mrtopo

import (
	"fmt"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// GeometryFormat selects string representation of exported geometries
type GeometryFormat uint16

const (
	GEOMETRY_WKT = GeometryFormat(iota + 1)
	GEOMETRY_GEOJSON
)

func (iotaIdx GeometryFormat) String() string {
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// GeometryFormatFromString returns GeometryFormat for given string
// representation. Anything but "geojson" falls back to WKT
func GeometryFormatFromString(format string) GeometryFormat {
	if strings.ToLower(format) == "geojson" {
		return GEOMETRY_GEOJSON
	}
	return GEOMETRY_WKT
}

// PreparePoint returns string representation of Point in given format
func (format GeometryFormat) PreparePoint(pt GeoPoint) string {
	if format == GEOMETRY_GEOJSON {
		return PrepareGeoJSONPoint(pt)
	}
	return PrepareWKTPoint(pt)
}

// PrepareLinestring returns string representation of LineString in given
// format
func (format GeometryFormat) PrepareLinestring(pts []GeoPoint) string {
	if format == GEOMETRY_GEOJSON {
		return PrepareGeoJSONLinestring(pts)
	}
	return PrepareWKTLinestring(pts)
}

// PrepareWKTLinestring returns WKT representation of LineString
func PrepareWKTLinestring(pts []GeoPoint) string {
	ptsStr := make([]string, len(pts))
	for i := range pts {
		ptsStr[i] = fmt.Sprintf("%f %f", pts[i].Lon, pts[i].Lat)
	}
	return fmt.Sprintf("LINESTRING(%s)", strings.Join(ptsStr, ","))
}

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt GeoPoint) string {
	return fmt.Sprintf("POINT(%f %f)", pt.Lon, pt.Lat)
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PathGeometry returns path geometry of given record as sequence of node
// coordinates
func (topology *Topology) PathGeometry(record PathRecord) []GeoPoint {
	line := make([]GeoPoint, 0, len(record.Path))
	for _, id := range record.Path {
		node, ok := topology.Graph.Node(id)
		if !ok {
			continue
		}
		line = append(line, node.GeoPoint())
	}
	return line
}
