package geo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
)

// SpatialOp selects the WFS filter operator a backend understands.
type SpatialOp int

const (
	// OpIntersects matches features whose geometry intersects the envelope.
	OpIntersects SpatialOp = iota
	// OpBBox is the bounding-box operator for backends without Intersects.
	OpBBox
)

// SpatialClause returns the filter fragment selecting SHAPE geometries
// that interact with b. Corners follow the EPSG:4326 axis order, latitude
// before longitude.
func SpatialClause(b orb.Bound, op SpatialOp) string {
	lower := fmt.Sprintf("%g %g", b.Min.Lat(), b.Min.Lon())
	upper := fmt.Sprintf("%g %g", b.Max.Lat(), b.Max.Lon())
	envelope := fmt.Sprintf(
		"<gml:Envelope srsName='EPSG:4326'><gml:lowerCorner>%s</gml:lowerCorner><gml:upperCorner>%s</gml:upperCorner></gml:Envelope>",
		lower, upper)
	tag := "Intersects"
	if op == OpBBox {
		tag = "BBOX"
	}
	return fmt.Sprintf("<%s><PropertyName>SHAPE</PropertyName>%s</%s>", tag, envelope, tag)
}

// FilterQuery wraps one or more clauses in a Filter element, combining
// with And when several are given, and escapes the result for use as a
// URL query parameter value.
func FilterQuery(clauses ...string) string {
	inner := strings.Join(clauses, "")
	if len(clauses) > 1 {
		inner = "<And>" + inner + "</And>"
	}
	return url.QueryEscape("<Filter>" + inner + "</Filter>")
}
