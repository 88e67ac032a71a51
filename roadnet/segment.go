package roadnet

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Segment is one road centerline record. RouteID is the stable key that
// joins the geometry to live speed readings.
type Segment struct {
	RouteID  string
	NameEN   string
	NameZH   string
	Geometry orb.MultiLineString
}

// FromFeature converts a GeoJSON road feature into a Segment. Features
// without a usable ROUTE_ID or line geometry report false.
func FromFeature(f *geojson.Feature) (Segment, bool) {
	if f == nil || f.Geometry == nil {
		return Segment{}, false
	}
	id := propString(f.Properties, "ROUTE_ID")
	if id == "" {
		return Segment{}, false
	}
	var geom orb.MultiLineString
	switch g := f.Geometry.(type) {
	case orb.LineString:
		geom = orb.MultiLineString{g}
	case orb.MultiLineString:
		geom = g
	default:
		return Segment{}, false
	}
	return Segment{
		RouteID:  id,
		NameEN:   propString(f.Properties, "STREET_ENAME"),
		NameZH:   propString(f.Properties, "STREET_CNAME"),
		Geometry: geom,
	}, true
}

// propString reads a property as trimmed text, tolerating numeric keys
// the upstream sometimes emits.
func propString(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", t))
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
