package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// InBounds reports whether g's bounding box intersects b.
func InBounds(b orb.Bound, g orb.Geometry) bool {
	if g == nil {
		return false
	}
	return b.Intersects(g.Bound())
}

// FilterFeatures returns the features whose geometry intersects b,
// preserving input order. Features without geometry are dropped.
func FilterFeatures(fc *geojson.FeatureCollection, b orb.Bound) []*geojson.Feature {
	if fc == nil {
		return nil
	}
	out := make([]*geojson.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if InBounds(b, f.Geometry) {
			out = append(out, f)
		}
	}
	return out
}
