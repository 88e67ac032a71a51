package layers

import (
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/decode"
)

func decodeFeatures(body []byte) ([]*geojson.Feature, error) {
	fc, err := decode.GeoJSON(body)
	if err != nil {
		return nil, err
	}
	return fc.Features, nil
}
