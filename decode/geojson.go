package decode

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// DecodeError reports a payload that could not be decoded.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GeoJSON parses a FeatureCollection document. A document without a
// features array decodes to an empty collection rather than an error,
// which several of the sources produce when a dataset is empty.
func GeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var probe struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodeError{Format: "geojson", Err: err}
	}
	if len(probe.Features) == 0 || string(probe.Features) == "null" {
		return geojson.NewFeatureCollection(), nil
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &DecodeError{Format: "geojson", Err: err}
	}
	return fc, nil
}
