package decode

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV parses a CSV payload into rows. The reader tolerates a UTF-8 byte
// order mark, ragged rows and quoted fields with doubled-quote escapes.
func CSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &DecodeError{Format: "csv", Err: err}
	}
	return rows, nil
}

// ParseLatLon converts textual coordinates to a point. Unparseable or
// non-finite values report false, which callers use to drop the row.
func ParseLatLon(latStr, lonStr string) (orb.Point, bool) {
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, false
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}
