package decode

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// PropStrategy selects how placemark properties are extracted.
type PropStrategy int

const (
	// SimpleProps keeps the placemark name and raw description.
	SimpleProps PropStrategy = iota
	// TableProps parses the description as an HTML key/value table, the
	// layout the facility feeds embed in every placemark.
	TableProps
)

type placemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Coordinates string `xml:"Point>coordinates"`
}

// KML decodes placemarks into point features. Placemarks without usable
// point coordinates are skipped.
func KML(data []byte, strategy PropStrategy) (*geojson.FeatureCollection, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	fc := geojson.NewFeatureCollection()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Format: "kml", Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}
		var pm placemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return nil, &DecodeError{Format: "kml", Err: err}
		}
		pt, ok := parseKMLPoint(pm.Coordinates)
		if !ok {
			continue
		}
		f := geojson.NewFeature(pt)
		switch strategy {
		case TableProps:
			for k, v := range parseDescriptionTable(pm.Description) {
				f.Properties[k] = v
			}
			if pm.Name != "" {
				f.Properties["name"] = pm.Name
			}
		default:
			f.Properties["name"] = pm.Name
			if pm.Description != "" {
				f.Properties["description"] = pm.Description
			}
		}
		fc.Append(f)
	}
	return fc, nil
}

// KMZ extracts the first .kml member of a zip archive and decodes it.
func KMZ(data []byte, strategy PropStrategy) (*geojson.FeatureCollection, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DecodeError{Format: "kmz", Err: err}
	}
	for _, zf := range zr.File {
		if !strings.HasSuffix(strings.ToLower(zf.Name), ".kml") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, &DecodeError{Format: "kmz", Err: err}
		}
		kml, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &DecodeError{Format: "kmz", Err: err}
		}
		return KML(kml, strategy)
	}
	return nil, &DecodeError{Format: "kmz", Err: errors.New("no .kml member in archive")}
}

// parseKMLPoint reads a "lon,lat[,alt]" coordinate string.
func parseKMLPoint(s string) (orb.Point, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 {
		return orb.Point{}, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

var (
	tableRowRe = regexp.MustCompile(`(?is)<tr[^>]*>\s*<td[^>]*>(.*?)</td>\s*<td[^>]*>(.*?)</td>`)
	tagRe      = regexp.MustCompile(`(?s)<[^>]*>`)
)

// parseDescriptionTable extracts key/value rows from an embedded HTML
// table. Values that parse as numbers are coerced to float64 so callers
// can compare them without a second pass.
func parseDescriptionTable(desc string) map[string]interface{} {
	props := make(map[string]interface{})
	for _, m := range tableRowRe.FindAllStringSubmatch(desc, -1) {
		key := strings.TrimSpace(tagRe.ReplaceAllString(m[1], ""))
		val := strings.TrimSpace(tagRe.ReplaceAllString(m[2], ""))
		if key == "" {
			continue
		}
		if n, err := strconv.ParseFloat(val, 64); err == nil {
			props[key] = n
		} else {
			props[key] = val
		}
	}
	return props
}
